package errs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies an error so the job orchestrator can decide
// retry-vs-abort-vs-degrade with a type switch instead of string matching.
type Kind int

const (
	// Transient covers network timeouts, 5xx responses and other failures
	// that may succeed on a later attempt. It is the default kind.
	Transient Kind = iota

	// Auth covers invalid credentials. Never retried.
	Auth

	// RateLimited covers 429 responses. May carry a server retry-after hint.
	RateLimited

	// Validation covers malformed or incomplete generated content.
	Validation

	// BestEffort marks failures of optional branches (cover image, news
	// context) that are logged and never escalated.
	BestEffort

	// Terminal covers unrecoverable pipeline failures such as a publish
	// submission that exhausted its retries.
	Terminal
)

func (k Kind) String() string {
	switch k {
	case Auth:
		return "auth"
	case RateLimited:
		return "rate_limited"
	case Validation:
		return "validation"
	case BestEffort:
		return "best_effort"
	case Terminal:
		return "terminal"
	default:
		return "transient"
	}
}

// Error attaches a Kind to an underlying error.
type Error struct {
	Kind       Kind
	RetryAfter time.Duration // only meaningful for RateLimited
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with the given kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf wraps a formatted error with the given kind.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// RateLimit builds a RateLimited error carrying the server's retry-after hint.
// A zero hint means the caller falls back to its own delay schedule.
func RateLimit(err error, retryAfter time.Duration) *Error {
	return &Error{Kind: RateLimited, RetryAfter: retryAfter, Err: err}
}

// KindOf returns the kind of err, defaulting to Transient for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Transient
}

// RetryAfterHint returns the server-provided retry-after delay, if any.
func RetryAfterHint(err error) (time.Duration, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == RateLimited && e.RetryAfter > 0 {
		return e.RetryAfter, true
	}
	return 0, false
}

// IsAuth reports whether err is an authentication failure. Besides the typed
// kind it matches the error text, since third-party SDKs surface credential
// problems as plain errors.
func IsAuth(err error) bool {
	if err == nil {
		return false
	}
	if KindOf(err) == Auth {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "api key") ||
		strings.Contains(msg, "401")
}

// IsValidation reports whether err is a content validation failure.
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == Validation
}
