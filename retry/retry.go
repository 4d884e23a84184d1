// Package retry wraps external calls in a shared attempt/backoff policy so
// timing lives in one place and tests can run without real delays.
package retry

import (
	"context"
	"fmt"
	"time"

	"blogpilot/errs"
	"blogpilot/logger"
)

// DefaultDelays are fixed escalating steps, not exponential backoff. They are
// sized to sit out external rate-limit windows rather than minimize latency.
var DefaultDelays = []time.Duration{60 * time.Second, 300 * time.Second, 600 * time.Second}

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of tries including the first.
	MaxAttempts int

	// Delays holds the wait before attempt n+1. When attempts outnumber
	// entries the last entry repeats.
	Delays []time.Duration

	// Sleep is swapped for a recorder in tests. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// Default is the policy shared by all generative and publishing API calls.
func Default() Policy {
	return Policy{MaxAttempts: 3, Delays: DefaultDelays}
}

// sleep waits out the backoff delay, returning early when the context is
// cancelled so a 600s step cannot outlive the caller.
func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		p.Sleep(d)
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p Policy) delayFor(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if attempt-1 < len(p.Delays) {
		return p.Delays[attempt-1]
	}
	return p.Delays[len(p.Delays)-1]
}

// Do runs op up to MaxAttempts times. Authentication errors are never
// retried. Rate-limit errors honor a server retry-after hint when present,
// otherwise the standard delay schedule applies. The final error is returned
// after the budget is exhausted; nothing is swallowed.
func (p Policy) Do(ctx context.Context, name string, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = op()
		if err == nil {
			return nil
		}

		if errs.IsAuth(err) {
			logger.ErrorWithFields("authentication error, not retrying", logger.Fields{
				"op":    name,
				"error": err.Error(),
			})
			return err
		}

		if attempt == attempts {
			break
		}

		delay := p.delayFor(attempt)
		if hint, ok := errs.RetryAfterHint(err); ok {
			delay = hint
		}
		logger.WarnWithFields("call failed, retrying", logger.Fields{
			"op":      name,
			"attempt": attempt,
			"of":      attempts,
			"delay":   delay.String(),
			"error":   err.Error(),
		})
		if ctxErr := p.sleep(ctx, delay); ctxErr != nil {
			return ctxErr
		}
	}

	return fmt.Errorf("%s: all %d attempts failed: %w", name, attempts, err)
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, name string, op func() (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, name, func() error {
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
