package gemini

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"blogpilot/config"
	"blogpilot/errs"
	"blogpilot/retry"
)

// Client wraps the genai SDK for topic, article and cover image generation.
type Client struct {
	ai    *genai.Client
	cfg   config.GeminiConfig
	retry retry.Policy
}

func New(ctx context.Context, cfg config.GeminiConfig, policy retry.Policy) (*Client, error) {
	ai, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	return &Client{ai: ai, cfg: cfg, retry: policy}, nil
}

// classify maps SDK errors onto the shared error kinds so the retry policy
// can tell auth failures and rate limits apart from transient faults.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return &errs.Error{Kind: errs.Auth, Err: err}
		case 429:
			return &errs.Error{Kind: errs.RateLimited, Err: err}
		}
	}
	return err
}
