package llm

import (
	"context"
	"errors"
)

// Client completes a text prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrNotConfigured is returned when no provider is wired.
	ErrNotConfigured = errors.New("llm provider not configured")
	// ErrRateLimited marks provider quota or rate limit responses.
	ErrRateLimited = errors.New("llm provider rate limited")
	// ErrProviderAuth marks rejected provider credentials.
	ErrProviderAuth = errors.New("llm provider rejected credentials")
	// ErrEmptyResponse is returned when the provider answered with no text.
	ErrEmptyResponse = errors.New("llm response empty")
)

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
