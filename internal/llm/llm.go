package llm

import (
	"context"
	"errors"
)

// Client abstracts chat completion providers behind a single prompt call.
// The reply is free-form text; callers parse it downstream.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned when no provider credentials are present.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is the default client when no API key is set. It lets the
// server boot without credentials and fail per request instead.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}

var _ Client = PlaceholderClient{}
