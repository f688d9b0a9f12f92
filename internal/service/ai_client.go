package service

import (
	"context"
	"errors"
)

// ErrServiceUnavailable is returned by a TextGenerator that cannot produce
// text: missing credentials, network failure or an unusable response.
var ErrServiceUnavailable = errors.New("text generation service unavailable")

// TextGenerator is the capability used to replace the deterministic summary
// with model-written prose.
type TextGenerator interface {
	// Generate returns plain text for the prompt or an error wrapping
	// ErrServiceUnavailable.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider in logs
	Name() string
}

// Ensure the concrete clients implement TextGenerator
var (
	_ TextGenerator = (*OpenAIClient)(nil)
	_ TextGenerator = (*GeminiClient)(nil)
)
