package llm

import (
	"context"
	"encoding/json"
)

// Request describes a single structured-output model invocation.
// Every call in the verification pipeline expects the model to return a
// JSON object matching the stage's output schema.
type Request struct {
	// System is the system instruction establishing the model's role.
	System string

	// Prompt is the user-facing prompt body.
	Prompt string

	// Temperature controls sampling randomness. Stages closer to the end of
	// the pipeline use lower temperatures.
	Temperature float32

	// MaxTokens bounds the response length. Zero means provider default.
	MaxTokens int
}

// Client is the capability for generating structured JSON responses from an
// LLM provider. Implementations must be safe for concurrent use: one client
// is shared across all concurrently running pipeline instances and holds no
// per-run state.
type Client interface {
	// GenerateJSON sends the request to the provider and returns the raw
	// JSON object produced by the model. Implementations retry transient
	// provider errors internally with the same inputs; callers receive
	// either a parseable JSON document or a classified error from this
	// package's taxonomy (ErrRateLimited, ErrContentBlocked,
	// ErrInvalidResponse, ErrTransientFailure).
	GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error)

	// Name identifies the provider for logging.
	Name() string
}
