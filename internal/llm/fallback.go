package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Fallback is a Client decorator that tries a primary provider first and
// falls back to a secondary provider when the primary fails. It implements
// the provider-availability half of the retry story; quality retries are
// the orchestrator's concern and never reach this layer.
type Fallback struct {
	primary   Client
	secondary Client
	logger    *slog.Logger
}

// Ensure Fallback implements Client
var _ Client = (*Fallback)(nil)

// NewFallback creates a Fallback over the given providers. secondary may be
// nil, in which case the decorator is a pass-through to primary.
func NewFallback(primary, secondary Client, logger *slog.Logger) (*Fallback, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary client cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Fallback{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}, nil
}

// Name identifies the decorated client chain for logging.
func (f *Fallback) Name() string {
	if f.secondary == nil {
		return f.primary.Name()
	}
	return f.primary.Name() + "+" + f.secondary.Name()
}

// GenerateJSON tries the primary provider, then the secondary if the
// primary's error is fallback-eligible. Context cancellation is honored
// immediately and never triggers a fallback attempt.
func (f *Fallback) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	raw, primaryErr := f.primary.GenerateJSON(ctx, req)
	if primaryErr == nil {
		return raw, nil
	}

	if f.secondary == nil || !IsFallbackEligible(primaryErr) {
		return nil, primaryErr
	}

	f.logger.WarnContext(ctx, "primary provider failed, falling back",
		"primary", f.primary.Name(),
		"secondary", f.secondary.Name(),
		"error", primaryErr)

	raw, secondaryErr := f.secondary.GenerateJSON(ctx, req)
	if secondaryErr == nil {
		return raw, nil
	}

	return nil, fmt.Errorf("%w: %s: %v; %s: %v",
		ErrAllProvidersFailed,
		f.primary.Name(), primaryErr,
		f.secondary.Name(), secondaryErr)
}
