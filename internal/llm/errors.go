package llm

import (
	"context"
	"errors"
)

// Error taxonomy for model client failures. Providers classify their raw
// errors into these sentinels so callers can decide whether to fall back to
// another provider or abort.
var (
	// ErrRateLimited indicates the provider rejected the call due to quota
	// or rate limiting. The fallback decorator switches providers on this.
	ErrRateLimited = errors.New("llm: provider rate limited")

	// ErrContentBlocked indicates the provider refused to answer because of
	// safety filtering. Retrying with the same inputs will not help.
	ErrContentBlocked = errors.New("llm: content blocked by provider safety filters")

	// ErrInvalidResponse indicates the provider returned output that is not
	// the expected JSON document. Treated as permanent for a single call.
	ErrInvalidResponse = errors.New("llm: invalid response from provider")

	// ErrTransientFailure indicates a retryable provider failure (timeout,
	// 5xx, connection reset) that persisted through the provider's own
	// retry budget.
	ErrTransientFailure = errors.New("llm: transient provider failure")

	// ErrAllProvidersFailed indicates every configured provider failed for
	// one call. Surfaced by the Fallback decorator.
	ErrAllProvidersFailed = errors.New("llm: all providers failed")
)

// IsFallbackEligible reports whether an error from one provider justifies
// trying the next provider. Content blocks are provider-independent safety
// decisions and malformed output tends to be prompt-specific, but both are
// cheap to retry against a different model, so only context cancellation is
// excluded.
func IsFallbackEligible(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
