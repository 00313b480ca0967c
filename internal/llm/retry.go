package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// IsPermanent reports whether retrying a call with identical inputs against
// the same provider cannot help. Rate limits are permanent at this level so
// the fallback decorator can switch providers instead of hammering the
// limited one.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrContentBlocked) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// CallWithRetry invokes call up to maxRetries+1 times with the same inputs,
// backing off exponentially with jitter between attempts. Permanent errors
// return immediately. Exhausting the attempts escalates to
// ErrTransientFailure.
func CallWithRetry(
	ctx context.Context,
	logger *slog.Logger,
	provider string,
	maxRetries int,
	baseDelay time.Duration,
	call func(ctx context.Context) (json.RawMessage, error),
) (json.RawMessage, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		raw, err := call(ctx)
		if err == nil {
			return raw, nil
		}

		if IsPermanent(err) {
			logger.WarnContext(ctx, "permanent provider error, not retrying",
				"provider", provider,
				"attempt", attempt+1,
				"error", err)
			return nil, err
		}

		if attempt >= maxRetries {
			logger.WarnContext(ctx, "provider retry attempts exhausted",
				"provider", provider,
				"attempts", attempt+1,
				"error", err)
			return nil, fmt.Errorf("%w: %s failed after %d attempts: %v",
				ErrTransientFailure, provider, attempt+1, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(baseDelay) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter)

		logger.InfoContext(ctx, "retrying provider call after delay",
			"provider", provider,
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds(),
			"error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}
