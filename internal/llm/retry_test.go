package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallWithRetrySucceedsFirstTry(t *testing.T) {
	t.Parallel()

	calls := 0
	raw, err := CallWithRetry(context.Background(), testLogger(), "test", 3, time.Millisecond,
		func(ctx context.Context) (json.RawMessage, error) {
			calls++
			return json.RawMessage(`{}`), nil
		})

	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
	assert.Equal(t, 1, calls)
}

func TestCallWithRetryRecoversFromTransientError(t *testing.T) {
	t.Parallel()

	calls := 0
	raw, err := CallWithRetry(context.Background(), testLogger(), "test", 3, time.Millisecond,
		func(ctx context.Context) (json.RawMessage, error) {
			calls++
			if calls < 3 {
				return nil, assert.AnError
			}
			return json.RawMessage(`{"ok":true}`), nil
		})

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, 3, calls)
}

func TestCallWithRetryExhaustsBudget(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := CallWithRetry(context.Background(), testLogger(), "test", 2, time.Millisecond,
		func(ctx context.Context) (json.RawMessage, error) {
			calls++
			return nil, assert.AnError
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransientFailure)
	assert.Equal(t, 3, calls, "maxRetries=2 means three attempts in total")
}

func TestCallWithRetryStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	for _, permanent := range []error{ErrContentBlocked, ErrInvalidResponse, ErrRateLimited} {
		calls := 0
		_, err := CallWithRetry(context.Background(), testLogger(), "test", 5, time.Millisecond,
			func(ctx context.Context) (json.RawMessage, error) {
				calls++
				return nil, permanent
			})

		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls, "permanent error %v must not be retried", permanent)
	}
}

func TestCallWithRetryHonorsCancellationDuringDelay(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := CallWithRetry(ctx, testLogger(), "test", 5, time.Minute,
			func(ctx context.Context) (json.RawMessage, error) {
				calls++
				return nil, assert.AnError
			})
		done <- err
	}()

	// Give the first attempt time to fail, then cancel during the backoff.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrTransientFailure)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("retry loop did not observe cancellation")
	}
}

func TestIsPermanent(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPermanent(ErrContentBlocked))
	assert.True(t, IsPermanent(ErrInvalidResponse))
	assert.True(t, IsPermanent(ErrRateLimited))
	assert.True(t, IsPermanent(context.Canceled))
	assert.False(t, IsPermanent(assert.AnError))
	assert.False(t, IsPermanent(ErrTransientFailure))
}
