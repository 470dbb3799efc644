package crawl

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for retries: 1s, 2s.
// At most two retries per URL; a host that fails three times in a row is
// not worth more of the discovery deadline.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// WithRetry runs fn with exponential backoff, retrying only errors that
// manualagent.IsRetryable reports as transient. Terminal errors (quota,
// validation, not-found) and context cancellation return immediately.
// The logger function, if provided, is called for each retry attempt.
func WithRetry[T any](ctx context.Context, op string, fn func(ctx context.Context) (T, error), logger LogFunc) (T, error) {
	return WithRetryDelays(ctx, op, fn, logger, DefaultRetryDelays())
}

// WithRetryDelays is like WithRetry but allows configurable delays.
// This is useful for testing without waiting for real delays.
func WithRetryDelays[T any](ctx context.Context, op string, fn func(ctx context.Context) (T, error), logger LogFunc, delays []time.Duration) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !manualagent.IsRetryable(err) {
			return zero, err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", op, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(jitter(delays[attempt])):
		}
	}

	return zero, lastErr
}

// jitter spreads a delay over [d/2, d) so parallel retries against the same
// host do not synchronize.
func jitter(d time.Duration) time.Duration {
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + rand.N(half)
}
