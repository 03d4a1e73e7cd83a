package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Retryer runs an operation with bounded retries and pure exponential
// backoff: attempt i and i+1 are separated by baseDelay * 2^i, no jitter.
// The last failure is propagated once attempts are exhausted.
//
// The retryer holds no deadline state. Callers that need an overall timeout
// wrap the context; cancellation aborts a pending backoff sleep immediately.
type Retryer struct {
	maxAttempts int
	baseDelay   time.Duration
}

func NewRetryer(maxAttempts int, baseDelay time.Duration) *Retryer {
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}

	return &Retryer{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

// Do executes op up to maxAttempts+1 times. Every error is considered
// transient here; the oracle path has no input-dependent failures worth
// classifying, and non-oracle callers degrade anyway.
func (r *Retryer) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(uint64(r.maxAttempts), retry.NewExponential(r.baseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := op(ctx); err != nil {
			if attempt <= r.maxAttempts {
				slog.Debug("operation failed, will retry",
					"attempt", attempt,
					"max_attempts", r.maxAttempts+1,
					"error", err)
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}
