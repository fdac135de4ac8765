package workflow

import (
	"errors"
	"math/rand"
	"time"
)

// ErrInvalidRetryPolicy is returned by RetryPolicy.Validate when a policy's
// fields are inconsistent.
var ErrInvalidRetryPolicy = errors.New("workflow: invalid retry policy")

// RetryPolicy configures automatic retry behavior for failing output
// handlers under MarkExecuteBeforeClaim. Exponential backoff with jitter is
// used to avoid thundering-herd retries across instances.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of handler invocations (including
	// the first). Must be >= 1.
	MaxAttempts int

	// BaseDelay is the base delay for exponential backoff between
	// attempts.
	BaseDelay time.Duration

	// MaxDelay caps the exponential growth. Must be >= BaseDelay when both
	// are positive.
	MaxDelay time.Duration

	// Retryable decides whether a given handler error should be retried.
	// If nil, all errors are considered retryable.
	Retryable func(error) bool
}

// Validate checks the RetryPolicy's fields for internal consistency.
func (rp *RetryPolicy) Validate() error {
	if rp.MaxAttempts < 1 {
		return ErrInvalidRetryPolicy
	}
	if rp.MaxDelay > 0 && rp.BaseDelay > 0 && rp.MaxDelay < rp.BaseDelay {
		return ErrInvalidRetryPolicy
	}
	return nil
}

// computeBackoff calculates the delay before the next handler attempt,
// using exponential backoff with jitter:
//
//	delay = min(base * 2^attempt, maxDelay) + jitter(0, base)
//
// attempt is zero-based (0 = delay before the second attempt).
func computeBackoff(attempt int, base, maxDelay time.Duration, rng *rand.Rand) time.Duration {
	exponentialDelay := base * (1 << attempt)
	if exponentialDelay > maxDelay {
		exponentialDelay = maxDelay
	}

	var jitter time.Duration
	if base > 0 {
		if rng != nil {
			jitter = time.Duration(rng.Int63n(int64(base)))
		} else {
			// Not deterministic, but acceptable for non-replay retry timing.
			jitter = time.Duration(rand.Int63n(int64(base))) // #nosec G404 -- jitter for retry timing, not security
		}
	}

	return exponentialDelay + jitter
}
