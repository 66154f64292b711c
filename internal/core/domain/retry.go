package domain

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy describes a bounded polling loop with a fixed interval.
type RetryPolicy struct {
	// MaxAttempts is the number of times the probe is invoked before giving up.
	MaxAttempts int

	// Interval is the pause between consecutive attempts.
	Interval time.Duration
}

// DefaultRetryPolicy polls every 100ms for up to 100 attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 100, Interval: 100 * time.Millisecond}
}

// Poll invokes probe until it returns nil, the attempt budget is used up,
// or ctx is cancelled. On exhaustion the returned error wraps
// ErrRetryExhausted and the last probe error.
func (p RetryPolicy) Poll(ctx context.Context, probe func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = probe(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(p.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, attempts, lastErr)
}
