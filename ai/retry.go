package ai

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy describes how often a model call is retried.
type RetryPolicy struct {
	MaxAttempts int           // Total attempts including the first, must be > 0
	BaseDelay   time.Duration // Delay before the second attempt, doubled each retry
}

// DefaultRetryPolicy retries three times starting at 500ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}
}

// Do runs operation under the policy. See RetryWithBackoff.
func (p RetryPolicy) Do(ctx context.Context, operation func() error) error {
	return RetryWithBackoff(ctx, operation, p.MaxAttempts, p.BaseDelay)
}

// RetryWithBackoff retries operation with exponential backoff until it
// succeeds, maxAttempts is reached, or ctx is done. It returns the error of
// the last attempt, or the context error if the context ended first.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	delay := baseDelay
	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("model call succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if attempt == maxAttempts {
			return lastErr
		}

		slog.Debug("model call failed, retrying", "attempt", attempt, "maxAttempts", maxAttempts, "delay", delay, "error", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
