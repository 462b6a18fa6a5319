package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"portfolio-admin/internal/fault"
)

// Retry is opt-in: the API client never retries on its own. Only transport
// failures and 5xx responses are retried; anything else returns at once.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			slog.Info("Retrying request...", "attempt", i+1, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !fault.Retryable(err) {
			return err
		}
	}
	if attempts == 1 {
		return err
	}
	return fmt.Errorf("after %d attempts, last error: %w", attempts, err)
}
