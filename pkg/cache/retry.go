package cache

import (
	"context"
	"time"
)

// Ping retry schedule for OpenRedis. A server that is still starting
// usually answers within a second.
const (
	pingAttempts = 3
	pingDelay    = 200 * time.Millisecond
)

// retry executes fn up to attempts times, doubling delay after each
// failure. It returns the last error if all attempts fail, or ctx.Err()
// if cancelled while waiting.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
