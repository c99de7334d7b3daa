package gateway

import (
	"context"
	"math"
	"time"
)

// RetryConfig configures retry behavior for model calls.
type RetryConfig struct {
	MaxRetries     int           // Maximum number of retry attempts
	InitialBackoff time.Duration // Initial backoff duration (doubles each retry)
	MaxBackoff     time.Duration // Maximum backoff duration
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     4 * time.Second,
	}
}

// RetryableFunc is a completion call that can be retried.
type RetryableFunc func(ctx context.Context) (string, error)

// WithRetry executes a completion call with exponential backoff.
// Returns the result on success, or the last error after all retries
// are exhausted.
func WithRetry(ctx context.Context, config RetryConfig, fn RetryableFunc) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		// Don't sleep after the last attempt
		if attempt < config.MaxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(calculateBackoff(config, attempt)):
				// Continue to next attempt
			}
		}
	}

	return "", lastErr
}

// calculateBackoff computes exponential backoff: initial * 2^attempt,
// capped at MaxBackoff.
func calculateBackoff(config RetryConfig, attempt int) time.Duration {
	backoff := float64(config.InitialBackoff) * math.Pow(2, float64(attempt))
	if backoff > float64(config.MaxBackoff) {
		backoff = float64(config.MaxBackoff)
	}
	return time.Duration(backoff)
}
