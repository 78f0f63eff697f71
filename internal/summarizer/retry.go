package summarizer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// RetryableError indicates a transient upstream failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable reports transient failures: RetryableError and network
// timeouts.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// StatusRetryable reports whether an HTTP status is worth retrying.
func StatusRetryable(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// backoff returns the wait before retry attempt n (0-indexed), with jitter.
func (c RetryConfig) backoff(attempt int) time.Duration {
	base := c.BaseDelay * time.Duration(1<<uint(attempt))
	if c.MaxDelay > 0 && base > c.MaxDelay {
		base = c.MaxDelay
	}
	if half := int64(base) / 2; half > 0 {
		return base + time.Duration(rand.Int63n(half))
	}
	return base
}

// WithBackoff runs op until it succeeds, fails with a non-retryable error,
// runs out of retries or ctx is done.
func WithBackoff(ctx context.Context, cfg RetryConfig, op func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= cfg.MaxRetries {
			return fmt.Errorf("operation failed after %d attempts: %w", attempt+1, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.backoff(attempt)):
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
