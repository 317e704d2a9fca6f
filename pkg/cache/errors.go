package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by the cache and the registry clients built on it.
var (
	// ErrNotFound is returned when the registry has no such package.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for transport failures: timeouts, connection
	// errors, 5xx responses.
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss is returned when a key is absent from the cache.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError marks an error as worth retrying.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError anywhere in
// its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to 3 times, doubling the delay between
// attempts starting at one second. Only errors marked Retryable trigger
// another attempt; anything else is returned immediately.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
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
