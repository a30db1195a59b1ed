package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnavailable is matched by errors from remote backends that never
	// answered a ping.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrUnsupportedScheme is returned by Open for unknown URL schemes.
	ErrUnsupportedScheme = errors.New("unsupported cache scheme")
)

// RetryableError marks an error as transient for [Backoff.Retry].
type RetryableError struct{ Err error }

// Retryable marks err as transient. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether any error in err's chain is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// BackendError reports that a remote backend could not be reached.
// It matches both [ErrUnavailable] and the underlying cause.
type BackendError struct {
	Backend string // "redis", "mongodb"
	Addr    string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("%s: %s: %v", ErrUnavailable, e.Backend, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", ErrUnavailable, e.Backend, e.Addr, e.Err)
}

func (e *BackendError) Unwrap() []error { return []error{ErrUnavailable, e.Err} }

// Backoff retries an operation with a doubling delay between attempts.
type Backoff struct {
	Attempts int
	Delay    time.Duration // first wait
	MaxDelay time.Duration // cap on the doubled wait; zero means no cap
}

// DefaultBackoff is used when connecting to remote backends.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 4 * time.Second}

// Retry calls fn until it succeeds, returns an error not marked with
// [Retryable], or the attempts run out. The last error is returned.
// A done context stops the wait and returns ctx.Err().
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if b.MaxDelay > 0 && delay > b.MaxDelay {
			delay = b.MaxDelay
		}
	}
	return err
}

// awaitBackend pings a freshly opened client until it answers. Every ping
// failure counts as transient; the final one comes back as a *BackendError.
func awaitBackend(ctx context.Context, b Backoff, backend, addr string, ping func(context.Context) error) error {
	err := b.Retry(ctx, func() error {
		return Retryable(ping(ctx))
	})
	if err == nil {
		return nil
	}
	var re *RetryableError
	if errors.As(err, &re) {
		err = re.Err
	}
	return &BackendError{Backend: backend, Addr: addr, Err: err}
}
