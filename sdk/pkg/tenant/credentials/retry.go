package credentials

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultAttemptTimeout bounds one resolution attempt.
	DefaultAttemptTimeout = 5 * time.Second
	// DefaultRetries is the number of retries after the first attempt.
	DefaultRetries = 2
	// DefaultBackoff is the wait before the first retry; it doubles per retry.
	DefaultBackoff = 200 * time.Millisecond
)

// RetryingProvider wraps a Provider with bounded retries on transient
// failures. Not-found and invalid-id failures are returned immediately.
type RetryingProvider struct {
	Inner          Provider
	Retries        int
	Backoff        time.Duration
	AttemptTimeout time.Duration
}

// WithRetry applies the default retry policy to a provider.
func WithRetry(inner Provider) *RetryingProvider {
	return &RetryingProvider{
		Inner:          inner,
		Retries:        DefaultRetries,
		Backoff:        DefaultBackoff,
		AttemptTimeout: DefaultAttemptTimeout,
	}
}

func (p *RetryingProvider) Resolve(ctx context.Context, tenantID string) (Credentials, error) {
	backoff := p.Backoff

	var lastErr error
	for attempt := 0; attempt <= p.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Credentials{}, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if p.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		}
		creds, err := p.Inner.Resolve(attemptCtx, tenantID)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return creds, nil
		}
		if !retryable(err) {
			return Credentials{}, err
		}
		lastErr = err
	}

	return Credentials{}, lastErr
}

// retryable returns true only for transient failures. Authentication and
// not-found errors must not be retried.
func retryable(err error) bool {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidTenantID) {
		return false
	}
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}
