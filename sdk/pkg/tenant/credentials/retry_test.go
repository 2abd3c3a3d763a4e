package credentials

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingProvider(calls *int, results ...error) Provider {
	return ProviderFunc(func(ctx context.Context, tenantID string) (Credentials, error) {
		i := *calls
		*calls++
		if i >= len(results) {
			i = len(results) - 1
		}
		if results[i] != nil {
			return Credentials{}, results[i]
		}
		return Credentials{Host: "h", Port: 5432, Username: "u", DBName: "d"}, nil
	})
}

func fastRetry(inner Provider) *RetryingProvider {
	p := WithRetry(inner)
	p.Backoff = time.Millisecond
	return p
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	calls := 0
	p := fastRetry(countingProvider(&calls,
		fmt.Errorf("%w: connection refused", ErrUnavailable),
		nil,
	))

	creds, err := p.Resolve(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "d", creds.DBName)
	assert.Equal(t, 2, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	p := fastRetry(countingProvider(&calls,
		fmt.Errorf("%w: timeout", ErrUnavailable),
	))

	_, err := p.Resolve(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrUnavailable)
	// 1 initial + 2 retries
	assert.Equal(t, 3, calls)
}

func TestRetry_NotFoundIsNotRetried(t *testing.T) {
	calls := 0
	p := fastRetry(countingProvider(&calls, ErrNotFound))

	_, err := p.Resolve(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestRetry_InvalidIDIsNotRetried(t *testing.T) {
	calls := 0
	p := fastRetry(countingProvider(&calls, ErrInvalidTenantID))

	_, err := p.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidTenantID)
	assert.Equal(t, 1, calls)
}

func TestRetry_CancelledBetweenAttempts(t *testing.T) {
	calls := 0
	ctx, cancel := context.WithCancel(context.Background())
	p := fastRetry(ProviderFunc(func(ctx context.Context, tenantID string) (Credentials, error) {
		calls++
		cancel()
		return Credentials{}, fmt.Errorf("%w: down", ErrUnavailable)
	}))

	_, err := p.Resolve(ctx, "t1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
