package credentials

import "context"

// Provider resolves a tenant id to connection credentials. Implementations
// may perform network I/O; callers treat Resolve as a blocking operation
// bounded by the context deadline.
type Provider interface {
	Resolve(ctx context.Context, tenantID string) (Credentials, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, tenantID string) (Credentials, error)

func (f ProviderFunc) Resolve(ctx context.Context, tenantID string) (Credentials, error) {
	return f(ctx, tenantID)
}
