package tenant

import (
	"context"
	"strings"

	"github.com/eatwithme/etm-core/sdk/pkg/tenant/connection"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
)

// Resolver turns a tenant id into a live database handle. Retry behavior
// belongs to the credential provider, typically wrapped with
// credentials.WithRetry before being handed here.
type Resolver struct {
	provider credentials.Provider
	cache    *connection.Cache
}

func NewResolver(provider credentials.Provider, cache *connection.Cache) *Resolver {
	return &Resolver{provider: provider, cache: cache}
}

// ResolveForRequest returns the handle for tenantID, creating the pool on
// first use. Errors are classified into the package taxonomy.
func (r *Resolver) ResolveForRequest(ctx context.Context, tenantID string) (*connection.Handle, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, ErrMissingTenantID
	}
	h, err := r.cache.GetOrCreate(ctx, tenantID, r.provider.Resolve)
	if err != nil {
		return nil, Classify(err)
	}
	return h, nil
}

// Evict drops the tenant's cached pool, forcing a fresh resolution next time.
func (r *Resolver) Evict(tenantID string) {
	r.cache.Evict(tenantID)
}

// Cache exposes the underlying connection cache for lifecycle management.
func (r *Resolver) Cache() *connection.Cache {
	return r.cache
}
