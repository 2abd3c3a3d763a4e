// Package connection maintains at most one live *gorm.DB per tenant.
//
// Lookups are lock-free on the hot path. Pool creation is coalesced per
// tenant: concurrent callers for the same tenant share a single attempt and
// its result, and the attempt runs under a detached context so an aborted
// request still populates the cache for the next one.
package connection

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultValidateEvery  = 30 * time.Second
	DefaultEvictGrace     = 10 * time.Second
)

// CredentialFunc resolves connection credentials for a tenant. It matches
// credentials.Provider.Resolve so a provider method can be passed directly.
type CredentialFunc func(ctx context.Context, tenantID string) (credentials.Credentials, error)

// Opener turns resolved credentials into a live pool. The production
// implementation is GormOpener; tests substitute fakes.
type Opener interface {
	Open(ctx context.Context, tenantID string, creds credentials.Credentials) (*gorm.DB, error)
	Validate(ctx context.Context, db *gorm.DB) error
	Close(db *gorm.DB) error
}

// Options tune cache behavior. Zero values fall back to the package defaults.
type Options struct {
	// ConnectTimeout bounds one pool creation attempt, independent of the
	// caller's deadline.
	ConnectTimeout time.Duration

	// ValidateEvery is how long a successful health check keeps a handle
	// fresh. A stale handle is re-validated before being handed out.
	ValidateEvery time.Duration

	// EvictGrace is the delay between removing a pool from the cache and
	// closing it, so in-flight queries can finish.
	EvictGrace time.Duration
}

// OptionsFrom translates the shared tenant database defaults.
func OptionsFrom(d config.DatabaseDefaults) Options {
	return Options{
		ConnectTimeout: time.Duration(d.ConnectTimeout) * time.Second,
		ValidateEvery:  time.Duration(d.ValidateEvery) * time.Second,
		EvictGrace:     time.Duration(d.EvictGrace) * time.Second,
	}
}

func (o Options) withDefaults() Options {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.ValidateEvery == 0 {
		o.ValidateEvery = DefaultValidateEvery
	}
	if o.EvictGrace == 0 {
		o.EvictGrace = DefaultEvictGrace
	}
	return o
}

// Cache maps tenant ids to live database handles.
type Cache struct {
	opener Opener
	opts   Options

	entries sync.Map // tenantID -> *Handle
	group   singleflight.Group
}

// NewCache builds a cache around the given opener.
func NewCache(opener Opener, opts Options) *Cache {
	return &Cache{opener: opener, opts: opts.withDefaults()}
}

// GetOrCreate returns the cached handle for tenantID, creating the pool on a
// miss. credFn is only consulted when a new pool must be opened.
//
// ctx bounds how long this caller waits; it does not bound the creation
// itself. A caller that gives up leaves the shared attempt running, and a
// successful attempt still lands in the cache.
func (c *Cache) GetOrCreate(ctx context.Context, tenantID string, credFn CredentialFunc) (*Handle, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, credentials.ErrInvalidTenantID
	}

	if h, ok := c.lookup(tenantID); ok {
		return h, nil
	}

	ch := c.group.DoChan(tenantID, func() (interface{}, error) {
		return c.create(tenantID, credFn)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Handle), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// lookup returns a usable cached handle or nothing. A handle past its
// freshness window is re-validated; one that fails validation is evicted so
// the caller rebuilds it. The probe runs under its own bounded context, not
// the caller's: a request that arrives already canceled must not condemn a
// pool other requests are still using.
func (c *Cache) lookup(tenantID string) (*Handle, bool) {
	v, ok := c.entries.Load(tenantID)
	if !ok {
		return nil, false
	}
	h := v.(*Handle)

	if time.Since(h.LastValidated()) < c.opts.ValidateEvery {
		return h, true
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.ConnectTimeout)
	defer cancel()
	if err := c.opener.Validate(ctx, h.DB); err != nil {
		logger.Warnf("tenant %s: cached pool failed health check, rebuilding: %v", tenantID, err)
		c.remove(tenantID, h)
		return nil, false
	}
	h.markValidated(time.Now())
	return h, true
}

// create opens a new pool under a detached, bounded context. It re-reads the
// cache first so a handle stored by a concurrent validation is reused.
func (c *Cache) create(tenantID string, credFn CredentialFunc) (*Handle, error) {
	if v, ok := c.entries.Load(tenantID); ok {
		return v.(*Handle), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.ConnectTimeout)
	defer cancel()

	creds, err := credFn(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant %s: resolve credentials: %w", tenantID, err)
	}
	db, err := c.opener.Open(ctx, tenantID, creds)
	if err != nil {
		return nil, fmt.Errorf("tenant %s: open database: %w", tenantID, err)
	}

	now := time.Now()
	h := &Handle{DB: db, TenantID: tenantID, CreatedAt: now}
	h.markValidated(now)
	c.entries.Store(tenantID, h)
	logger.Infof("tenant %s: database pool created", tenantID)
	return h, nil
}

// Evict removes a tenant's handle immediately. The underlying pool is closed
// in the background after the grace delay.
func (c *Cache) Evict(tenantID string) {
	if v, ok := c.entries.LoadAndDelete(tenantID); ok {
		c.closeLater(v.(*Handle))
	}
}

// EvictAll drains the cache, typically at shutdown.
func (c *Cache) EvictAll() {
	c.entries.Range(func(key, _ interface{}) bool {
		c.Evict(key.(string))
		return true
	})
}

// Len counts cached handles.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Range calls fn for every cached handle until fn returns false.
func (c *Cache) Range(fn func(tenantID string, h *Handle) bool) {
	c.entries.Range(func(key, value interface{}) bool {
		return fn(key.(string), value.(*Handle))
	})
}

func (c *Cache) remove(tenantID string, h *Handle) {
	if c.entries.CompareAndDelete(tenantID, h) {
		c.closeLater(h)
	}
}

func (c *Cache) closeLater(h *Handle) {
	grace := c.opts.EvictGrace
	go func() {
		if grace > 0 {
			time.Sleep(grace)
		}
		if err := c.opener.Close(h.DB); err != nil {
			logger.Warnf("tenant %s: closing evicted pool: %v", h.TenantID, err)
		}
	}()
}
