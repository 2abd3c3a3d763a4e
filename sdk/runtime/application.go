package runtime

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eatwithme/etm-core/sdk/pkg/tenant"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/connection"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/provision"
	"gorm.io/gorm"
)

// Application is the composition root: it owns the tenant connection cache,
// credential provider, resolver and provisioning manager, plus the HTTP
// engine and shared configuration. Nothing in here is a package-level global;
// everything is reached through the container.
type Application struct {
	engine      http.Handler
	logger      *zap.Logger
	mux         sync.RWMutex
	middlewares map[string]interface{}
	configs     map[string]interface{}
	handler     map[string][]func(r *gin.RouterGroup, hand ...*gin.HandlerFunc)
	routers     []Router
	appRouters  []func()

	rootDB    *gorm.DB
	provider  credentials.Provider
	cache     *connection.Cache
	resolver  *tenant.Resolver
	provision *provision.Manager
}

type Router struct {
	HttpMethod, RelativePath, Handler string
}

type Routers struct {
	List []Router
}

// NewConfig returns an empty application container.
func NewConfig() *Application {
	return &Application{
		middlewares: make(map[string]interface{}),
		configs:     make(map[string]interface{}),
		handler:     make(map[string][]func(r *gin.RouterGroup, hand ...*gin.HandlerFunc)),
		routers:     make([]Router, 0),
	}
}

// SetRootDB stores the privileged master connection. It is only for the
// provisioning lifecycle, never for tenant-facing request paths.
func (e *Application) SetRootDB(db *gorm.DB) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.rootDB = db
}

func (e *Application) GetRootDB() *gorm.DB {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.rootDB
}

func (e *Application) SetCredentialProvider(p credentials.Provider) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.provider = p
}

func (e *Application) GetCredentialProvider() credentials.Provider {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.provider
}

func (e *Application) SetConnectionCache(c *connection.Cache) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.cache = c
}

func (e *Application) GetConnectionCache() *connection.Cache {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.cache
}

func (e *Application) SetTenantResolver(r *tenant.Resolver) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.resolver = r
}

func (e *Application) GetTenantResolver() *tenant.Resolver {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.resolver
}

func (e *Application) SetProvisionManager(m *provision.Manager) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.provision = m
}

func (e *Application) GetProvisionManager() *provision.Manager {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.provision
}

// GetTenantDB resolves the live database handle for one tenant through the
// resolver, creating the pool on first use.
func (e *Application) GetTenantDB(ctx context.Context, tenantID string) (*gorm.DB, error) {
	resolver := e.GetTenantResolver()
	if resolver == nil {
		return nil, tenant.ErrConnectionFailed
	}
	h, err := resolver.ResolveForRequest(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return h.DB, nil
}

// GetTenantDBs visits every cached tenant connection.
func (e *Application) GetTenantDBs(fn func(tenantID string, db *gorm.DB) bool) {
	cache := e.GetConnectionCache()
	if cache == nil {
		return
	}
	cache.Range(func(tenantID string, h *connection.Handle) bool {
		return fn(tenantID, h.DB)
	})
}

// SetEngine sets the HTTP router engine.
func (e *Application) SetEngine(engine http.Handler) {
	e.engine = engine
}

func (e *Application) GetEngine() http.Handler {
	return e.engine
}

func (e *Application) SetLogger(logger *zap.Logger) {
	e.logger = logger
}

func (e *Application) GetLogger() *zap.Logger {
	return e.logger
}

func (e *Application) GetRouter() []Router {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.routers
}

func (e *Application) SetMiddleware(key string, middleware interface{}) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.middlewares[key] = middleware
}

func (e *Application) GetMiddleware() map[string]interface{} {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.middlewares
}

func (e *Application) GetMiddlewareKey(key string) interface{} {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.middlewares[key]
}

func (e *Application) SetHandler(key string, routerGroup func(r *gin.RouterGroup, hand ...*gin.HandlerFunc)) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.handler[key] = append(e.handler[key], routerGroup)
}

func (e *Application) GetHandler() map[string][]func(r *gin.RouterGroup, hand ...*gin.HandlerFunc) {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.handler
}

func (e *Application) GetHandlerPrefix(key string) []func(r *gin.RouterGroup, hand ...*gin.HandlerFunc) {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.handler[key]
}

func (e *Application) SetConfig(key string, value interface{}) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.configs[key] = value
}

func (e *Application) GetConfig(key string) interface{} {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.configs[key]
}

func (e *Application) SetAppRouters(appRouters func()) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.appRouters = append(e.appRouters, appRouters)
}

func (e *Application) GetAppRouters() []func() {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.appRouters
}
