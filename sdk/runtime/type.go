package runtime

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eatwithme/etm-core/sdk/pkg/tenant"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/connection"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/provision"
	"gorm.io/gorm"
)

// Runtime is the application container surface handed to wiring code.
type Runtime interface {
	// SetRootDB stores the privileged master connection, provisioning only.
	SetRootDB(db *gorm.DB)
	GetRootDB() *gorm.DB

	SetCredentialProvider(p credentials.Provider)
	GetCredentialProvider() credentials.Provider

	SetConnectionCache(c *connection.Cache)
	GetConnectionCache() *connection.Cache

	SetTenantResolver(r *tenant.Resolver)
	GetTenantResolver() *tenant.Resolver

	SetProvisionManager(m *provision.Manager)
	GetProvisionManager() *provision.Manager

	// GetTenantDB resolves a tenant's pooled handle, opening it on first use.
	GetTenantDB(ctx context.Context, tenantID string) (*gorm.DB, error)
	GetTenantDBs(fn func(tenantID string, db *gorm.DB) bool)

	SetEngine(engine http.Handler)
	GetEngine() http.Handler

	GetRouter() []Router

	SetLogger(logger *zap.Logger)
	GetLogger() *zap.Logger

	SetMiddleware(key string, middleware interface{})
	GetMiddleware() map[string]interface{}
	GetMiddlewareKey(key string) interface{}

	SetHandler(key string, routerGroup func(r *gin.RouterGroup, hand ...*gin.HandlerFunc))
	GetHandler() map[string][]func(r *gin.RouterGroup, hand ...*gin.HandlerFunc)
	GetHandlerPrefix(key string) []func(r *gin.RouterGroup, hand ...*gin.HandlerFunc)

	GetConfig(key string) interface{}
	SetConfig(key string, value interface{})

	SetAppRouters(appRouters func())
	GetAppRouters() []func()
}
