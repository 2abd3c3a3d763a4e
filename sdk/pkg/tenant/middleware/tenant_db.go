// Package middleware attaches the tenant's database handle to gin requests.
package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/eatwithme/etm-core/sdk/pkg/json"
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/response"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	TenantIDKey = "tenant_id"
	TenantDBKey = "tenant_db"

	DefaultBodyField  = "restaurantId"
	DefaultHeaderName = "X-Restaurant-ID"
	DefaultQueryParam = "restaurantId"
)

// TenantDB extracts the tenant id from the request and resolves its database
// handle before the handler runs. The id is read from the JSON body field
// first, then the header, then the query parameter.
func TenantDB(resolver *tenant.Resolver, cfg config.Resolver) gin.HandlerFunc {
	bodyField := cfg.BodyField
	if bodyField == "" {
		bodyField = DefaultBodyField
	}
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = DefaultHeaderName
	}
	queryParam := cfg.QueryParam
	if queryParam == "" {
		queryParam = DefaultQueryParam
	}

	return func(c *gin.Context) {
		tenantID := extractTenantID(c, bodyField, headerName, queryParam)
		if tenantID == "" {
			response.Error(c, http.StatusBadRequest, tenant.ErrMissingTenantID, "restaurant id is required")
			return
		}

		h, err := resolver.ResolveForRequest(c.Request.Context(), tenantID)
		if err != nil {
			logger.GetRequestLogger(c).Sugar().Warnf("tenant %s: resolution failed: %v", tenantID, err)
			status, msg := statusFor(err)
			response.Error(c, status, err, msg)
			return
		}

		c.Set(TenantIDKey, tenantID)
		c.Set(TenantDBKey, h.DB)
		c.Next()
	}
}

// extractTenantID applies the fixed precedence: body, header, query.
func extractTenantID(c *gin.Context, bodyField, headerName, queryParam string) string {
	if id := tenantIDFromBody(c, bodyField); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.GetHeader(headerName)); id != "" {
		return id
	}
	return strings.TrimSpace(c.Query(queryParam))
}

// tenantIDFromBody peeks at a JSON body for the id field and restores the
// body so handlers can still bind it.
func tenantIDFromBody(c *gin.Context, field string) string {
	if c.Request.Body == nil || !strings.Contains(c.ContentType(), "application/json") {
		return ""
	}
	raw, err := c.GetRawData()
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if v, ok := body[field].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, tenant.ErrMissingTenantID):
		return http.StatusBadRequest, "restaurant id is required"
	case errors.Is(err, tenant.ErrCredentialsNotFound):
		return http.StatusNotFound, "restaurant not found"
	case errors.Is(err, tenant.ErrUpstreamUnavailable), errors.Is(err, tenant.ErrConnectionFailed):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// GetTenantID returns the tenant id stored by TenantDB, or "".
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantDB returns the tenant's database handle stored by TenantDB.
func GetTenantDB(c *gin.Context) *gorm.DB {
	if v, ok := c.Get(TenantDBKey); ok {
		if db, ok := v.(*gorm.DB); ok {
			return db
		}
	}
	return nil
}
