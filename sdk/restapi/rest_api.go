// Package restapi holds the shared handler base and the tenant lifecycle
// HTTP endpoints.
package restapi

import (
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RestApi struct{}

// GetLogger returns the request-scoped logger, decoupling handlers from the
// logger package.
func (e *RestApi) GetLogger(c *gin.Context) *zap.Logger {
	return logger.GetRequestLogger(c)
}

// Error writes the error envelope.
func (e *RestApi) Error(c *gin.Context, code int, err error, msg string) {
	response.Error(c, code, err, msg)
}

// OK writes the success envelope.
func (e *RestApi) OK(c *gin.Context, data interface{}, msg string) {
	response.OK(c, data, msg)
}

// PageOK writes a paginated success envelope.
func (e *RestApi) PageOK(c *gin.Context, result interface{}, count int, pageIndex int, pageSize int, msg string) {
	response.PageOK(c, result, count, pageIndex, pageSize, msg)
}

// Custom writes an arbitrary body, for legacy endpoints.
func (e *RestApi) Custom(c *gin.Context, data gin.H) {
	response.Custom(c, data)
}
