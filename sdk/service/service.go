// Package service holds the base struct tenant-scoped business services embed.
package service

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service carries the per-request tenant database handle and logger into a
// business service. Orm is borrowed from the connection cache; services never
// close it.
type Service struct {
	Orm      *gorm.DB
	TenantID string
	Log      *zap.Logger
	Error    error
}

// MakeService binds the tenant context prepared by the middleware.
func MakeService(c *gin.Context, s *Service) *Service {
	s.Orm = middleware.GetTenantDB(c)
	s.TenantID = middleware.GetTenantID(c)
	s.Log = logger.GetRequestLogger(c)
	return s
}

// AddError accumulates errors across chained service calls.
func (db *Service) AddError(err error) error {
	if db.Error == nil {
		db.Error = err
	} else if err != nil {
		db.Error = fmt.Errorf("%v; %w", db.Error, err)
	}
	return db.Error
}
