package service

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Logger = zap.NewNop()
	logger.DefaultLogger = logger.Logger.Sugar()
	m.Run()
}

func TestMakeService(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	require.NoError(t, err)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/orders", nil)
	c.Set(middleware.TenantDBKey, db)
	c.Set(middleware.TenantIDKey, "1234567")

	s := MakeService(c, &Service{})
	assert.Same(t, db, s.Orm)
	assert.Equal(t, "1234567", s.TenantID)
	assert.NotNil(t, s.Log)
}

func TestAddError(t *testing.T) {
	s := &Service{}
	assert.NoError(t, s.AddError(nil))

	first := errors.New("first")
	second := errors.New("second")
	assert.Equal(t, first, s.AddError(first))

	err := s.AddError(second)
	assert.ErrorIs(t, err, second)
	assert.Contains(t, err.Error(), "first")
}
