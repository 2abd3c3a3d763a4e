package restapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/eatwithme/etm-core/sdk/pkg/response"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/controlplane"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/provision"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Provisioner is the lifecycle surface the handlers need. Satisfied by
// *provision.Manager.
type Provisioner interface {
	Provision(ctx context.Context, req provision.Request) (*provision.Result, error)
	Deprovision(ctx context.Context, restaurantID string) error
}

// TenantLifecycle exposes signup and teardown over HTTP.
type TenantLifecycle struct {
	RestApi
	Manager Provisioner
}

// RegisterRoutes mounts the lifecycle endpoints on the router.
func (a *TenantLifecycle) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/signup", a.Signup)
	r.DELETE("/api/tenants/:id", a.Deprovision)
}

// Signup provisions a new restaurant tenant end to end and returns the new
// restaurant id with an access token.
func (a *TenantLifecycle) Signup(c *gin.Context) {
	log := a.GetLogger(c)

	var req provision.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		a.Error(c, http.StatusBadRequest, err, "invalid request body")
		return
	}

	result, err := a.Manager.Provision(c.Request.Context(), req)
	if err != nil {
		a.writeProvisionError(c, log, req.Email, err)
		return
	}

	log.Info("restaurant provisioned",
		zap.String("restaurantId", result.RestaurantID))
	response.Created(c, gin.H{
		"message":      "Restaurant created successfully!",
		"restaurantId": result.RestaurantID,
		"token":        result.Token,
	}, "created")
}

// Deprovision tears a tenant down completely.
func (a *TenantLifecycle) Deprovision(c *gin.Context) {
	log := a.GetLogger(c)
	restaurantID := c.Param("id")

	if err := a.Manager.Deprovision(c.Request.Context(), restaurantID); err != nil {
		log.Error("deprovision failed",
			zap.String("restaurantId", restaurantID), zap.Error(err))
		a.Error(c, http.StatusInternalServerError, err, "failed to remove restaurant")
		return
	}

	a.OK(c, gin.H{"restaurantId": restaurantID}, "restaurant removed")
}

// writeProvisionError maps provisioning failures to HTTP statuses. Internal
// details never reach the response body.
func (a *TenantLifecycle) writeProvisionError(c *gin.Context, log *zap.Logger, email string, err error) {
	var verr *provision.ValidationError
	switch {
	case errors.As(err, &verr):
		a.Error(c, http.StatusBadRequest, verr, verr.Msg)
	case errors.Is(err, provision.ErrEmailTaken):
		a.Error(c, http.StatusConflict, err, "a restaurant with this email already exists")
	case errors.Is(err, controlplane.ErrUnavailable), errors.Is(err, provision.ErrIdentifierExhausted):
		log.Error("signup failed", zap.String("email", email), zap.Error(err))
		a.Error(c, http.StatusServiceUnavailable, err, "service temporarily unavailable")
	default:
		log.Error("signup failed", zap.String("email", email), zap.Error(err))
		a.Error(c, http.StatusInternalServerError, err, "failed to create restaurant")
	}
}
