// Package provision creates and destroys tenants end to end: database role
// and database on the master server, registry record in the control plane,
// schema migrations, seed data, and the signup access token. A failure at any
// step compensates everything created so far, in reverse.
package provision

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/controlplane"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
	"github.com/google/uuid"
)

// rollbackTimeout bounds compensation after a failed run.
const rollbackTimeout = 30 * time.Second

// Request is a signup submission.
type Request struct {
	RestaurantName  string `json:"restaurantName"`
	AdminName       string `json:"adminName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Country         string `json:"country"`
	PlanID          string `json:"planId"`
	PosType         string `json:"posType"`
}

// Validate rejects malformed submissions before any resource is touched.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.RestaurantName) == "":
		return &ValidationError{Field: "restaurantName", Msg: "restaurant name is required"}
	case strings.TrimSpace(r.Email) == "":
		return &ValidationError{Field: "email", Msg: "email is required"}
	case r.Password == "":
		return &ValidationError{Field: "password", Msg: "password is required"}
	case r.ConfirmPassword != "" && r.Password != r.ConfirmPassword:
		return &ValidationError{Field: "confirmPassword", Msg: "passwords do not match"}
	case strings.TrimSpace(r.PlanID) == "":
		return &ValidationError{Field: "planId", Msg: "planId is required"}
	}
	return nil
}

// Result is returned from a successful provisioning run.
type Result struct {
	RestaurantID string `json:"restaurantId"`
	Token        string `json:"token"`
}

// CacheEvictor drops a tenant's cached connection pool. Satisfied by
// *connection.Cache.
type CacheEvictor interface {
	Evict(tenantID string)
}

// Manager drives the provisioning state machine. Runs for the same tenant are
// serialized; different tenants provision concurrently.
type Manager struct {
	registry Registry
	admin    DatabaseAdmin
	migrator Migrator
	seeder   Seeder
	tokens   TokenIssuer
	cache    CacheEvictor
	idgen    *IdentifierGenerator

	defaults config.DatabaseDefaults

	locks sync.Map // tenantID -> *sync.Mutex
}

func NewManager(
	registry Registry,
	admin DatabaseAdmin,
	migrator Migrator,
	seeder Seeder,
	tokens TokenIssuer,
	cache CacheEvictor,
	cfg config.Provision,
	defaults config.DatabaseDefaults,
) *Manager {
	return &Manager{
		registry: registry,
		admin:    admin,
		migrator: migrator,
		seeder:   seeder,
		tokens:   tokens,
		cache:    cache,
		idgen:    NewIdentifierGenerator(registry, cfg.IdentifierLength, cfg.IdentifierAttempts),
		defaults: defaults,
	}
}

// Provision creates a tenant from a signup request. On failure everything
// created so far is rolled back and the original step error is returned.
func (m *Manager) Provision(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := m.registry.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, controlplane.ErrNotFound) {
		return nil, &StepError{Step: StepIdentifier, Err: err}
	}

	restaurantID, err := m.idgen.Generate(ctx)
	if err != nil {
		if errors.Is(err, ErrIdentifierExhausted) {
			return nil, err
		}
		return nil, &StepError{Step: StepIdentifier, Err: err}
	}

	unlock := m.lock(restaurantID)
	defer unlock()

	prefix := m.defaults.DBNamePrefix
	if prefix == "" {
		prefix = "tenant_"
	}
	record := &Record{
		RestaurantID: restaurantID,
		DBName:       prefix + restaurantID,
		DBUser:       "user_" + restaurantID,
	}
	dbPassword := generatePassword()

	logger.Infof("tenant %s: provisioning started", restaurantID)

	result, err := m.runSteps(ctx, req, record, dbPassword)
	if err != nil {
		m.rollback(record)
		return nil, err
	}

	logger.Infof("tenant %s: provisioning complete", restaurantID)
	return result, nil
}

func (m *Manager) runSteps(ctx context.Context, req Request, record *Record, dbPassword string) (*Result, error) {
	if err := m.admin.CreateRole(ctx, record.DBUser, dbPassword); err != nil {
		return nil, &StepError{Step: StepRole, Err: err}
	}
	record.completed(StepRole)

	if err := m.admin.CreateDatabase(ctx, record.DBName, record.DBUser); err != nil {
		return nil, &StepError{Step: StepDatabase, Err: err}
	}
	record.completed(StepDatabase)

	posType := req.PosType
	if posType == "" {
		posType = "restaurant"
	}
	created, err := m.registry.Create(ctx, &controlplane.Tenant{
		RestaurantID: record.RestaurantID,
		Name:         req.RestaurantName,
		Email:        req.Email,
		PlanID:       req.PlanID,
		PosType:      posType,
		DBName:       record.DBName,
		DBUser:       record.DBUser,
		DBHost:       m.defaults.Host,
		DBPort:       m.defaults.Port,
		DBPassword:   dbPassword,
	})
	if err != nil {
		return nil, &StepError{Step: StepRegistry, Err: err}
	}
	record.completed(StepRegistry)
	if created.RestaurantID != "" {
		// the registry-assigned id is canonical
		record.RestaurantID = created.RestaurantID
	}

	creds := credentials.Credentials{
		Host:     m.defaults.Host,
		Port:     m.defaults.Port,
		Username: record.DBUser,
		Password: dbPassword,
		DBName:   record.DBName,
		SSLMode:  m.defaults.SSLMode,
	}

	if err := m.migrator.Migrate(ctx, record.RestaurantID, creds); err != nil {
		return nil, &StepError{Step: StepMigrations, Err: err}
	}
	record.completed(StepMigrations)

	if err := m.seeder.Seed(ctx, creds, SeedInput{
		RestaurantID:   record.RestaurantID,
		RestaurantName: req.RestaurantName,
		AdminName:      req.AdminName,
		Email:          req.Email,
		Password:       req.Password,
		Country:        req.Country,
		PlanID:         req.PlanID,
	}); err != nil {
		return nil, &StepError{Step: StepSeed, Err: err}
	}
	record.completed(StepSeed)

	token, err := m.tokens.Issue(record.RestaurantID, req.Email)
	if err != nil {
		return nil, &StepError{Step: StepToken, Err: err}
	}

	return &Result{RestaurantID: record.RestaurantID, Token: token}, nil
}

// rollback compensates the completed steps in reverse. It runs under a fresh
// context because the triggering one may already be canceled. Failures are
// logged loudly and never mask the original error.
func (m *Manager) rollback(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()

	logger.Warnf("tenant %s: provisioning failed, rolling back %d step(s)",
		record.RestaurantID, len(record.CreatedSoFar))

	failed := false
	for i := len(record.CreatedSoFar) - 1; i >= 0; i-- {
		var err error
		switch record.CreatedSoFar[i] {
		case StepRegistry:
			err = m.registry.Delete(ctx, record.RestaurantID)
		case StepDatabase:
			err = m.admin.DropDatabase(ctx, record.DBName)
		case StepRole:
			err = m.admin.DropRole(ctx, record.DBUser)
		default:
			// migrations and seed data live inside the dropped database
		}
		if err != nil {
			failed = true
			logger.Errorf("CRITICAL: tenant %s: rollback of step %s failed: %v",
				record.RestaurantID, record.CreatedSoFar[i], err)
		}
	}
	if failed {
		logger.Errorf("CRITICAL: tenant %s: %v, manual cleanup required", record.RestaurantID, ErrRollbackFailed)
	} else {
		logger.Infof("tenant %s: rollback complete", record.RestaurantID)
	}
}

// Deprovision tears a tenant down: cached pool, database, role, registry
// record. Missing resources are ignored so the operation is idempotent.
func (m *Manager) Deprovision(ctx context.Context, restaurantID string) error {
	if strings.TrimSpace(restaurantID) == "" {
		return credentials.ErrInvalidTenantID
	}

	unlock := m.lock(restaurantID)
	defer unlock()

	prefix := m.defaults.DBNamePrefix
	if prefix == "" {
		prefix = "tenant_"
	}
	dbName := prefix + restaurantID
	dbUser := "user_" + restaurantID

	// prefer the registry record's names when the tenant is known
	if t, err := m.registry.GetByID(ctx, restaurantID); err == nil {
		if t.DBName != "" {
			dbName = t.DBName
		}
		if t.DBUser != "" {
			dbUser = t.DBUser
		}
	}

	if m.cache != nil {
		m.cache.Evict(restaurantID)
	}
	if err := m.admin.DropDatabase(ctx, dbName); err != nil {
		return &StepError{Step: StepDatabase, Err: err}
	}
	if err := m.admin.DropRole(ctx, dbUser); err != nil {
		return &StepError{Step: StepRole, Err: err}
	}
	if err := m.registry.Delete(ctx, restaurantID); err != nil {
		return &StepError{Step: StepRegistry, Err: err}
	}

	logger.Infof("tenant %s: deprovisioned", restaurantID)
	return nil
}

func (m *Manager) lock(tenantID string) func() {
	v, _ := m.locks.LoadOrStore(tenantID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// generatePassword returns a random tenant role password. Never logged.
func generatePassword() string {
	return "pass_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
