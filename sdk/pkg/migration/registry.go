package migration

import (
	"fmt"
	"sort"
	"sync"

	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"gorm.io/gorm"
)

// MigrationFunc applies one schema version over the tenant database.
type MigrationFunc func(db *gorm.DB, version string) error

// TenantMigration tracks migration state for one tenant database.
type TenantMigration struct {
	tenantID  string
	db        *gorm.DB
	completed map[string]bool // versions already applied, memory cache
	mutex     sync.Mutex      // serializes migrations for this tenant
}

// MigrationRegistry holds registered versions and per-tenant state.
// Migrations run serially per tenant and concurrently across tenants.
type MigrationRegistry struct {
	migrations   map[string]*TenantMigration
	versions     map[string]MigrationFunc
	registryLock sync.RWMutex
}

func NewRegistry() *MigrationRegistry {
	return &MigrationRegistry{
		migrations: make(map[string]*TenantMigration),
		versions:   make(map[string]MigrationFunc),
	}
}

// RegisterVersion registers a migration, typically from init().
func (r *MigrationRegistry) RegisterVersion(version string, fn MigrationFunc) {
	r.registryLock.Lock()
	defer r.registryLock.Unlock()
	r.versions[version] = fn
}

// GetRegisteredVersions lists registered versions in apply order.
func (r *MigrationRegistry) GetRegisteredVersions() []string {
	r.registryLock.RLock()
	defer r.registryLock.RUnlock()

	versions := make([]string, 0, len(r.versions))
	for v := range r.versions {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// SetTenantDb binds a tenant's database connection.
func (r *MigrationRegistry) SetTenantDb(tenantID string, db *gorm.DB) {
	r.registryLock.Lock()
	defer r.registryLock.Unlock()

	tm := r.getOrCreateTenantLocked(tenantID)
	tm.db = db
}

func (r *MigrationRegistry) getOrCreateTenantLocked(tenantID string) *TenantMigration {
	tm, exists := r.migrations[tenantID]
	if !exists {
		tm = &TenantMigration{
			tenantID:  tenantID,
			completed: make(map[string]bool),
		}
		r.migrations[tenantID] = tm
	}
	return tm
}

// MigrateTenant applies every registered version not yet recorded for the
// tenant. Each version runs in its own transaction together with its
// bookkeeping row, so a failed migration leaves no partial record.
func (r *MigrationRegistry) MigrateTenant(tenantID string) error {
	r.registryLock.Lock()
	tm := r.getOrCreateTenantLocked(tenantID)
	r.registryLock.Unlock()

	if tm.db == nil {
		return fmt.Errorf("tenant %s: no database bound", tenantID)
	}

	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if err := tm.db.AutoMigrate(&Migration{}); err != nil {
		return fmt.Errorf("tenant %s: create schema_migrations table: %w", tenantID, err)
	}

	applied, err := r.getAppliedVersions(tm)
	if err != nil {
		return err
	}

	versions := r.GetRegisteredVersions()
	for _, version := range versions {
		if tm.completed[version] {
			continue
		}
		if applied[version] {
			tm.completed[version] = true
			continue
		}

		fn := r.versions[version]
		if err := r.executeMigration(tm, version, fn); err != nil {
			return fmt.Errorf("tenant %s: version %s: %w", tenantID, version, err)
		}

		tm.completed[version] = true
		logger.Infof("tenant %s: migration %s applied", tenantID, version)
	}

	return nil
}

func (r *MigrationRegistry) getAppliedVersions(tm *TenantMigration) (map[string]bool, error) {
	var records []Migration
	if err := tm.db.Find(&records).Error; err != nil {
		return nil, err
	}

	applied := make(map[string]bool)
	for _, record := range records {
		applied[record.Version] = true
	}
	return applied, nil
}

func (r *MigrationRegistry) executeMigration(tm *TenantMigration, version string, fn MigrationFunc) error {
	return tm.db.Transaction(func(tx *gorm.DB) error {
		if err := fn(tx, version); err != nil {
			return err
		}
		return tx.Create(&Migration{Version: version}).Error
	})
}
