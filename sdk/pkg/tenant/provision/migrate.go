package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/migration"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const DefaultMigrationTimeout = 2 * time.Minute

// Migrator brings a freshly created tenant database to the current schema.
type Migrator interface {
	Migrate(ctx context.Context, tenantID string, creds credentials.Credentials) error
}

// NewMigrator picks the runner from configuration: the external command when
// one is set, otherwise the embedded SQL file executor. Applications that
// ship their migrations as Go functions construct a CodeMigrator instead.
func NewMigrator(cfg config.MigrationConfig) (Migrator, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if len(cfg.Command) > 0 {
		return &CommandMigrator{argv: cfg.Command, timeout: timeout}, nil
	}
	if len(cfg.SQLFiles) > 0 {
		return &SQLFileMigrator{files: cfg.SQLFiles}, nil
	}
	return nil, errors.New("migration: neither command nor sqlFiles configured")
}

// CommandMigrator shells out to an external migration tool with DATABASE_URL
// pointing at the tenant database. The exit status is the verdict.
type CommandMigrator struct {
	argv    []string
	timeout time.Duration
}

func (m *CommandMigrator) Migrate(ctx context.Context, tenantID string, creds credentials.Credentials) error {
	timeout := m.timeout
	if timeout <= 0 {
		timeout = DefaultMigrationTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.argv[0], m.argv[1:]...)
	cmd.Env = append(os.Environ(), "DATABASE_URL="+creds.URL())

	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Errorf("tenant %s: migration command failed: %v, output: %s", tenantID, err, out)
		return fmt.Errorf("migration command: %w", err)
	}
	logger.Infof("tenant %s: migrations applied via %s", tenantID, m.argv[0])
	return nil
}

// SQLFileMigrator applies bundled SQL files directly over the tenant
// connection, the fallback when no external tool is configured.
type SQLFileMigrator struct {
	files []string
}

func (m *SQLFileMigrator) Migrate(ctx context.Context, tenantID string, creds credentials.Credentials) error {
	db, err := gorm.Open(postgres.Open(creds.DSN()), &gorm.Config{
		Logger: logger.NewGormLogger(logger.Logger, 3),
	})
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}
	defer closeDB(db)

	if err := migration.InitDb(db.WithContext(ctx), migration.InitDbConfig{
		SQLFiles:    m.files,
		StopOnError: true,
	}); err != nil {
		return err
	}
	logger.Infof("tenant %s: migrations applied from %d sql file(s)", tenantID, len(m.files))
	return nil
}

// VersionRegistry is the slice of migration.MigrationRegistry a CodeMigrator
// needs: bind the tenant connection, then apply unapplied versions.
type VersionRegistry interface {
	SetTenantDb(tenantID string, db *gorm.DB)
	MigrateTenant(tenantID string) error
}

// CodeMigrator applies schema versions registered as Go functions, for
// applications that keep their migrations in code rather than SQL files or an
// external tool.
type CodeMigrator struct {
	registry VersionRegistry
	connect  func(creds credentials.Credentials) (*gorm.DB, error)
}

func NewCodeMigrator(registry VersionRegistry) *CodeMigrator {
	return &CodeMigrator{
		registry: registry,
		connect: func(creds credentials.Credentials) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(creds.DSN()), &gorm.Config{
				Logger: logger.NewGormLogger(logger.Logger, 3),
			})
		},
	}
}

func (m *CodeMigrator) Migrate(ctx context.Context, tenantID string, creds credentials.Credentials) error {
	db, err := m.connect(creds)
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}
	defer closeDB(db)

	m.registry.SetTenantDb(tenantID, db.WithContext(ctx))
	if err := m.registry.MigrateTenant(tenantID); err != nil {
		return err
	}
	logger.Infof("tenant %s: registered migrations applied", tenantID)
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
