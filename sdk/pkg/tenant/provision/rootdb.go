package provision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DatabaseAdmin creates and destroys tenant databases and roles. Implemented
// by RootDB over the privileged master connection; faked in tests.
type DatabaseAdmin interface {
	CreateRole(ctx context.Context, name, password string) error
	CreateDatabase(ctx context.Context, name, owner string) error
	DropDatabase(ctx context.Context, name string) error
	DropRole(ctx context.Context, name string) error
}

// RootDB runs privileged DDL over the master connection. This connection is
// for lifecycle operations only and is never handed to tenant-facing code.
type RootDB struct {
	db *gorm.DB
}

func NewRootDB(db *gorm.DB) *RootDB {
	return &RootDB{db: db}
}

// OpenRoot connects to the master database with the privileged credentials
// from configuration.
func OpenRoot(cfg config.Database) (*gorm.DB, error) {
	creds := credentials.Credentials{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(creds.DSN()), &gorm.Config{
		Logger: logger.NewGormLogger(logger.Logger, 3),
	})
	if err != nil {
		return nil, fmt.Errorf("open master database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifeTime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifeTime) * time.Second)
	}
	return db, nil
}

// CreateRole creates a login role. A leftover role from an earlier failed
// attempt is dropped first so retries are safe.
func (r *RootDB) CreateRole(ctx context.Context, name, password string) error {
	if err := r.exec(ctx, dropRoleSQL(name)); err != nil {
		return err
	}
	return r.exec(ctx, createRoleSQL(name, password))
}

// CreateDatabase creates the tenant database owned by its role, dropping any
// leftover database of the same name first.
func (r *RootDB) CreateDatabase(ctx context.Context, name, owner string) error {
	if err := r.exec(ctx, dropDatabaseSQL(name)); err != nil {
		return err
	}
	return r.exec(ctx, createDatabaseSQL(name, owner))
}

// DropDatabase terminates every session on the database and drops it.
func (r *RootDB) DropDatabase(ctx context.Context, name string) error {
	if err := r.exec(ctx, terminateBackendsSQL(name)); err != nil {
		return err
	}
	return r.exec(ctx, dropDatabaseSQL(name))
}

func (r *RootDB) DropRole(ctx context.Context, name string) error {
	return r.exec(ctx, dropRoleSQL(name))
}

func (r *RootDB) exec(ctx context.Context, sql string) error {
	return r.db.WithContext(ctx).Exec(sql).Error
}

// quoteIdent double-quotes a postgres identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral single-quotes a postgres string literal.
func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func createRoleSQL(name, password string) string {
	return fmt.Sprintf("CREATE ROLE %s WITH LOGIN PASSWORD %s", quoteIdent(name), quoteLiteral(password))
}

func createDatabaseSQL(name, owner string) string {
	return fmt.Sprintf("CREATE DATABASE %s OWNER %s", quoteIdent(name), quoteIdent(owner))
}

func dropDatabaseSQL(name string) string {
	return fmt.Sprintf("DROP DATABASE IF EXISTS %s", quoteIdent(name))
}

func dropRoleSQL(name string) string {
	return fmt.Sprintf("DROP ROLE IF EXISTS %s", quoteIdent(name))
}

func terminateBackendsSQL(name string) string {
	return fmt.Sprintf(
		"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = %s AND pid <> pg_backend_pid()",
		quoteLiteral(name))
}
