package provision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/eatwithme/etm-core/sdk/pkg/migration"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func tenantCreds() credentials.Credentials {
	return credentials.Credentials{
		Host:     "localhost",
		Port:     5432,
		Username: "user_1234567",
		Password: "p@ss word",
		DBName:   "tenant_1234567",
		SSLMode:  "require",
	}
}

func TestNewMigrator_Selection(t *testing.T) {
	m, err := NewMigrator(config.MigrationConfig{Command: []string{"true"}})
	require.NoError(t, err)
	assert.IsType(t, &CommandMigrator{}, m)

	m, err = NewMigrator(config.MigrationConfig{SQLFiles: []string{"db.sql"}})
	require.NoError(t, err)
	assert.IsType(t, &SQLFileMigrator{}, m)

	_, err = NewMigrator(config.MigrationConfig{})
	assert.Error(t, err)
}

func TestCommandMigrator_PassesDatabaseURL(t *testing.T) {
	out := filepath.Join(t.TempDir(), "url.txt")
	m := &CommandMigrator{argv: []string{"sh", "-c", `printf '%s' "$DATABASE_URL" > ` + out}}

	err := m.Migrate(context.Background(), "1234567", tenantCreds())
	require.NoError(t, err)

	url, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(url), "tenant_1234567")
	assert.Contains(t, string(url), "user_1234567")
	assert.Contains(t, string(url), "p%40ss%20word", "password must be percent-encoded")
}

func TestCommandMigrator_ExitStatusIsTheVerdict(t *testing.T) {
	m := &CommandMigrator{argv: []string{"sh", "-c", "exit 3"}}

	err := m.Migrate(context.Background(), "1234567", tenantCreds())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration command")
}

var _ VersionRegistry = (*migration.MigrationRegistry)(nil)

// fakeVersionRegistry records the bind-then-migrate sequence.
type fakeVersionRegistry struct {
	boundTenant string
	boundDB     *gorm.DB
	migrated    []string
	migrateErr  error
}

func (f *fakeVersionRegistry) SetTenantDb(tenantID string, db *gorm.DB) {
	f.boundTenant = tenantID
	f.boundDB = db
}

func (f *fakeVersionRegistry) MigrateTenant(tenantID string) error {
	f.migrated = append(f.migrated, tenantID)
	return f.migrateErr
}

func TestCodeMigrator_BindsConnectionThenMigrates(t *testing.T) {
	reg := &fakeVersionRegistry{}
	m := NewCodeMigrator(reg)
	m.connect = func(creds credentials.Credentials) (*gorm.DB, error) {
		return gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	}

	err := m.Migrate(context.Background(), "1234567", tenantCreds())
	require.NoError(t, err)
	assert.Equal(t, "1234567", reg.boundTenant)
	assert.NotNil(t, reg.boundDB, "the tenant connection must be bound before migrating")
	assert.Equal(t, []string{"1234567"}, reg.migrated)
}

func TestCodeMigrator_ConnectFailureSkipsMigration(t *testing.T) {
	reg := &fakeVersionRegistry{}
	m := NewCodeMigrator(reg)
	m.connect = func(creds credentials.Credentials) (*gorm.DB, error) {
		return nil, errors.New("connection refused")
	}

	err := m.Migrate(context.Background(), "1234567", tenantCreds())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect for migration")
	assert.Empty(t, reg.migrated)
}
