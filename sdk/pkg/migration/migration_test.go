package migration

import (
	"strings"
	"testing"

	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	logger.DefaultLogger = logger.Logger.Sugar()
	m.Run()
}

func TestSplitStatements(t *testing.T) {
	input := `
-- tenant bootstrap
CREATE TABLE roles (
  id SERIAL PRIMARY KEY,
  name TEXT NOT NULL
);

-- another comment
INSERT INTO roles (name) VALUES ('Admin');
`
	statements, err := splitStatements(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, statements, 2)
	assert.Equal(t, "CREATE TABLE roles ( id SERIAL PRIMARY KEY, name TEXT NOT NULL );", statements[0])
	assert.Equal(t, "INSERT INTO roles (name) VALUES ('Admin');", statements[1])
}

func TestSplitStatements_EmptyAndCommentsOnly(t *testing.T) {
	statements, err := splitStatements(strings.NewReader("-- nothing here\n\n--\n"))
	require.NoError(t, err)
	assert.Empty(t, statements)
}

func TestSplitStatements_LoneSemicolon(t *testing.T) {
	statements, err := splitStatements(strings.NewReader(";\nSELECT 1;\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT 1;"}, statements)
}

func TestInitDb_SkipsMissingFiles(t *testing.T) {
	err := InitDb(nil, InitDbConfig{
		SQLFiles:    []string{"/nonexistent/db.sql", "/nonexistent/pg.sql"},
		StopOnError: true,
	})
	assert.NoError(t, err)
}

func TestRegistry_VersionsSorted(t *testing.T) {
	r := NewRegistry()
	noop := func(db *gorm.DB, version string) error { return nil }
	r.RegisterVersion("20240302_orders", noop)
	r.RegisterVersion("20240101_init", noop)
	r.RegisterVersion("20240201_staff", noop)

	assert.Equal(t,
		[]string{"20240101_init", "20240201_staff", "20240302_orders"},
		r.GetRegisteredVersions())
}

func TestRegistry_MigrateWithoutBoundDb(t *testing.T) {
	r := NewRegistry()
	err := r.MigrateTenant("1234567")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database bound")
}
