package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMigrations(t *testing.T, dir string, baseNames ...string) {
	t.Helper()
	for _, base := range baseNames {
		for _, suffix := range []string{".up.sql", ".down.sql"} {
			err := os.WriteFile(filepath.Join(dir, base+suffix), []byte("-- Migration: seed\n"), 0644)
			require.NoError(t, err)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create cable drums", "create_cable_drums"},
		{"Create-Cable-Drums", "create_cable_drums"},
		{"CREATE_CABLE_DRUMS", "create_cable_drums"},
		{"create__cable__drums", "create_cable_drums"},
		{"Add RFQ Index 2", "add_rfq_index_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()
	seedMigrations(t, tmpDir,
		"000001_create_stock_positions",
		"000002_create_stock_movements",
	)

	mf, err := CreateMigration(tmpDir, "create cable drums", "Cable drum tracking for fibre projects")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// Versions continue the existing six-digit sequence
	assert.Equal(t, "000003", mf.Version)
	assert.Equal(t, "create_cable_drums", mf.Name)
	assert.Equal(t, filepath.Join(tmpDir, "000003_create_cable_drums.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(tmpDir, "000003_create_cable_drums.down.sql"), mf.DownPath)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "-- Migration: create_cable_drums")
	assert.Contains(t, string(upContent), "-- Description: Cable drum tracking for fibre projects")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "-- Migration: create_cable_drums (Rollback)")
}

func TestCreateMigration_EmptyDirectoryStartsAtOne(t *testing.T) {
	mf, err := CreateMigration(t.TempDir(), "create stock positions", "")
	require.NoError(t, err)

	assert.Equal(t, "000001", mf.Version)

	// No description means no description header line
	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "-- Migration: create_stock_positions")
	assert.NotContains(t, string(upContent), "-- Description:")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(nestedPath, "create boqs", "BOQ import tables")
	require.NoError(t, err)
	require.NotNil(t, mf)

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	tmpDir := t.TempDir()
	seedMigrations(t, tmpDir,
		"000002_create_stock_movements",
		"000001_create_stock_positions",
		"000003_create_cable_drums",
	)

	migrations, err := ListMigrations(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"000001_create_stock_positions",
		"000002_create_stock_movements",
		"000003_create_cable_drums",
	}, migrations)
}

func TestListMigrations_EmptyDirectory(t *testing.T) {
	migrations, err := ListMigrations(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations("/nonexistent/path/to/migrations")
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_IgnoresNonMigrationFiles(t *testing.T) {
	tmpDir := t.TempDir()
	seedMigrations(t, tmpDir, "000001_create_rfqs")
	for _, f := range []string{"README.md", "schema.dbml", ".gitkeep"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "archive.up.sql"), 0755))

	migrations, err := ListMigrations(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_rfqs"}, migrations)
}
