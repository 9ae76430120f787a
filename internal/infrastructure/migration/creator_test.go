package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/lastikpazari/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add users table", "add_users_table"},
		{"Add-Order-Logs", "add_order_logs"},
		{"add__status__index", "add_status_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
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
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add order index", "Index orders by store")
	require.NoError(t, err)
	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_order_index.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_order_index.down.sql"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Description: Index orders by store")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")

	names, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Base(strings.TrimSuffix(mf.UpPath, ".up.sql"))}, names)
}

func TestCreateMigration_EmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	files := fstest.MapFS{
		"002_b.up.sql":   {},
		"002_b.down.sql": {},
		"001_a.up.sql":   {},
		"001_a.down.sql": {},
		"README.md":      {},
	}
	names, err := ListMigrations(files)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a", "002_b"}, names)
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	assert.Equal(t, []string{"20261001090000_create_users", "20261001090100_create_orders"}, names)
}
