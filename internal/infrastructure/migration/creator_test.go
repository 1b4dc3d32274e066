package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add barcode index", "add_barcode_index"},
		{"Add-Barcode-Index", "add_barcode_index"},
		{"ADD__BARCODE__INDEX", "add_barcode_index"},
		{"add gst 18", "add_gst_18"},
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

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add parts", "Create the parts table")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_parts.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_parts.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add_parts")
	assert.Contains(t, string(up), "-- Create the parts table")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(down), "-- Rollback of add_parts"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_manual.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0o644))

	second, err := CreateMigration(dir, "Add Barcode-Index", "")
	require.NoError(t, err)
	assert.Equal(t, uint(8), second.Version)
	assert.Equal(t, "000008_add_barcode_index", second.Base())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_create_invoices.up.sql",
		"000002_create_invoices.down.sql",
		"000001_create_catalog.up.sql",
		"000001_create_catalog.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	list, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "000001_create_catalog", list[0].Base())
	assert.Equal(t, "000002_create_invoices", list[1].Base())
	assert.NotEmpty(t, list[1].DownPath)

	missing, err := ListMigrations(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	list, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for i, mf := range list {
		assert.Equal(t, uint(i+1), mf.Version, "versions have no gaps")
		assert.NotEmpty(t, mf.UpPath, mf.Base())
		assert.NotEmpty(t, mf.DownPath, mf.Base())
	}
}
