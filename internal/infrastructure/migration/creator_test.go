package migration

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("creates up and down file pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add stock items table")
		require.NoError(t, err)

		assert.FileExists(t, mf.UpPath)
		assert.FileExists(t, mf.DownPath)
		assert.Contains(t, mf.UpPath, "add_stock_items_table.up.sql")
		assert.Contains(t, mf.DownPath, "add_stock_items_table.down.sql")

		content, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "add stock items table")
	})

	t.Run("creates missing directory", func(t *testing.T) {
		dir := t.TempDir() + "/nested/migrations"

		_, err := CreateMigration(dir, "init")
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Add Stock Items", "add_stock_items"},
		{"weird!!chars##", "weirdchars"},
		{"trailing space ", "trailing_space"},
		{"multi  spaces", "multi_spaces"},
		{"already_snake", "already_snake"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("lists base names once per pair", func(t *testing.T) {
		dir := t.TempDir()
		_, err := CreateMigration(dir, "first")
		require.NoError(t, err)

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Len(t, migrations, 1)
	})

	t.Run("empty for missing directory", func(t *testing.T) {
		migrations, err := ListMigrations(t.TempDir() + "/nope")
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
