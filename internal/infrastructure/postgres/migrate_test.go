package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_AnotadasParaGoose(t *testing.T) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		raw, err := migrationFS.ReadFile("migrations/" + e.Name())
		require.NoError(t, err)
		sql := string(raw)
		assert.True(t, strings.HasPrefix(sql, "-- +goose Up"), e.Name())
		assert.Contains(t, sql, "-- +goose Down", e.Name())
	}
}
