package db

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, checkVersion(6, 6))
	assert.NoError(t, checkVersion(7, 6))

	err := checkVersion(4, 6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version 4 is behind 6")
}

func TestSchemaVersionMatchesNewestMigration(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	var newest int64
	for _, f := range files {
		prefix, _, ok := strings.Cut(filepath.Base(f), "_")
		require.True(t, ok, f)
		v, err := strconv.ParseInt(prefix, 10, 64)
		require.NoError(t, err, f)
		newest = max(newest, v)
	}
	assert.Equal(t, newest, SchemaVersion, "bump SchemaVersion when adding a migration")
}
