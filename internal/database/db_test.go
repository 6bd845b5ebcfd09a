package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "haven.db")

	db, err := NewDB(path, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'events'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "events", name)
}

func TestMigrateUp_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "haven.db")

	first, err := migrateUp(path)
	require.NoError(t, err)
	second, err := migrateUp(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
	assert.Equal(t, first, second)
}

func TestNewDB_WAL(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "haven.db"), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.SQL.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
