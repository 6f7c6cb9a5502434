package gorm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// testStore opens a migrated store on a temp sqlite file.
func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(Config{
		Backend:  BackendSQLite,
		DSN:      filepath.Join(t.TempDir(), "cratewise-test.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}
