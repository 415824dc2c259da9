package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northway/migrator/types"
)

// sqlDrivers lists the driver selectors every SQLite test runs against
var sqlDrivers = []string{"mattn", "modernc"}

// newTestDB opens a fresh file-backed database in a temp directory
func newTestDB(t *testing.T, sqlDriver string) *SQLiteDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := NewSQLiteDB(path, types.ConnectOptions{SQLDriver: sqlDriver})
	require.NoError(t, err)
	require.NoError(t, db.Connect(context.Background()))
	t.Cleanup(func() { db.Close() })
	return db
}

func mustExec(t *testing.T, db *SQLiteDB, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		_, err := db.ExecContext(context.Background(), stmt)
		require.NoError(t, err, stmt)
	}
}
