package base

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northway/migrator/logger"
	"github.com/northway/migrator/types"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"user", `"user"`},
		{"transaction", `"transaction"`},
		{"amount_paid", `"amount_paid"`},
		{`odd"name`, `"odd""name"`},
		{"", `""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIdentifier(tt.name))
		})
	}
}

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "base.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	d := NewDriver("sqlite", types.DriverSQLite)
	d.SetDB(db)
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.ExecContext(context.Background(), `CREATE TABLE "task" ("id" INTEGER)`)
	require.NoError(t, err)
	return d
}

func countTasks(t *testing.T, d *Driver) int {
	t.Helper()
	var n int
	require.NoError(t, d.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM "task"`).Scan(&n))
	return n
}

func TestTransaction_Commit(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t)

	tx, err := d.Begin(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.TxOpen, tx.State())

	_, err = tx.ExecContext(ctx, `INSERT INTO "task" ("id") VALUES (1)`)
	require.NoError(t, err)

	require.NoError(t, tx.Commit())
	assert.Equal(t, types.TxCommitted, tx.State())

	// finished transactions tolerate repeated calls
	assert.NoError(t, tx.Commit())
	assert.NoError(t, tx.Rollback())
	assert.Equal(t, types.TxCommitted, tx.State())

	assert.Equal(t, 1, countTasks(t, d))
}

func TestTransaction_Rollback(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t)

	tx, err := d.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `INSERT INTO "task" ("id") VALUES (1)`)
	require.NoError(t, err)

	require.NoError(t, tx.Rollback())
	assert.Equal(t, types.TxRolledBack, tx.State())
	assert.NoError(t, tx.Rollback())

	err = tx.Commit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already rolled back")

	_, err = tx.ExecContext(ctx, `INSERT INTO "task" ("id") VALUES (2)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rolled-back")

	_, err = tx.QueryContext(ctx, `SELECT 1`)
	assert.Error(t, err)

	assert.Equal(t, 0, countTasks(t, d))
}

func TestDriver_NotConnected(t *testing.T) {
	ctx := context.Background()
	d := NewDriver("sqlite", types.DriverSQLite)

	assert.NoError(t, d.Close())
	assert.Error(t, d.Ping(ctx))
	_, err := d.ExecContext(ctx, "SELECT 1")
	assert.Error(t, err)
	_, err = d.QueryContext(ctx, "SELECT 1")
	assert.Error(t, err)
	_, err = d.Begin(ctx)
	assert.Error(t, err)
	assert.Equal(t, types.DriverSQLite, d.GetDriverType())
}

func TestDBLogger_LogSQL(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewDefaultLogger("test")
	l.SetOutput(&buf)

	dl := NewDBLogger(l)
	dl.LogSQL(`SELECT 1`, nil, 0)
	assert.Empty(t, buf.String(), "statements are logged at debug only")

	l.SetLevel(logger.LogLevelDebug)
	dl.LogSQL(`  UPDATE "task" SET "id" = ? `, []any{7}, 0)
	assert.Contains(t, buf.String(), `UPDATE "task" SET "id" = ?`)
	assert.Contains(t, buf.String(), "Args: [7]")

	// nil falls back to a silent logger
	assert.NotPanics(t, func() { NewDBLogger(nil).LogSQL("SELECT 1", nil, 0) })
}

func TestDriver_LogsStatements(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewDefaultLogger("test")
	l.SetOutput(&buf)
	l.SetLevel(logger.LogLevelDebug)

	d := newTestDriver(t)
	d.Logger = NewDBLogger(l)

	_, err := d.ExecContext(context.Background(), `INSERT INTO "task" ("id") VALUES (3)`)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `INSERT INTO "task"`)
}
