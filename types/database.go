package types

import (
	"context"
	"database/sql"
)

// Querier is the statement surface shared by *sql.DB, *sql.Tx and the
// migrator's own Transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxState is the lifecycle state of a Transaction
type TxState int

const (
	TxNone TxState = iota
	TxOpen
	TxCommitted
	TxRolledBack
)

// String returns a readable name for the state
func (s TxState) String() string {
	switch s {
	case TxNone:
		return "none"
	case TxOpen:
		return "open"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// Transaction is a single unit of work. Commit and Rollback are always safe
// to call; rolling back a finished transaction is a no-op.
type Transaction interface {
	Querier
	Commit() error
	Rollback() error
	State() TxState
}

// ConnectOptions tunes how a backend is opened
type ConnectOptions struct {
	// SQLDriver selects the database/sql driver for the backend, e.g.
	// "mattn" or "modernc" for SQLite and "pq" or "pgx" for PostgreSQL.
	// Empty selects the backend default.
	SQLDriver string
}

// Database is a live session to one backend
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	Querier
	Begin(ctx context.Context) (Transaction, error)

	// Dialect
	GetDriverType() DriverType
	GetCapabilities() DriverCapabilities
	GetMigrator() DatabaseMigrator
	ClassifyError(err error, statement string) *SQLError
}
