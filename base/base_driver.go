package base

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/northway/migrator/logger"
	"github.com/northway/migrator/types"
)

// Driver provides the connection plumbing shared by all backends
type Driver struct {
	DB         *sql.DB
	URI        string
	DriverType types.DriverType
	Logger     *DBLogger
}

// NewDriver creates a new base driver instance
func NewDriver(uri string, driverType types.DriverType) *Driver {
	return &Driver{
		URI:        uri,
		DriverType: driverType,
		Logger:     NewDBLogger(logger.GetGlobalLogger()),
	}
}

// SetDB sets the database connection
func (b *Driver) SetDB(db *sql.DB) {
	b.DB = db
}

// Close closes the connection. Closing an unopened driver is a no-op.
func (b *Driver) Close() error {
	if b.DB == nil {
		return nil
	}
	err := b.DB.Close()
	b.DB = nil
	return err
}

// Ping verifies the connection is alive
func (b *Driver) Ping(ctx context.Context) error {
	if b.DB == nil {
		return fmt.Errorf("database not connected")
	}
	return b.DB.PingContext(ctx)
}

// ExecContext executes a statement and logs it
func (b *Driver) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database not connected")
	}
	start := time.Now()
	result, err := b.DB.ExecContext(ctx, query, args...)
	b.Logger.LogSQL(query, args, time.Since(start))
	return result, err
}

// QueryContext executes a query and logs it
func (b *Driver) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database not connected")
	}
	start := time.Now()
	rows, err := b.DB.QueryContext(ctx, query, args...)
	b.Logger.LogSQL(query, args, time.Since(start))
	return rows, err
}

// QueryRowContext executes a single-row query and logs it
func (b *Driver) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := b.DB.QueryRowContext(ctx, query, args...)
	b.Logger.LogSQL(query, args, time.Since(start))
	return row
}

// Begin starts a new transaction
func (b *Driver) Begin(ctx context.Context) (types.Transaction, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database not connected")
	}
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return NewTransaction(tx, b.Logger), nil
}

// GetDriverType returns the backend type
func (b *Driver) GetDriverType() types.DriverType {
	return b.DriverType
}
