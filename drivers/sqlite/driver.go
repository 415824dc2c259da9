package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/northway/migrator/base"
	"github.com/northway/migrator/registry"
	"github.com/northway/migrator/types"
)

func init() {
	driverType := types.DriverSQLite

	// Register SQLite driver
	registry.Register(driverType, func(nativeURI string, opts types.ConnectOptions) (types.Database, error) {
		return NewSQLiteDB(nativeURI, opts)
	})

	// Register SQLite URI parser
	registry.RegisterURIParser(NewSQLiteURIParser())
}

// SQLiteDB implements the Database interface for SQLite
type SQLiteDB struct {
	*base.Driver
	nativeURI string
	sqlDriver string
	caps      *SQLiteCapabilities
	migrator  *SQLiteMigrator
}

// NewSQLiteDB creates a new SQLite database instance.
// The uri parameter should be a native SQLite path (e.g., "/path/to/db.sqlite" or ":memory:")
func NewSQLiteDB(nativeURI string, opts types.ConnectOptions) (*SQLiteDB, error) {
	sqlDriver, err := resolveSQLDriver(opts.SQLDriver)
	if err != nil {
		return nil, err
	}
	return &SQLiteDB{
		Driver:    base.NewDriver(nativeURI, types.DriverSQLite),
		nativeURI: nativeURI,
		sqlDriver: sqlDriver,
		caps:      NewSQLiteCapabilities(),
		migrator:  NewSQLiteMigrator(),
	}, nil
}

// resolveSQLDriver maps a driver selector onto a database/sql driver name
func resolveSQLDriver(name string) (string, error) {
	switch name {
	case "", "mattn", "sqlite3":
		return "sqlite3", nil
	case "modernc", "sqlite":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unknown SQLite driver %q (want mattn or modernc)", name)
	}
}

// SQLDriverName returns the database/sql driver in use
func (s *SQLiteDB) SQLDriverName() string {
	return s.sqlDriver
}

// Connect establishes connection to SQLite database
func (s *SQLiteDB) Connect(ctx context.Context) error {
	db, err := sql.Open(s.sqlDriver, s.nativeURI)
	if err != nil {
		return &types.SQLError{
			Kind:    types.KindConnectError,
			Message: fmt.Sprintf("failed to open SQLite database: %v", err),
			Err:     err,
		}
	}

	// A single connection keeps :memory: databases alive for the whole session
	// and serializes every statement through the current transaction.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return &types.SQLError{
			Kind:    types.KindConnectError,
			Message: fmt.Sprintf("failed to ping SQLite database: %v", err),
			Err:     err,
		}
	}

	s.SetDB(db)
	s.Logger.Debug("connected to %s using %s", s.nativeURI, s.sqlDriver)
	return nil
}

// GetCapabilities returns the SQLite dialect
func (s *SQLiteDB) GetCapabilities() types.DriverCapabilities {
	return s.caps
}

// GetMigrator returns the SQLite catalog reader
func (s *SQLiteDB) GetMigrator() types.DatabaseMigrator {
	return s.migrator
}

// ClassifyError maps a driver error onto an error kind
func (s *SQLiteDB) ClassifyError(err error, statement string) *types.SQLError {
	return ClassifyError(err, statement)
}

var _ types.Database = (*SQLiteDB)(nil)
