package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/northway/migrator/base"
	"github.com/northway/migrator/registry"
	"github.com/northway/migrator/types"
)

func init() {
	driverType := types.DriverPostgreSQL

	// Register PostgreSQL driver
	registry.Register(driverType, func(nativeURI string, opts types.ConnectOptions) (types.Database, error) {
		return NewPostgreSQLDB(nativeURI, opts)
	})

	// Register PostgreSQL URI parser
	registry.RegisterURIParser(NewPostgreSQLURIParser())
}

// PostgreSQLDB implements the Database interface for PostgreSQL
type PostgreSQLDB struct {
	*base.Driver
	nativeURI string
	sqlDriver string
	caps      *PostgreSQLCapabilities
	migrator  *PostgreSQLMigrator
}

// NewPostgreSQLDB creates a new PostgreSQL database instance from a
// postgresql:// connection URL
func NewPostgreSQLDB(nativeURI string, opts types.ConnectOptions) (*PostgreSQLDB, error) {
	sqlDriver, err := resolveSQLDriver(opts.SQLDriver)
	if err != nil {
		return nil, err
	}
	return &PostgreSQLDB{
		Driver:    base.NewDriver(nativeURI, types.DriverPostgreSQL),
		nativeURI: nativeURI,
		sqlDriver: sqlDriver,
		caps:      NewPostgreSQLCapabilities(),
		migrator:  NewPostgreSQLMigrator(),
	}, nil
}

// resolveSQLDriver maps a driver selector onto a database/sql driver name
func resolveSQLDriver(name string) (string, error) {
	switch name {
	case "", "pq", "postgres":
		return "postgres", nil
	case "pgx":
		return "pgx", nil
	default:
		return "", fmt.Errorf("unknown PostgreSQL driver %q (want pq or pgx)", name)
	}
}

// SQLDriverName returns the database/sql driver in use
func (p *PostgreSQLDB) SQLDriverName() string {
	return p.sqlDriver
}

// Connect establishes connection to PostgreSQL database
func (p *PostgreSQLDB) Connect(ctx context.Context) error {
	db, err := sql.Open(p.sqlDriver, p.nativeURI)
	if err != nil {
		return &types.SQLError{
			Kind:    types.KindConnectError,
			Message: fmt.Sprintf("failed to open PostgreSQL database: %v", err),
			Err:     err,
		}
	}

	// The migrator owns exactly one session
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return &types.SQLError{
			Kind:    types.KindConnectError,
			Code:    sqlState(err),
			Message: fmt.Sprintf("failed to ping PostgreSQL database: %v", err),
			Err:     err,
		}
	}

	p.SetDB(db)
	p.Logger.Debug("connected to PostgreSQL using %s", p.sqlDriver)
	return nil
}

// GetCapabilities returns the PostgreSQL dialect
func (p *PostgreSQLDB) GetCapabilities() types.DriverCapabilities {
	return p.caps
}

// GetMigrator returns the PostgreSQL catalog reader
func (p *PostgreSQLDB) GetMigrator() types.DatabaseMigrator {
	return p.migrator
}

// ClassifyError maps a driver error onto an error kind
func (p *PostgreSQLDB) ClassifyError(err error, statement string) *types.SQLError {
	return ClassifyError(err, statement)
}

var _ types.Database = (*PostgreSQLDB)(nil)
