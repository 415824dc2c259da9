package types

import "fmt"

// DriverType represents a database backend
type DriverType string

// Supported backends
const (
	DriverSQLite     DriverType = "sqlite"
	DriverPostgreSQL DriverType = "postgresql"
)

// String returns the string representation of the driver type
func (d DriverType) String() string {
	return string(d)
}

// IsEmbedded reports whether the backend is a local file-backed engine
func (d DriverType) IsEmbedded() bool {
	return d == DriverSQLite
}

// DriverCapabilities describes the dialect quirks the migrator relies on
type DriverCapabilities interface {
	QuoteIdentifier(name string) string

	// Literals and types
	GetBooleanLiteral(value bool) string
	AutoIncrementColumn(columnType string) string

	// EnforcesForeignKeys reports whether declared REFERENCES are checked.
	// SQLite accepts them but ignores them unless PRAGMA foreign_keys is on.
	EnforcesForeignKeys() bool

	// Names the backend reserves for its own objects
	IsSystemIndex(indexName string) bool
	IsSystemTable(tableName string) bool

	GetDriverType() DriverType
}

// ParseDriverType parses a string into a DriverType
func ParseDriverType(s string) (DriverType, error) {
	switch s {
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgresql", "postgres":
		return DriverPostgreSQL, nil
	case "":
		return "", fmt.Errorf("driver type cannot be empty")
	default:
		return "", fmt.Errorf("unsupported driver type: %s", s)
	}
}
