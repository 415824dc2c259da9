package sqlite

import (
	"strings"

	"github.com/northway/migrator/base"
	"github.com/northway/migrator/types"
)

// SQLiteCapabilities implements types.DriverCapabilities for SQLite
type SQLiteCapabilities struct{}

// NewSQLiteCapabilities creates new SQLite capabilities
func NewSQLiteCapabilities() *SQLiteCapabilities {
	return &SQLiteCapabilities{}
}

// Identifier quoting

func (c *SQLiteCapabilities) QuoteIdentifier(name string) string {
	return base.QuoteIdentifier(name)
}

// Literals and types

// GetBooleanLiteral returns TRUE or FALSE, which SQLite stores as 1 and 0
func (c *SQLiteCapabilities) GetBooleanLiteral(value bool) string {
	if value {
		return "TRUE"
	}
	return "FALSE"
}

// AutoIncrementColumn ignores the declared type: only INTEGER PRIMARY KEY
// aliases the rowid.
func (c *SQLiteCapabilities) AutoIncrementColumn(columnType string) string {
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// EnforcesForeignKeys is false: connections are opened without
// PRAGMA foreign_keys, so REFERENCES clauses are recorded but not checked.
func (c *SQLiteCapabilities) EnforcesForeignKeys() bool {
	return false
}

// Reserved names

// IsSystemIndex matches the indexes SQLite creates for UNIQUE and PRIMARY KEY
func (c *SQLiteCapabilities) IsSystemIndex(indexName string) bool {
	return strings.HasPrefix(strings.ToLower(indexName), "sqlite_autoindex_")
}

func (c *SQLiteCapabilities) IsSystemTable(tableName string) bool {
	return strings.HasPrefix(strings.ToLower(tableName), "sqlite_")
}

// Driver identification

func (c *SQLiteCapabilities) GetDriverType() types.DriverType {
	return types.DriverSQLite
}

var _ types.DriverCapabilities = (*SQLiteCapabilities)(nil)
