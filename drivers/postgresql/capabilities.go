package postgresql

import (
	"strings"

	"github.com/northway/migrator/base"
	"github.com/northway/migrator/types"
)

// PostgreSQLCapabilities implements types.DriverCapabilities for PostgreSQL
type PostgreSQLCapabilities struct{}

// NewPostgreSQLCapabilities creates new PostgreSQL capabilities
func NewPostgreSQLCapabilities() *PostgreSQLCapabilities {
	return &PostgreSQLCapabilities{}
}

// Identifier quoting

func (c *PostgreSQLCapabilities) QuoteIdentifier(name string) string {
	return base.QuoteIdentifier(name)
}

// Literals and types

func (c *PostgreSQLCapabilities) GetBooleanLiteral(value bool) string {
	if value {
		return "TRUE"
	}
	return "FALSE"
}

// AutoIncrementColumn picks the serial type matching the declared width
func (c *PostgreSQLCapabilities) AutoIncrementColumn(columnType string) string {
	switch strings.ToUpper(strings.TrimSpace(columnType)) {
	case "BIGINT", "INT8", "BIGSERIAL":
		return "BIGSERIAL PRIMARY KEY"
	case "SMALLINT", "INT2", "SMALLSERIAL":
		return "SMALLSERIAL PRIMARY KEY"
	default:
		return "SERIAL PRIMARY KEY"
	}
}

func (c *PostgreSQLCapabilities) EnforcesForeignKeys() bool {
	return true
}

// Reserved names

// IsSystemIndex matches catalog indexes and the <table>_pkey names the
// server generates for primary keys
func (c *PostgreSQLCapabilities) IsSystemIndex(indexName string) bool {
	lower := strings.ToLower(indexName)
	return strings.HasSuffix(lower, "_pkey") || strings.HasPrefix(lower, "pg_")
}

func (c *PostgreSQLCapabilities) IsSystemTable(tableName string) bool {
	return strings.HasPrefix(strings.ToLower(tableName), "pg_")
}

// Driver identification

func (c *PostgreSQLCapabilities) GetDriverType() types.DriverType {
	return types.DriverPostgreSQL
}

var _ types.DriverCapabilities = (*PostgreSQLCapabilities)(nil)
