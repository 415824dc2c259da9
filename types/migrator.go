package types

import "context"

// DatabaseMigrator answers catalog questions for one backend. Every method
// takes the Querier to run on so introspection can share the caller's
// transaction.
type DatabaseMigrator interface {
	GetTables(ctx context.Context, q Querier) ([]string, error)
	TableExists(ctx context.Context, q Querier, tableName string) (bool, error)
	ColumnExists(ctx context.Context, q Querier, tableName, columnName string) (bool, error)
	IndexExists(ctx context.Context, q Querier, indexName string) (bool, error)
	GetColumns(ctx context.Context, q Querier, tableName string) ([]ColumnInfo, error)
}

// ColumnInfo describes one column as reported by the catalog
type ColumnInfo struct {
	Name       string
	Type       string
	Nullable   bool
	Default    *string // nil when the column has no default
	PrimaryKey bool
}

// DefaultString renders the default for display
func (c ColumnInfo) DefaultString() string {
	if c.Default == nil {
		return ""
	}
	return *c.Default
}
