package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/northway/migrator/base"
	"github.com/northway/migrator/types"
)

// SQLiteMigrator reads the SQLite schema catalog
type SQLiteMigrator struct{}

// NewSQLiteMigrator creates a new SQLite migrator
func NewSQLiteMigrator() *SQLiteMigrator {
	return &SQLiteMigrator{}
}

// GetTables returns all user tables, sorted by name
func (m *SQLiteMigrator) GetTables(ctx context.Context, q types.Querier) ([]string, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

// TableExists checks sqlite_master for a table with the exact name
func (m *SQLiteMigrator) TableExists(ctx context.Context, q types.Querier, tableName string) (bool, error) {
	return m.objectExists(ctx, q, "table", tableName)
}

// IndexExists checks sqlite_master for an index with the exact name
func (m *SQLiteMigrator) IndexExists(ctx context.Context, q types.Querier, indexName string) (bool, error) {
	return m.objectExists(ctx, q, "index", indexName)
}

func (m *SQLiteMigrator) objectExists(ctx context.Context, q types.Querier, objectType, name string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?`,
		objectType, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", objectType, err)
	}
	return count > 0, nil
}

// ColumnExists reports whether the table has a column with exactly this name
func (m *SQLiteMigrator) ColumnExists(ctx context.Context, q types.Querier, tableName, columnName string) (bool, error) {
	columns, err := m.GetColumns(ctx, q, tableName)
	if err != nil {
		return false, err
	}
	for _, col := range columns {
		if col.Name == columnName {
			return true, nil
		}
	}
	return false, nil
}

// GetColumns lists the columns of a table in declaration order.
// A missing table yields an empty list.
func (m *SQLiteMigrator) GetColumns(ctx context.Context, q types.Querier, tableName string) ([]types.ColumnInfo, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", base.QuoteIdentifier(tableName))
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get table info: %w", err)
	}
	defer rows.Close()

	var columns []types.ColumnInfo
	for rows.Next() {
		var (
			cid          int
			name         string
			columnType   string
			notNull      int
			defaultValue sql.NullString
			pk           int
		)
		if err := rows.Scan(&cid, &name, &columnType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}

		col := types.ColumnInfo{
			Name:       name,
			Type:       columnType,
			Nullable:   notNull == 0 && pk == 0,
			PrimaryKey: pk > 0,
		}
		if defaultValue.Valid {
			col.Default = &defaultValue.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

var _ types.DatabaseMigrator = (*SQLiteMigrator)(nil)
