package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/northway/migrator/types"
)

// PostgreSQLMigrator reads the PostgreSQL catalog. Every lookup is scoped to
// current_schema(), so the search_path decides which schema is migrated.
type PostgreSQLMigrator struct{}

// NewPostgreSQLMigrator creates a new PostgreSQL migrator
func NewPostgreSQLMigrator() *PostgreSQLMigrator {
	return &PostgreSQLMigrator{}
}

// GetTables returns all base tables in the current schema
func (m *PostgreSQLMigrator) GetTables(ctx context.Context, q types.Querier) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
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

// TableExists checks information_schema for a table with the exact name
func (m *PostgreSQLMigrator) TableExists(ctx context.Context, q types.Querier, tableName string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = $1
		)`, tableName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return exists, nil
}

// ColumnExists checks information_schema for a column with the exact name
func (m *PostgreSQLMigrator) ColumnExists(ctx context.Context, q types.Querier, tableName, columnName string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2
		)`, tableName, columnName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check column existence: %w", err)
	}
	return exists, nil
}

// IndexExists checks pg_indexes for an index with the exact name
func (m *PostgreSQLMigrator) IndexExists(ctx context.Context, q types.Querier, indexName string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = current_schema() AND indexname = $1
		)`, indexName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check index existence: %w", err)
	}
	return exists, nil
}

// GetColumns lists the columns of a table in ordinal order.
// A missing table yields an empty list.
func (m *PostgreSQLMigrator) GetColumns(ctx context.Context, q types.Querier, tableName string) ([]types.ColumnInfo, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.character_maximum_length,
			c.is_nullable,
			c.column_default,
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON tc.constraint_name = kcu.constraint_name
					AND tc.table_schema = kcu.table_schema
					AND tc.table_name = kcu.table_name
				WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = c.table_schema
				AND tc.table_name = c.table_name
				AND kcu.column_name = c.column_name
			) AS is_primary
		FROM information_schema.columns c
		WHERE c.table_schema = current_schema() AND c.table_name = $1
		ORDER BY c.ordinal_position
	`
	rows, err := q.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []types.ColumnInfo
	for rows.Next() {
		var (
			name         string
			dataType     string
			maxLength    sql.NullInt64
			isNullable   string
			defaultValue sql.NullString
			isPrimary    bool
		)
		if err := rows.Scan(&name, &dataType, &maxLength, &isNullable, &defaultValue, &isPrimary); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}

		col := types.ColumnInfo{
			Name:       name,
			Type:       formatDataType(dataType, maxLength),
			Nullable:   strings.EqualFold(isNullable, "YES"),
			PrimaryKey: isPrimary,
		}
		if defaultValue.Valid {
			col.Default = &defaultValue.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// formatDataType appends the length to character types, e.g. character varying(100)
func formatDataType(dataType string, maxLength sql.NullInt64) string {
	if maxLength.Valid && maxLength.Int64 > 0 {
		return fmt.Sprintf("%s(%d)", dataType, maxLength.Int64)
	}
	return dataType
}

var _ types.DatabaseMigrator = (*PostgreSQLMigrator)(nil)
