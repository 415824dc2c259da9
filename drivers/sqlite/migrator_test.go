package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteMigrator_GetTables(t *testing.T) {
	for _, drv := range sqlDrivers {
		t.Run(drv, func(t *testing.T) {
			db := newTestDB(t, drv)
			ctx := context.Background()
			migrator := db.GetMigrator()

			// Initially no tables
			tables, err := migrator.GetTables(ctx, db)
			require.NoError(t, err)
			assert.Empty(t, tables)

			mustExec(t, db,
				`CREATE TABLE "user" ("id" INTEGER PRIMARY KEY AUTOINCREMENT)`,
				`CREATE TABLE "transaction" ("id" INTEGER)`,
			)

			// sqlite_sequence is created by AUTOINCREMENT and must be hidden
			tables, err = migrator.GetTables(ctx, db)
			require.NoError(t, err)
			assert.Equal(t, []string{"transaction", "user"}, tables)
		})
	}
}

func TestSQLiteMigrator_Exists(t *testing.T) {
	for _, drv := range sqlDrivers {
		t.Run(drv, func(t *testing.T) {
			db := newTestDB(t, drv)
			ctx := context.Background()
			migrator := db.GetMigrator()

			mustExec(t, db,
				`CREATE TABLE "transaction" ("id" INTEGER, "amount" FLOAT)`,
				`CREATE UNIQUE INDEX "idx_transaction_amount" ON "transaction" ("amount")`,
			)

			exists, err := migrator.TableExists(ctx, db, "transaction")
			require.NoError(t, err)
			assert.True(t, exists)

			exists, err = migrator.TableExists(ctx, db, "missing")
			require.NoError(t, err)
			assert.False(t, exists)

			exists, err = migrator.ColumnExists(ctx, db, "transaction", "amount")
			require.NoError(t, err)
			assert.True(t, exists)

			// membership is case-sensitive
			exists, err = migrator.ColumnExists(ctx, db, "transaction", "Amount")
			require.NoError(t, err)
			assert.False(t, exists)

			exists, err = migrator.ColumnExists(ctx, db, "missing", "amount")
			require.NoError(t, err)
			assert.False(t, exists)

			exists, err = migrator.IndexExists(ctx, db, "idx_transaction_amount")
			require.NoError(t, err)
			assert.True(t, exists)

			exists, err = migrator.IndexExists(ctx, db, "transaction")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestSQLiteMigrator_GetColumns(t *testing.T) {
	for _, drv := range sqlDrivers {
		t.Run(drv, func(t *testing.T) {
			db := newTestDB(t, drv)
			ctx := context.Background()

			mustExec(t, db, `CREATE TABLE "company" (
				"id" INTEGER PRIMARY KEY AUTOINCREMENT,
				"name" VARCHAR(200) NOT NULL,
				"payment_status" VARCHAR(20) DEFAULT 'trial',
				"platform_inoperante" BOOLEAN DEFAULT FALSE
			)`)

			columns, err := db.GetMigrator().GetColumns(ctx, db, "company")
			require.NoError(t, err)
			require.Len(t, columns, 4)

			assert.Equal(t, "id", columns[0].Name)
			assert.Equal(t, "INTEGER", columns[0].Type)
			assert.True(t, columns[0].PrimaryKey)
			assert.False(t, columns[0].Nullable)

			assert.Equal(t, "name", columns[1].Name)
			assert.Equal(t, "VARCHAR(200)", columns[1].Type)
			assert.False(t, columns[1].Nullable)
			assert.Nil(t, columns[1].Default)

			assert.Equal(t, "payment_status", columns[2].Name)
			assert.True(t, columns[2].Nullable)
			assert.Equal(t, "'trial'", columns[2].DefaultString())

			assert.Equal(t, "platform_inoperante", columns[3].Name)
			assert.Equal(t, "FALSE", columns[3].DefaultString())
		})
	}
}

func TestSQLiteMigrator_GetColumnsMissingTable(t *testing.T) {
	db := newTestDB(t, "mattn")
	columns, err := db.GetMigrator().GetColumns(context.Background(), db, "nope")
	require.NoError(t, err)
	assert.Empty(t, columns)
}
