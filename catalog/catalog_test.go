package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northway/migrator/database"
	"github.com/northway/migrator/migration"
	"github.com/northway/migrator/test"
	"github.com/northway/migrator/types"
)

// baseSchema is the part of the application schema the catalog builds on
var baseSchema = []string{
	`CREATE TABLE "company" ("id" INTEGER PRIMARY KEY, "name" VARCHAR(200))`,
	`CREATE TABLE "user" ("id" INTEGER PRIMARY KEY, "email" VARCHAR(120), "company_id" INTEGER)`,
	`CREATE TABLE "client" ("id" INTEGER PRIMARY KEY, "name" VARCHAR(200))`,
	`CREATE TABLE "lead" ("id" INTEGER PRIMARY KEY, "name" VARCHAR(200))`,
	`CREATE TABLE "task" ("id" INTEGER PRIMARY KEY, "title" VARCHAR(200))`,
	`CREATE TABLE "contract" ("id" INTEGER PRIMARY KEY)`,
	`CREATE TABLE "transaction" ("id" INTEGER PRIMARY KEY, "amount" FLOAT)`,
	`CREATE TABLE "drive_folder_template" ("id" INTEGER PRIMARY KEY, "name" VARCHAR(100))`,
	`INSERT INTO "company" ("id", "name") VALUES (1, 'NorthWay')`,
	`INSERT INTO "transaction" ("id", "amount") VALUES (1, 10.0), (2, 20.0)`,
}

func TestCatalog_Valid(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range All() {
		assert.NoError(t, m.Validate(), m.ID)
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
		assert.NotEmpty(t, m.Description, m.ID)
	}
	assert.Equal(t, len(All()), len(IDs()))
}

func TestCatalog_ByID(t *testing.T) {
	m, ok := ByID("user_supabase_uid")
	require.True(t, ok)
	require.Len(t, m.Steps, 2)
	assert.Equal(t, migration.KindCreateIndex, m.Steps[1].Kind())

	_, ok = ByID("nope")
	assert.False(t, ok)
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	all := All()
	all[0] = nil
	assert.NotNil(t, All()[0])
}

func TestCatalog_ApplyAllTwice(t *testing.T) {
	backends := []struct {
		name string
		uri  func(t *testing.T) string
		opts types.ConnectOptions
	}{
		{"sqlite", test.SQLiteURI, types.ConnectOptions{}},
		{"postgresql", test.PostgresURI, types.ConnectOptions{}},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			uri := b.uri(t)
			ctx := context.Background()

			db, err := database.Open(ctx, uri, b.opts)
			require.NoError(t, err)
			for _, stmt := range baseSchema {
				_, err := db.ExecContext(ctx, stmt)
				require.NoError(t, err, stmt)
			}
			require.NoError(t, db.Close())

			runner := migration.NewRunner(uri, b.opts, nil)

			reports := runner.ApplyAll(ctx, All())
			require.Len(t, reports, len(All()))
			for _, r := range reports {
				for _, res := range r.Results {
					assert.Equal(t, migration.StatusApplied, res.Status,
						"%s %s %s: %s", r.MigrationID, res.Kind, res.Target, res.Message)
				}
			}

			reports = runner.ApplyAll(ctx, All())
			for _, r := range reports {
				for _, res := range r.Results {
					assert.Equal(t, migration.StatusAlreadyPresent, res.Status,
						"%s %s %s: %s", r.MigrationID, res.Kind, res.Target, res.Message)
				}
			}
		})
	}
}
