// Package test holds helpers shared by the package tests.
package test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/lib/pq"
)

// GetEnvOrDefault returns environment variable value or default if not set
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SQLiteURI returns a URL for a fresh SQLite file inside t.TempDir()
func SQLiteURI(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "northway.db")
	// an absolute path already starts with "/", giving the four-slash form
	return "sqlite:///" + filepath.ToSlash(path)
}

// PostgresBaseURI builds the server URL from the POSTGRES_TEST_* variables.
// The test is skipped when POSTGRES_TEST_HOST is not set.
func PostgresBaseURI(t *testing.T) string {
	t.Helper()

	host := os.Getenv("POSTGRES_TEST_HOST")
	if host == "" {
		t.Skip("POSTGRES_TEST_HOST not set, skipping PostgreSQL test")
	}
	user := GetEnvOrDefault("POSTGRES_TEST_USER", "testuser")
	password := GetEnvOrDefault("POSTGRES_TEST_PASSWORD", "testpass")
	database := GetEnvOrDefault("POSTGRES_TEST_DATABASE", "testdb")
	port := GetEnvOrDefault("POSTGRES_TEST_PORT", "5432")

	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(user), url.QueryEscape(password), host, port, database)
}

// PostgresURI returns a URL whose search_path points at a schema created for
// this test alone. The schema is dropped when the test finishes.
func PostgresURI(t *testing.T) string {
	t.Helper()

	baseURI := PostgresBaseURI(t)

	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		t.Fatalf("failed to generate schema name: %v", err)
	}
	schema := "migrator_test_" + hex.EncodeToString(suffix)

	admin, err := sql.Open("postgres", baseURI)
	if err != nil {
		t.Fatalf("failed to open PostgreSQL: %v", err)
	}
	ctx := context.Background()
	if _, err := admin.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA "%s"`, schema)); err != nil {
		admin.Close()
		t.Fatalf("failed to create schema %s: %v", schema, err)
	}

	t.Cleanup(func() {
		if _, err := admin.ExecContext(context.Background(), fmt.Sprintf(`DROP SCHEMA IF EXISTS "%s" CASCADE`, schema)); err != nil {
			t.Logf("failed to drop schema %s: %v", schema, err)
		}
		admin.Close()
	})

	return baseURI + "&search_path=" + schema
}
