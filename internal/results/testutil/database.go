// Package testutil provides schema-isolated Postgres databases for archive
// integration tests.
package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"github.com/webtest-io/webtest/internal/database"
)

// TestDatabase is an isolated schema inside the configured Postgres server.
type TestDatabase struct {
	DB         *sql.DB
	SchemaName string
	masterDB   *sql.DB
}

// Setup creates an isolated schema, connects to it and runs the archive
// migrations. Connection settings come from POSTGRES_* with localhost
// defaults so the tests run against a local server out of the box.
func Setup(t *testing.T) *TestDatabase {
	t.Helper()

	cfg, err := database.LoadConfig(func(key string) string {
		switch key {
		case "POSTGRES_USER":
			return envOr("POSTGRES_USER", "postgres")
		case "POSTGRES_PASSWORD":
			return envOr("POSTGRES_PASSWORD", "postgres")
		case "POSTGRES_DB":
			return envOr("POSTGRES_DB", "postgres")
		case "POSTGRES_HOSTNAME":
			return envOr("POSTGRES_HOSTNAME", "localhost")
		}
		return ""
	})
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}

	masterDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		t.Fatalf("Failed to connect to master database: %v", err)
	}
	if err := masterDB.Ping(); err != nil {
		masterDB.Close()
		t.Fatalf("Failed to ping master database: %v", err)
	}

	schemaName := fmt.Sprintf("webtest_%d_%d", time.Now().UnixNano(), rand.Intn(10000))
	if _, err := masterDB.Exec(fmt.Sprintf("CREATE SCHEMA %s", schemaName)); err != nil {
		masterDB.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	testDB, err := sql.Open("postgres", fmt.Sprintf("%s search_path=%s", cfg.ConnectionString(), schemaName))
	if err != nil {
		masterDB.Exec(fmt.Sprintf("DROP SCHEMA %s CASCADE", schemaName))
		masterDB.Close()
		t.Fatalf("Failed to connect to test schema: %v", err)
	}
	if err := testDB.Ping(); err != nil {
		testDB.Close()
		masterDB.Exec(fmt.Sprintf("DROP SCHEMA %s CASCADE", schemaName))
		masterDB.Close()
		t.Fatalf("Failed to ping test database: %v", err)
	}

	td := &TestDatabase{DB: testDB, SchemaName: schemaName, masterDB: masterDB}
	if err := database.RunMigrations(testDB); err != nil {
		td.Teardown(t)
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return td
}

// Teardown drops the schema and closes the connections.
func (td *TestDatabase) Teardown(t *testing.T) {
	t.Helper()

	if td.DB != nil {
		td.DB.Close()
	}
	if td.masterDB != nil {
		td.masterDB.Exec(fmt.Sprintf("DROP SCHEMA %s CASCADE", td.SchemaName))
		td.masterDB.Close()
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
