package database

import (
	"database/sql"
	"fmt"
)

// RunMigrations creates the run-archive tables.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	schema := `
	CREATE TABLE IF NOT EXISTS test_runs (
		id UUID PRIMARY KEY,
		environment VARCHAR(50) NOT NULL,
		browser VARCHAR(50) NOT NULL,
		base_url VARCHAR(255) NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		passed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS test_results (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES test_runs(id),
		name VARCHAR(255) NOT NULL,
		status VARCHAR(50) NOT NULL,
		duration_ms BIGINT NOT NULL,
		message TEXT,
		screenshot_path VARCHAR(512),
		recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_test_results_run ON test_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_test_results_status ON test_results(status);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create run archive tables: %w", err)
	}
	return nil
}
