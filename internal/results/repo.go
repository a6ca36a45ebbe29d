package results

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/webtest-io/webtest/internal/config"
)

// Repository persists runs and results in the archive database.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over an open archive connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateRun inserts a new run row.
func (r *Repository) CreateRun(run *Run) error {
	query := `
		INSERT INTO test_runs (id, environment, browser, base_url, started_at, passed, failed, skipped)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		run.ID,
		string(run.Environment),
		string(run.Browser),
		run.BaseURL,
		run.StartedAt,
		run.Passed,
		run.Failed,
		run.Skipped,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun stamps the completion time and final counters of a run.
func (r *Repository) FinishRun(run *Run) error {
	if !run.IsFinished() {
		return ErrRunNotFinished
	}
	query := `
		UPDATE test_runs
		SET finished_at = $1, passed = $2, failed = $3, skipped = $4
		WHERE id = $5
	`
	result, err := r.db.Exec(query, run.FinishedAt, run.Passed, run.Failed, run.Skipped, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found")
	}
	return nil
}

// RecordResult inserts one test result row.
func (r *Repository) RecordResult(res *TestResult) error {
	query := `
		INSERT INTO test_results (id, run_id, name, status, duration_ms, message, screenshot_path, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	now := time.Now()
	_, err := r.db.Exec(query,
		res.ID,
		res.RunID,
		res.Name,
		string(res.Status),
		res.Duration.Milliseconds(),
		res.Message,
		res.ScreenshotPath,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	res.RecordedAt = now
	return nil
}

// GetRun retrieves a run by ID.
func (r *Repository) GetRun(id string) (*Run, error) {
	query := `
		SELECT id, environment, browser, base_url, started_at,
		       COALESCE(finished_at, '0001-01-01'::timestamp), passed, failed, skipped
		FROM test_runs
		WHERE id = $1
	`
	run := &Run{}
	var env, browserName string
	err := r.db.QueryRow(query, id).Scan(
		&run.ID,
		&env,
		&browserName,
		&run.BaseURL,
		&run.StartedAt,
		&run.FinishedAt,
		&run.Passed,
		&run.Failed,
		&run.Skipped,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Environment = config.Environment(env)
	run.Browser = config.BrowserName(browserName)
	return run, nil
}

// FailuresForRun lists the failed results of a run, newest first.
func (r *Repository) FailuresForRun(runID string) ([]*TestResult, error) {
	query := `
		SELECT id, run_id, name, status, duration_ms, COALESCE(message, ''),
		       COALESCE(screenshot_path, ''), recorded_at
		FROM test_results
		WHERE run_id = $1 AND status = $2
		ORDER BY recorded_at DESC
	`
	rows, err := r.db.Query(query, runID, string(StatusFailed))
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	var out []*TestResult
	for rows.Next() {
		res := &TestResult{}
		var status string
		var durationMs int64
		if err := rows.Scan(&res.ID, &res.RunID, &res.Name, &status, &durationMs,
			&res.Message, &res.ScreenshotPath, &res.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Status = Status(status)
		res.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return out, nil
}
