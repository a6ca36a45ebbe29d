// Package results archives test-run outcomes in Postgres so dashboards can
// query pass rates across runs. It is optional infrastructure: the suite
// records into it only when the archive database is configured.
package results

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/webtest-io/webtest/internal/config"
)

// Status of one archived test result.
type Status string

// Result statuses
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Domain errors
var (
	ErrInvalidStatus  = errors.New("unknown result status")
	ErrEmptyTestName  = errors.New("test name cannot be empty")
	ErrRunFinished    = errors.New("run is already finished")
	ErrRunNotFinished = errors.New("run is not finished")
)

// ParseStatus validates a result status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPassed, StatusFailed, StatusSkipped:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Run is one suite execution.
type Run struct {
	ID          string
	Environment config.Environment
	Browser     config.BrowserName
	BaseURL     string
	StartedAt   time.Time
	FinishedAt  time.Time
	Passed      int
	Failed      int
	Skipped     int
}

// NewRun starts a run record for the given settings.
func NewRun(settings *config.Settings) *Run {
	return &Run{
		ID:          uuid.New().String(),
		Environment: settings.Environment,
		Browser:     settings.Browser,
		BaseURL:     settings.BaseURL,
		StartedAt:   time.Now(),
	}
}

// Record tallies one result into the run counters.
func (r *Run) Record(status Status) error {
	if r.IsFinished() {
		return ErrRunFinished
	}
	switch status {
	case StatusPassed:
		r.Passed++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return nil
}

// Finish stamps the run completion time. Finishing twice is an error.
func (r *Run) Finish() error {
	if r.IsFinished() {
		return ErrRunFinished
	}
	r.FinishedAt = time.Now()
	return nil
}

// IsFinished reports whether the run has been completed.
func (r *Run) IsFinished() bool {
	return !r.FinishedAt.IsZero()
}

// Total returns the number of recorded results.
func (r *Run) Total() int {
	return r.Passed + r.Failed + r.Skipped
}

// TestResult is one archived test outcome.
type TestResult struct {
	ID             string
	RunID          string
	Name           string
	Status         Status
	Duration       time.Duration
	Message        string
	ScreenshotPath string
	RecordedAt     time.Time
}

// NewTestResult creates a validated result for a run.
func NewTestResult(run *Run, name string, status Status, duration time.Duration) (*TestResult, error) {
	if name == "" {
		return nil, ErrEmptyTestName
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	return &TestResult{
		ID:       uuid.New().String(),
		RunID:    run.ID,
		Name:     name,
		Status:   status,
		Duration: duration,
	}, nil
}
