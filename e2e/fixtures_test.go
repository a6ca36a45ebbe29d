//go:build e2e
// +build e2e

package e2e

import (
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webtest-io/webtest/internal/browser"
	"github.com/webtest-io/webtest/internal/page"
	"github.com/webtest-io/webtest/internal/report"
	"github.com/webtest-io/webtest/internal/results"
)

// fixture bundles the per-test session, page objects and log collector.
// Acquisition nests browser → context → page; release runs in reverse order
// on every exit path via t.Cleanup.
type fixture struct {
	t         *testing.T
	session   *browser.Session
	page      *page.Page
	login     *page.LoginPage
	collector *report.Collector
	meta      report.Meta
	started   time.Time
}

// newFixture creates a fresh session for the test. Artifact capture is armed
// only after setup succeeds, so setup failures never produce artifacts and
// capture fires iff the test body failed. A setup failure is reported as a
// broken result: the test never ran, so it neither passed nor failed.
func newFixture(t *testing.T, meta report.Meta) *fixture {
	t.Helper()

	session, err := browser.NewSession(launcher)
	if err != nil {
		now := time.Now()
		if _, werr := reporter.WriteResult(report.Outcome{
			Name:    t.Name(),
			Package: "e2e",
			Status:  report.StatusBroken,
			Message: err.Error(),
			Start:   now,
			Stop:    now,
			Meta:    meta,
		}); werr != nil {
			log.Printf("could not write report result for %s: %v", t.Name(), werr)
		}
		t.Fatalf("could not create browser session: %v", err)
	}

	p := page.New(session.Page(), settings)
	f := &fixture{
		t:         t,
		session:   session,
		page:      p,
		login:     page.NewLoginPage(p),
		collector: report.NewCollector(),
		meta:      meta,
		started:   time.Now(),
	}
	t.Cleanup(f.teardown)
	return f
}

// teardown captures artifacts for failed tests, persisting the collector's
// recorded steps and log entries into the bundle, writes the report entry and
// releases the session. It never fails the test on its own.
func (f *fixture) teardown() {
	status := report.StatusPassed
	var bundle *report.Bundle
	var message string

	switch {
	case f.t.Failed():
		status = report.StatusFailed
		bundle = pipeline.CaptureFailure(report.FromSession(f.session), f.collector, f.t.Name())
		if steps := f.collector.Steps(); len(steps) > 0 {
			message = "last step: " + steps[len(steps)-1]
		}
	case f.t.Skipped():
		status = report.StatusSkipped
	}

	if _, err := reporter.WriteResult(report.Outcome{
		Name:    f.t.Name(),
		Package: "e2e",
		Status:  status,
		Message: message,
		Start:   f.started,
		Stop:    time.Now(),
		Meta:    f.meta,
		Bundle:  bundle,
	}); err != nil {
		log.Printf("could not write report result for %s: %v", f.t.Name(), err)
	}

	f.archive(status, message, bundle)

	if uploader.Enabled() && f.meta.TCID != "" {
		if err := uploader.UpdateResult(f.meta.TCID, status, message, time.Since(f.started)); err != nil {
			log.Printf("could not upload result for %s: %v", f.meta.TCID, err)
		}
	}

	f.session.Close()
}

func (f *fixture) archive(status, message string, bundle *report.Bundle) {
	if archiveRepo == nil || archiveRun == nil {
		return
	}
	resStatus, err := results.ParseStatus(status)
	if err != nil {
		return
	}
	res, err := results.NewTestResult(archiveRun, f.t.Name(), resStatus, time.Since(f.started))
	if err != nil {
		return
	}
	res.Message = message
	if bundle != nil {
		res.ScreenshotPath = bundle.ScreenshotPath
	}
	if err := archiveRepo.RecordResult(res); err != nil {
		log.Printf("could not archive result for %s: %v", f.t.Name(), err)
	}
	archiveRun.Record(resStatus)
}

// loginAs navigates to the login page and signs in with the given role's
// configured credentials, asserting the session reaches the dashboard.
func loginAs(t *testing.T, f *fixture, role string) {
	t.Helper()

	f.collector.Step("navigate to login page")
	require.NoError(t, f.login.Navigate())

	f.collector.Step("login as %s", role)
	require.NoError(t, f.login.LoginAsRole(settings, role))

	state, err := f.login.State()
	require.NoError(t, err, "login state check errored")
	require.Equal(t, page.LoggedIn, state, "login as %s failed", role)
}

// retry runs fn up to attempts times with a fixed delay between attempts.
// It lives above the page layer: individual page calls never retry.
func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
