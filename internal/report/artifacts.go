package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/webtest-io/webtest/internal/browser"
	"github.com/webtest-io/webtest/internal/config"
)

// NetworkEntry is one captured request with its resolved response, if any.
type NetworkEntry struct {
	URL             string            `json:"url"`
	Method          string            `json:"method"`
	Status          int               `json:"status,omitempty"`
	RequestHeaders  map[string]string `json:"request_headers,omitempty"`
	ResponseHeaders map[string]string `json:"response_headers,omitempty"`
}

// Source is the capture surface the pipeline reads from. It is satisfied by
// the session adapter and by fakes in tests.
type Source interface {
	// ScreenshotTo writes a full-page screenshot to path.
	ScreenshotTo(path string) error
	// HTML returns the current page content.
	HTML() (string, error)
	// ConsoleMessages returns the captured console buffer.
	ConsoleMessages() []browser.ConsoleMessage
	// Network resolves the captured request buffer. Requests whose response
	// is no longer available are skipped.
	Network() []NetworkEntry
}

// Bundle is the write-once set of diagnostic artifacts captured for one
// failed test.
type Bundle struct {
	TestName       string
	ScreenshotPath string
	StepsLog       string
	ConsoleLog     string
	NetworkLog     string
	HTML           string
}

// Attachments lists the bundle's non-empty artifacts for report attachment.
func (b *Bundle) Attachments() []Attachment {
	var out []Attachment
	if b.ScreenshotPath != "" {
		out = append(out, Attachment{Name: "failure_screenshot", Path: b.ScreenshotPath, MediaType: "image/png"})
	}
	if b.StepsLog != "" {
		out = append(out, Attachment{Name: "test_steps", Body: []byte(b.StepsLog), MediaType: "text/plain"})
	}
	if b.ConsoleLog != "" {
		out = append(out, Attachment{Name: "console_logs", Body: []byte(b.ConsoleLog), MediaType: "text/plain"})
	}
	if b.NetworkLog != "" {
		out = append(out, Attachment{Name: "network_logs", Body: []byte(b.NetworkLog), MediaType: "application/json"})
	}
	if b.HTML != "" {
		out = append(out, Attachment{Name: "page_html", Body: []byte(b.HTML), MediaType: "text/html"})
	}
	return out
}

// Pipeline captures failure artifacts according to the suite settings.
type Pipeline struct {
	settings *config.Settings
	logOut   io.Writer
}

// NewPipeline creates a pipeline writing capture diagnostics to stdout.
func NewPipeline(settings *config.Settings) *Pipeline {
	return &Pipeline{settings: settings, logOut: os.Stdout}
}

// NewPipelineWithLog creates a pipeline with a custom diagnostics writer.
func NewPipelineWithLog(settings *config.Settings, logOut io.Writer) *Pipeline {
	return &Pipeline{settings: settings, logOut: logOut}
}

// CaptureFailure captures the artifact bundle for a failed test, persisting
// the collector's accumulated steps, console lines and network entries
// alongside the session's buffers. Capture is best-effort: individual steps
// degrade silently, and no error or panic from the capture sequence ever
// propagates to the caller. The returned bundle holds whatever was captured.
func (p *Pipeline) CaptureFailure(src Source, col *Collector, testName string) (bundle *Bundle) {
	bundle = &Bundle{TestName: testName}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(p.logOut, "error saving test artifacts for %s: %v\n", testName, r)
		}
	}()

	// Screenshot first: it is the most valuable artifact and the page may
	// degrade further while we collect the rest.
	path := filepath.Join(p.settings.ScreenshotsDir,
		fmt.Sprintf("failure_%s_%s.png", sanitizeName(testName), time.Now().Format("20060102_150405")))
	if err := os.MkdirAll(p.settings.ScreenshotsDir, 0o755); err != nil {
		fmt.Fprintf(p.logOut, "error creating screenshots directory: %v\n", err)
	} else if err := src.ScreenshotTo(path); err != nil {
		fmt.Fprintf(p.logOut, "error capturing failure screenshot for %s: %v\n", testName, err)
	} else {
		bundle.ScreenshotPath = path
	}

	if col != nil {
		if steps := col.Steps(); len(steps) > 0 {
			bundle.StepsLog = strings.Join(steps, "\n") + "\n"
		}
	}

	var sb strings.Builder
	for _, msg := range src.ConsoleMessages() {
		fmt.Fprintf(&sb, "[%s] [%s] %s\n", msg.Time.Format("2006-01-02 15:04:05"), msg.Type, msg.Text)
	}
	if col != nil {
		for _, line := range col.ConsoleLines() {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	if sb.Len() > 0 {
		bundle.ConsoleLog = sb.String()
	}

	entries := src.Network()
	if col != nil {
		entries = append(entries, col.NetworkEntries()...)
	}
	if len(entries) > 0 {
		blob, err := json.MarshalIndent(map[string][]NetworkEntry{"network_requests": entries}, "", "  ")
		if err != nil {
			fmt.Fprintf(p.logOut, "error serializing network log for %s: %v\n", testName, err)
		} else {
			bundle.NetworkLog = string(blob)
		}
	}

	// The page may have navigated away or closed; skip silently.
	if html, err := src.HTML(); err == nil {
		bundle.HTML = html
	}

	return bundle
}

// sessionSource adapts a browser session to the capture surface.
type sessionSource struct {
	session *browser.Session
}

// FromSession wraps a live session for artifact capture.
func FromSession(s *browser.Session) Source {
	return &sessionSource{session: s}
}

func (s *sessionSource) ScreenshotTo(path string) error {
	_, err := s.session.Page().Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (s *sessionSource) HTML() (string, error) {
	return s.session.Page().Content()
}

func (s *sessionSource) ConsoleMessages() []browser.ConsoleMessage {
	return s.session.ConsoleMessages()
}

func (s *sessionSource) Network() []NetworkEntry {
	var entries []NetworkEntry
	for _, req := range s.session.NetworkRequests() {
		entry := NetworkEntry{
			URL:    req.URL(),
			Method: req.Method(),
		}
		if headers, err := req.AllHeaders(); err == nil {
			entry.RequestHeaders = headers
		}
		// The driver connection may already be torn down; skip the response
		// rather than fail the capture.
		if resp, err := req.Response(); err == nil && resp != nil {
			entry.Status = resp.Status()
			if headers, err := resp.AllHeaders(); err == nil {
				entry.ResponseHeaders = headers
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func sanitizeName(name string) string {
	replacer := strings.NewReplacer("/", "_", " ", "_", ":", "_", "\\", "_")
	return replacer.Replace(name)
}
