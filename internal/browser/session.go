package browser

import (
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/webtest-io/webtest/internal/config"
)

// ConsoleMessage is one captured browser console entry.
type ConsoleMessage struct {
	Time time.Time
	Type string
	Text string
}

// Session owns one browser context and page, scoped to a single test. The
// page carries two append-only event buffers (console messages and network
// requests) populated by the driver's event dispatch.
type Session struct {
	settings *config.Settings
	context  playwright.BrowserContext
	page     playwright.Page

	mu       sync.Mutex
	console  []ConsoleMessage
	requests []playwright.Request
}

// NewSession creates a fresh context and page on the shared browser and
// wires the capture listeners. The caller owns the session and must call
// Close when the test ends.
func NewSession(l *Launcher) (*Session, error) {
	opts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  l.settings.Viewport.Width,
			Height: l.settings.Viewport.Height,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	}
	if l.settings.RecordVideo {
		opts.RecordVideo = &playwright.RecordVideo{
			Dir: l.settings.ResultsDir + "/videos",
		}
	}

	context, err := l.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	page.SetDefaultTimeout(float64(l.settings.DefaultTimeoutMs))

	s := &Session{
		settings: l.settings,
		context:  context,
		page:     page,
	}

	page.OnConsole(func(msg playwright.ConsoleMessage) {
		s.mu.Lock()
		s.console = append(s.console, ConsoleMessage{
			Time: time.Now(),
			Type: msg.Type(),
			Text: msg.Text(),
		})
		s.mu.Unlock()
	})
	page.OnRequest(func(req playwright.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()
	})

	return s, nil
}

// Page returns the live page handle.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Settings returns the configuration the session was created with.
func (s *Session) Settings() *config.Settings {
	return s.settings
}

// ConsoleMessages returns a snapshot of the captured console buffer.
func (s *Session) ConsoleMessages() []ConsoleMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ConsoleMessage, len(s.console))
	copy(out, s.console)
	return out
}

// NetworkRequests returns a snapshot of the captured request buffer.
func (s *Session) NetworkRequests() []playwright.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]playwright.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Close releases the page and then the context. It runs on every exit path,
// including assertion failures, and tolerates already-closed handles.
func (s *Session) Close() {
	if s.page != nil {
		s.page.Close()
	}
	if s.context != nil {
		s.context.Close()
	}
}
