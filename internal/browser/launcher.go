// Package browser manages Playwright driver, browser, context and page
// lifecycles for the test suite. Acquisition nests browser → context → page
// and release always happens in reverse order.
package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/webtest-io/webtest/internal/config"
)

// Launcher owns the Playwright driver and a single browser instance shared
// by every test in the process. Tests never touch the browser concurrently
// because they execute one at a time per worker process.
type Launcher struct {
	settings *config.Settings
	pw       *playwright.Playwright
	browser  playwright.Browser
}

// Launch starts the Playwright driver and launches the configured browser.
func Launch(settings *config.Settings) (*Launcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright driver: %w", err)
	}

	browserType, err := browserTypeFor(pw, settings.Browser)
	if err != nil {
		pw.Stop()
		return nil, err
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(settings.Headless),
		SlowMo:   playwright.Float(float64(settings.SlowMoMs)),
		Args:     settings.BrowserArgs(),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch %s: %w", settings.Browser, err)
	}

	return &Launcher{settings: settings, pw: pw, browser: b}, nil
}

// Settings returns the configuration the launcher was created with.
func (l *Launcher) Settings() *config.Settings {
	return l.settings
}

// Browser exposes the underlying browser for session creation.
func (l *Launcher) Browser() playwright.Browser {
	return l.browser
}

// Close shuts the browser down and stops the Playwright driver.
func (l *Launcher) Close() error {
	var firstErr error
	if l.browser != nil {
		if err := l.browser.Close(); err != nil {
			firstErr = fmt.Errorf("could not close browser: %w", err)
		}
	}
	if l.pw != nil {
		if err := l.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not stop playwright driver: %w", err)
		}
	}
	return firstErr
}

// Install downloads the browser binaries and driver for the configured
// engine. Safe to call repeatedly; already installed browsers are kept.
func Install(name config.BrowserName) error {
	if err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{string(name)},
	}); err != nil {
		return fmt.Errorf("could not install playwright browsers: %w", err)
	}
	return nil
}

func browserTypeFor(pw *playwright.Playwright, name config.BrowserName) (playwright.BrowserType, error) {
	switch name {
	case config.BrowserChromium:
		return pw.Chromium, nil
	case config.BrowserFirefox:
		return pw.Firefox, nil
	case config.BrowserWebKit:
		return pw.WebKit, nil
	}
	return nil, fmt.Errorf("unsupported browser: %q", name)
}
