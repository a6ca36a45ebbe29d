// Package page translates semantic actions into calls against a live
// Playwright page handle. Every interaction applies the configured default
// timeout when none is supplied per call and performs exactly one attempt;
// retry policy belongs to callers.
package page

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/webtest-io/webtest/internal/config"
)

// Target addresses an element either by raw selector or by a pre-resolved
// locator handle.
type Target struct {
	selector string
	locator  playwright.Locator
}

// Sel builds a Target from a CSS selector.
func Sel(selector string) Target {
	return Target{selector: selector}
}

// Loc builds a Target from an existing locator.
func Loc(l playwright.Locator) Target {
	return Target{locator: l}
}

// TestID builds a Target addressing an element by its data-testid attribute.
func TestID(id string) Target {
	return Sel(fmt.Sprintf("[data-testid='%s']", id))
}

// String returns a printable description of the target for error messages.
func (t Target) String() string {
	if t.locator != nil {
		return "locator"
	}
	return t.selector
}

// CallOptions overrides per-call behavior. A zero TimeoutMs means the page's
// configured default timeout applies.
type CallOptions struct {
	TimeoutMs int
}

// Page wraps a live Playwright page handle together with the suite settings.
type Page struct {
	pw       playwright.Page
	settings *config.Settings
}

// New wraps a Playwright page.
func New(pw playwright.Page, settings *config.Settings) *Page {
	return &Page{pw: pw, settings: settings}
}

// Raw exposes the underlying Playwright page.
func (p *Page) Raw() playwright.Page {
	return p.pw
}

// URL returns the page's current URL.
func (p *Page) URL() string {
	return p.pw.URL()
}

// Navigate opens a path relative to the configured base URL and waits for
// the network to go idle.
func (p *Page) Navigate(path string) error {
	url := p.settings.BaseURL
	if path != "" {
		url = p.settings.BaseURL + "/" + strings.TrimLeft(path, "/")
	}
	if _, err := p.pw.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(p.settings.NavigationTimeout)),
	}); err != nil {
		return fmt.Errorf("could not navigate to %s: %w", url, err)
	}
	return p.WaitNetworkIdle()
}

// Click clicks an element.
func (p *Page) Click(target Target, opts ...CallOptions) error {
	if err := p.resolve(target).Click(playwright.LocatorClickOptions{
		Timeout: p.timeout(opts),
	}); err != nil {
		return fmt.Errorf("could not click %s: %w", target, err)
	}
	return nil
}

// Fill replaces the content of an input element with text.
func (p *Page) Fill(target Target, text string, opts ...CallOptions) error {
	if err := p.resolve(target).Fill(text, playwright.LocatorFillOptions{
		Timeout: p.timeout(opts),
	}); err != nil {
		return fmt.Errorf("could not fill %s: %w", target, err)
	}
	return nil
}

// Text returns the text content of an element.
func (p *Page) Text(target Target, opts ...CallOptions) (string, error) {
	text, err := p.resolve(target).TextContent(playwright.LocatorTextContentOptions{
		Timeout: p.timeout(opts),
	})
	if err != nil {
		return "", fmt.Errorf("could not read text of %s: %w", target, err)
	}
	return text, nil
}

// AllTexts returns the text content of every matching element.
func (p *Page) AllTexts(target Target) ([]string, error) {
	texts, err := p.resolve(target).AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("could not read texts of %s: %w", target, err)
	}
	return texts, nil
}

// Attribute returns an attribute value of an element.
func (p *Page) Attribute(target Target, name string, opts ...CallOptions) (string, error) {
	value, err := p.resolve(target).GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: p.timeout(opts),
	})
	if err != nil {
		return "", fmt.Errorf("could not read attribute %s of %s: %w", name, target, err)
	}
	return value, nil
}

// Visible reports whether an element is currently visible. It does not wait.
func (p *Page) Visible(target Target) (bool, error) {
	visible, err := p.resolve(target).IsVisible()
	if err != nil {
		return false, fmt.Errorf("could not check visibility of %s: %w", target, err)
	}
	return visible, nil
}

// Enabled reports whether an element is enabled.
func (p *Page) Enabled(target Target, opts ...CallOptions) (bool, error) {
	enabled, err := p.resolve(target).IsEnabled(playwright.LocatorIsEnabledOptions{
		Timeout: p.timeout(opts),
	})
	if err != nil {
		return false, fmt.Errorf("could not check enabled state of %s: %w", target, err)
	}
	return enabled, nil
}

// WaitVisible waits until an element is visible and returns its locator.
// A timeout surfaces as a driver error after a single attempt.
func (p *Page) WaitVisible(target Target, opts ...CallOptions) (playwright.Locator, error) {
	locator := p.resolve(target)
	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: p.timeout(opts),
	}); err != nil {
		return nil, fmt.Errorf("element %s did not become visible: %w", target, err)
	}
	return locator, nil
}

// WaitHidden waits until an element is hidden.
func (p *Page) WaitHidden(target Target, opts ...CallOptions) error {
	if err := p.resolve(target).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: p.timeout(opts),
	}); err != nil {
		return fmt.Errorf("element %s did not become hidden: %w", target, err)
	}
	return nil
}

// WaitURL waits for the page URL to match a glob pattern.
func (p *Page) WaitURL(pattern string, opts ...CallOptions) error {
	if err := p.pw.WaitForURL(pattern, playwright.PageWaitForURLOptions{
		Timeout: p.timeout(opts),
	}); err != nil {
		return fmt.Errorf("url did not match %s: %w", pattern, err)
	}
	return nil
}

// SelectOption selects a dropdown option by value.
func (p *Page) SelectOption(target Target, value string, opts ...CallOptions) error {
	if _, err := p.resolve(target).SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	}, playwright.LocatorSelectOptionOptions{
		Timeout: p.timeout(opts),
	}); err != nil {
		return fmt.Errorf("could not select %q in %s: %w", value, target, err)
	}
	return nil
}

// Hover moves the pointer over an element.
func (p *Page) Hover(target Target, opts ...CallOptions) error {
	if err := p.resolve(target).Hover(playwright.LocatorHoverOptions{
		Timeout: p.timeout(opts),
	}); err != nil {
		return fmt.Errorf("could not hover over %s: %w", target, err)
	}
	return nil
}

// Count returns the number of elements matching the target.
func (p *Page) Count(target Target) (int, error) {
	count, err := p.resolve(target).Count()
	if err != nil {
		return 0, fmt.Errorf("could not count %s: %w", target, err)
	}
	return count, nil
}

// Press sends a key press to the page, e.g. "Enter" or "Escape".
func (p *Page) Press(key string) error {
	if err := p.pw.Keyboard().Press(key); err != nil {
		return fmt.Errorf("could not press %q: %w", key, err)
	}
	return nil
}

// WaitNetworkIdle waits for in-flight network activity to settle, using the
// navigation timeout.
func (p *Page) WaitNetworkIdle() error {
	if err := p.pw.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(p.settings.NavigationTimeout)),
	}); err != nil {
		return fmt.Errorf("network did not go idle: %w", err)
	}
	return nil
}

// Screenshot saves a full-page screenshot into the screenshots directory and
// returns its path. Names are suffixed with a timestamp to stay unique.
func (p *Page) Screenshot(name string) (string, error) {
	if name == "" {
		name = "screenshot"
	}
	if err := os.MkdirAll(p.settings.ScreenshotsDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create screenshots directory: %w", err)
	}
	path := filepath.Join(p.settings.ScreenshotsDir,
		fmt.Sprintf("%s_%s.png", name, time.Now().Format("20060102_150405")))
	if _, err := p.pw.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("could not take screenshot: %w", err)
	}
	return path, nil
}

func (p *Page) resolve(target Target) playwright.Locator {
	if target.locator != nil {
		return target.locator
	}
	return p.pw.Locator(target.selector)
}

func (p *Page) timeout(opts []CallOptions) *float64 {
	for _, o := range opts {
		if o.TimeoutMs > 0 {
			return playwright.Float(float64(o.TimeoutMs))
		}
	}
	return playwright.Float(float64(p.settings.DefaultTimeoutMs))
}
