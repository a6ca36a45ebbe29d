package report

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/webtest-io/webtest/internal/config"
)

// WriteEnvironmentProperties writes the environment.properties side file the
// reporting dashboard reads once per run: environment tag, browser, headless
// flag, base URL, timeout and viewport.
func WriteEnvironmentProperties(dir string, settings *config.Settings) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create results directory: %w", err)
	}

	lines := []string{
		fmt.Sprintf("Environment=%s", settings.Environment),
		fmt.Sprintf("Browser=%s", settings.Browser),
		fmt.Sprintf("Headless=%t", settings.Headless),
		fmt.Sprintf("Base URL=%s", settings.BaseURL),
		fmt.Sprintf("Timeout=%d", settings.DefaultTimeoutMs),
		fmt.Sprintf("Viewport Width=%d", settings.Viewport.Width),
		fmt.Sprintf("Viewport Height=%d", settings.Viewport.Height),
		fmt.Sprintf("Go Version=%s", runtime.Version()),
		fmt.Sprintf("Operating System=%s", runtime.GOOS),
	}

	path := filepath.Join(dir, "environment.properties")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("could not write environment properties: %w", err)
	}
	return path, nil
}
