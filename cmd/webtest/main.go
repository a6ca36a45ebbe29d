package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/webtest-io/webtest/internal/browser"
	"github.com/webtest-io/webtest/internal/config"
	"github.com/webtest-io/webtest/internal/report"
)

var version = "0.1.0"

// EnvCommand returns the env command, printing the resolved configuration.
func EnvCommand() *cli.Command {
	return &cli.Command{
		Name:  "env",
		Usage: "Print the resolved suite configuration",
		Action: func(c *cli.Context) error {
			settings, err := config.Load(os.Getenv)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			fmt.Printf("Environment:        %s\n", settings.Environment)
			fmt.Printf("Base URL:           %s\n", settings.BaseURL)
			fmt.Printf("API Base URL:       %s\n", settings.APIBaseURL)
			fmt.Printf("Browser:            %s\n", settings.Browser)
			fmt.Printf("Headless:           %t\n", settings.Headless)
			fmt.Printf("Slow motion:        %dms\n", settings.SlowMoMs)
			fmt.Printf("Default timeout:    %dms\n", settings.DefaultTimeoutMs)
			fmt.Printf("Navigation timeout: %dms\n", settings.NavigationTimeout)
			fmt.Printf("Viewport:           %dx%d\n", settings.Viewport.Width, settings.Viewport.Height)
			fmt.Printf("Retry attempts:     %d\n", settings.RetryAttempts)
			fmt.Printf("Workers:            %d\n", settings.Workers)
			fmt.Printf("Results dir:        %s\n", settings.ResultsDir)
			fmt.Printf("Screenshots dir:    %s\n", settings.ScreenshotsDir)
			fmt.Printf("Strict:             %t\n", settings.Strict)
			for role, creds := range settings.Credentials {
				fmt.Printf("Credentials[%s]: %s / ********\n", role, creds.Email)
			}
			return nil
		},
	}
}

// ReportEnvCommand returns the report-env command, writing the
// environment.properties side file for the reporting dashboard.
func ReportEnvCommand() *cli.Command {
	return &cli.Command{
		Name:  "report-env",
		Usage: "Write environment.properties into the results directory",
		Action: func(c *cli.Context) error {
			settings, err := config.Load(os.Getenv)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			path, err := report.WriteEnvironmentProperties(settings.ResultsDir, settings)
			if err != nil {
				return err
			}
			log.Printf("Wrote %s", path)
			return nil
		},
	}
}

// InstallCommand returns the install command, downloading browser binaries.
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the Playwright driver and configured browser",
		Action: func(c *cli.Context) error {
			settings, err := config.Load(os.Getenv)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return browser.Install(settings.Browser)
		},
	}
}

// RunCommand returns the run command, executing the e2e suite with the
// browser knobs routed through environment variables.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the e2e suite",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "browser",
				Usage: "Browser engine to run on (chromium, firefox, webkit)",
			},
			&cli.BoolFlag{
				Name:  "headed",
				Usage: "Run with a visible browser window",
			},
			&cli.IntFlag{
				Name:  "slow-mo",
				Usage: "Slow down execution by the given milliseconds",
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "Only run tests matching this go test -run pattern",
			},
		},
		Action: func(c *cli.Context) error {
			env := os.Environ()
			if b := c.String("browser"); b != "" {
				if _, err := config.ParseBrowserName(b); err != nil {
					return err
				}
				env = append(env, "DEFAULT_BROWSER="+b)
			}
			if c.Bool("headed") {
				env = append(env, "HEADLESS=false")
			}
			if ms := c.Int("slow-mo"); ms > 0 {
				env = append(env, fmt.Sprintf("SLOW_MO=%d", ms))
			}

			args := []string{"test", "-tags", "e2e", "-count=1", "-v", "./e2e/..."}
			if p := c.String("pattern"); p != "" {
				args = append(args, "-run", p)
			}

			cmd := exec.Command("go", args...)
			cmd.Env = env
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			return cmd.Run()
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "webtest",
		Usage:   "Browser UI test automation suite",
		Version: version,
		Commands: []*cli.Command{
			EnvCommand(),
			ReportEnvCommand(),
			InstallCommand(),
			RunCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
