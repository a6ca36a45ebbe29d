package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment identifies the deployment the suite runs against.
type Environment string

// Supported environments
const (
	EnvDev     Environment = "dev"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

// ParseEnvironment validates an environment tag.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToLower(s)) {
	case EnvDev:
		return EnvDev, nil
	case EnvStaging:
		return EnvStaging, nil
	case EnvProd:
		return EnvProd, nil
	}
	return "", fmt.Errorf("unsupported environment: %q", s)
}

// BrowserName identifies a Playwright browser engine.
type BrowserName string

// Supported browsers
const (
	BrowserChromium BrowserName = "chromium"
	BrowserFirefox  BrowserName = "firefox"
	BrowserWebKit   BrowserName = "webkit"
)

// ParseBrowserName validates a browser tag.
func ParseBrowserName(s string) (BrowserName, error) {
	switch BrowserName(strings.ToLower(s)) {
	case BrowserChromium:
		return BrowserChromium, nil
	case BrowserFirefox:
		return BrowserFirefox, nil
	case BrowserWebKit:
		return BrowserWebKit, nil
	}
	return "", fmt.Errorf("unsupported browser: %q", s)
}

// Credentials is one role's login pair for the current environment.
type Credentials struct {
	Email    string
	Password string
}

// Viewport holds the browser window dimensions in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Settings is an immutable snapshot of the suite configuration, resolved
// once at process start. Every field has a documented default so loading
// cannot fail unless strict mode is enabled.
type Settings struct {
	Environment       Environment
	BaseURL           string
	Credentials       map[string]Credentials
	DefaultTimeoutMs  int
	NavigationTimeout int
	Browser           BrowserName
	Headless          bool
	SlowMoMs          int
	Viewport          Viewport
	RetryAttempts     int
	Workers           int
	APIBaseURL        string
	APITimeoutMs      int
	ResultsDir        string
	ScreenshotsDir    string
	RecordVideo       bool
	Strict            bool
}

// Default values substituted for unset environment variables.
const (
	DefaultBaseURLDev     = "https://dev-example.com"
	DefaultBaseURLStaging = "https://staging-example.com"
	DefaultBaseURLProd    = "https://example.com"
	DefaultTimeoutMs      = 30000
	DefaultNavTimeoutMs   = 60000
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultRetryAttempts  = 2
	DefaultWorkers        = 4
	DefaultAPITimeoutMs   = 10000
	DefaultResultsDir     = "test-results"
	DefaultScreenshotsDir = "test-results/screenshots"
)

// Roles with credentials resolved per environment.
var roles = []string{"admin", "standard"}

var defaultCredentials = map[string]Credentials{
	"admin":    {Email: "admin@example.com", Password: "admin123"},
	"standard": {Email: "user@example.com", Password: "user123"},
}

// Load resolves the settings snapshot from environment variables supplied by
// getenv. In non-strict mode every unset or malformed value falls back to its
// default; with WEBTEST_STRICT=true, malformed values and missing credentials
// become errors so misconfiguration fails fast instead of masking itself.
func Load(getenv func(string) string) (*Settings, error) {
	strict := parseBool(getenv("WEBTEST_STRICT"), false)

	env, err := ParseEnvironment(stringOr(getenv("TEST_ENV"), string(EnvDev)))
	if err != nil {
		if strict {
			return nil, err
		}
		env = EnvDev
	}

	browser, err := ParseBrowserName(stringOr(getenv("DEFAULT_BROWSER"), string(BrowserChromium)))
	if err != nil {
		if strict {
			return nil, err
		}
		browser = BrowserChromium
	}

	baseURL := baseURLFor(env, getenv)

	creds := make(map[string]Credentials, len(roles))
	for _, role := range roles {
		email := getenv(credentialVar(env, role, "EMAIL"))
		password := getenv(credentialVar(env, role, "PASSWORD"))
		if strict && (email == "" || password == "") {
			return nil, fmt.Errorf("missing credentials for role %q in environment %q (set %s and %s)",
				role, env, credentialVar(env, role, "EMAIL"), credentialVar(env, role, "PASSWORD"))
		}
		fallback := defaultCredentials[role]
		creds[role] = Credentials{
			Email:    stringOr(email, fallback.Email),
			Password: stringOr(password, fallback.Password),
		}
	}

	s := &Settings{
		Environment:    env,
		BaseURL:        baseURL,
		Credentials:    creds,
		Browser:        browser,
		Headless:       parseBool(getenv("HEADLESS"), true),
		RecordVideo:    parseBool(getenv("RECORD_VIDEO"), false),
		APIBaseURL:     stringOr(getenv("API_BASE_URL"), baseURL+"/api"),
		ResultsDir:     stringOr(getenv("RESULTS_DIR"), DefaultResultsDir),
		ScreenshotsDir: stringOr(getenv("SCREENSHOTS_DIR"), DefaultScreenshotsDir),
		Strict:         strict,
	}

	ints := []struct {
		name string
		dst  *int
		def  int
	}{
		{"DEFAULT_TIMEOUT", &s.DefaultTimeoutMs, DefaultTimeoutMs},
		{"NAVIGATION_TIMEOUT", &s.NavigationTimeout, DefaultNavTimeoutMs},
		{"SLOW_MO", &s.SlowMoMs, 0},
		{"VIEWPORT_WIDTH", &s.Viewport.Width, DefaultViewportWidth},
		{"VIEWPORT_HEIGHT", &s.Viewport.Height, DefaultViewportHeight},
		{"RETRY_ATTEMPTS", &s.RetryAttempts, DefaultRetryAttempts},
		{"PARALLEL_WORKERS", &s.Workers, DefaultWorkers},
		{"API_TIMEOUT", &s.APITimeoutMs, DefaultAPITimeoutMs},
	}
	for _, v := range ints {
		n, err := parseInt(getenv(v.name), v.def)
		if err != nil && strict {
			return nil, fmt.Errorf("invalid %s: %w", v.name, err)
		}
		*v.dst = n
	}

	if s.DefaultTimeoutMs <= 0 {
		s.DefaultTimeoutMs = DefaultTimeoutMs
	}
	if s.NavigationTimeout <= 0 {
		s.NavigationTimeout = DefaultNavTimeoutMs
	}

	return s, nil
}

// UserCredentials returns the login pair for a role. Unknown roles fail with
// a descriptive error before any browser interaction can happen.
func (s *Settings) UserCredentials(role string) (Credentials, error) {
	creds, ok := s.Credentials[role]
	if !ok {
		return Credentials{}, fmt.Errorf("no credentials configured for role %q in environment %q", role, s.Environment)
	}
	return creds, nil
}

// BrowserArgs returns engine-specific launch arguments.
func (s *Settings) BrowserArgs() []string {
	if s.Browser == BrowserChromium {
		return []string{"--disable-gpu", "--no-sandbox", "--disable-dev-shm-usage"}
	}
	return nil
}

func baseURLFor(env Environment, getenv func(string) string) string {
	switch env {
	case EnvStaging:
		return stringOr(getenv("STAGING_URL"), DefaultBaseURLStaging)
	case EnvProd:
		return stringOr(getenv("PROD_URL"), DefaultBaseURLProd)
	default:
		return stringOr(getenv("DEV_URL"), DefaultBaseURLDev)
	}
}

func credentialVar(env Environment, role, suffix string) string {
	roleTag := "USER"
	if role == "admin" {
		roleTag = "ADMIN"
	}
	return fmt.Sprintf("%s_%s_%s", strings.ToUpper(string(env)), roleTag, suffix)
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true")
}

func parseInt(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, err
	}
	return n, nil
}
