// Package testmanage uploads test results to an external test-management
// system. The client is optional: when the environment is unconfigured it
// degrades to a no-op so the suite never depends on the system being up.
package testmanage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client reports test results to a test-management system.
type Client interface {
	// UpdateResult records the outcome of one test case.
	UpdateResult(caseID, status, message string, elapsed time.Duration) error
	// Enabled reports whether results will actually be uploaded.
	Enabled() bool
}

// Config holds the connection settings for the result upload endpoint.
type Config struct {
	URL    string
	User   string
	APIKey string
}

// FromEnv builds the upload configuration from TESTRAIL_URL, TESTRAIL_USER
// and TESTRAIL_API_KEY. Missing values leave the client disabled.
func FromEnv(getenv func(string) string) Config {
	return Config{
		URL:    getenv("TESTRAIL_URL"),
		User:   getenv("TESTRAIL_USER"),
		APIKey: getenv("TESTRAIL_API_KEY"),
	}
}

// HTTPClient implements Client over the system's JSON API.
type HTTPClient struct {
	config     Config
	httpClient *http.Client
}

// New creates a result upload client. A config without a URL yields a
// disabled client whose UpdateResult is a no-op.
func New(cfg Config) *HTTPClient {
	return &HTTPClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether the client has an endpoint to talk to.
func (c *HTTPClient) Enabled() bool {
	return c.config.URL != ""
}

// resultPayload is the JSON body of one result update.
type resultPayload struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
	Elapsed string `json:"elapsed,omitempty"`
}

// UpdateResult posts one test outcome. Disabled clients return nil without
// any network call.
func (c *HTTPClient) UpdateResult(caseID, status, message string, elapsed time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	payload := resultPayload{Status: status, Comment: message}
	if elapsed > 0 {
		payload.Elapsed = fmt.Sprintf("%.0fs", elapsed.Seconds())
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	url := fmt.Sprintf("%s/index.php?/api/v2/add_result_for_case/%s", c.config.URL, caseID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.User, c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not upload result for case %s: %w", caseID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		blob, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("result upload for case %s failed with status %d: %s", caseID, resp.StatusCode, blob)
	}
	return nil
}
