// Package execution submits source code to the remote execution provider and
// normalizes the outcome to a single result string.
package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/codehuddle/backend/internal/languages"
)

// DefaultEndpoint is the execution provider's API endpoint.
const DefaultEndpoint = "https://api.jdoodle.com/v1/execute"

// Config holds the provider endpoint and credentials.
type Config struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
}

// Client calls the execution provider over HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates an execution client. An empty Endpoint falls back to
// DefaultEndpoint.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type executeRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Script       string `json:"script"`
	Stdin        string `json:"stdin"`
	Language     string `json:"language"`
	VersionIndex string `json:"versionIndex"`
	CompileOnly  bool   `json:"compileOnly"`
}

// Output is a pointer to tell a missing field apart from an empty string:
// a program that printed nothing still has output "".
type executeResponse struct {
	Output *string `json:"output"`
	Error  string  `json:"error"`
}

// Run executes source against the provider and returns the result string to
// broadcast plus whether execution succeeded. Every failure mode is folded
// into the result string; Run never returns an error.
func (c *Client) Run(ctx context.Context, language, source, stdin string) (string, bool) {
	canonical := languages.Normalize(language)
	if !languages.Supported(canonical) {
		// No remote call for unsupported languages. The error carries the
		// name as the user typed it.
		return fmt.Sprintf("Error: Language %q not supported", language), false
	}

	body, err := json.Marshal(executeRequest{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		Script:       source,
		Stdin:        stdin,
		Language:     canonical,
		VersionIndex: languages.VersionIndex(canonical),
		CompileOnly:  false,
	})
	if err != nil {
		return "Error: " + err.Error(), false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "Error: " + err.Error(), false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "Error: " + err.Error(), false
	}
	defer resp.Body.Close()

	var result executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "Error: " + err.Error(), false
	}

	if result.Error != "" {
		return "Execution Error: " + result.Error, false
	}
	if result.Output == nil {
		return "No output", true
	}
	return *result.Output, true
}
