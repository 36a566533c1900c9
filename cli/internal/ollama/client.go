// Package ollama provides an HTTP client for the Ollama API: the health check
// used by doctor and the single-shot /api/generate call that produces commit
// message candidates.
package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	_defaultCheckTimeout = 10 * time.Second

	// GenerateTimeout bounds a single generation request.
	GenerateTimeout = 45 * time.Second

	// DefaultBaseURL is where a local Ollama server listens.
	DefaultBaseURL = "http://localhost:11434"
)

// ErrUnreachable indicates the Ollama server could not be reached (connection refused or non-2xx).
var ErrUnreachable = errors.New("ollama server unreachable")

// Client calls the Ollama API. Zero value is not valid; use NewClient.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	checkTimeout    time.Duration
	generateTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithGenerateTimeout overrides GenerateTimeout.
func WithGenerateTimeout(d time.Duration) Option {
	return func(c *Client) { c.generateTimeout = d }
}

// CheckResult is the result of a health/model check.
type CheckResult struct {
	Reachable    bool     // Server responded with 200.
	ModelPresent bool     // Requested model name appears in the tags list.
	ModelNames   []string // All model names from /api/tags (for diagnostics).
}

// NewClient builds an Ollama client. baseURL is the API root (e.g. http://localhost:11434).
// If httpClient is nil, http.DefaultClient is used; deadlines come from the
// per-call timeouts rather than the http.Client.
func NewClient(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:         baseURL,
		httpClient:      httpClient,
		checkTimeout:    _defaultCheckTimeout,
		generateTimeout: GenerateTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Check verifies the server is reachable and whether the given model is present.
// A model without a tag matches its ":latest" variant. On connection/HTTP
// error the returned error wraps ErrUnreachable.
func (c *Client) Check(ctx context.Context, model string) (*CheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, errors.Wrap(err, "ollama tags request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrUnreachable, "ollama tags: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrUnreachable, "ollama tags: HTTP %d", resp.StatusCode)
	}
	var body tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "ollama tags: parse response")
	}
	names := make([]string, 0, len(body.Models))
	for _, m := range body.Models {
		names = append(names, m.Name)
	}
	return &CheckResult{
		Reachable:    true,
		ModelPresent: hasModel(names, model),
		ModelNames:   names,
	}, nil
}

func hasModel(names []string, model string) bool {
	for _, n := range names {
		if n == model || (!strings.Contains(model, ":") && n == model+":latest") {
			return true
		}
	}
	return false
}
