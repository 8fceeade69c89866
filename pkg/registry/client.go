package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mercator-hq/vendorgate/pkg/validation"
)

// Lookuper fetches a registry record by CR number.
type Lookuper interface {
	Lookup(ctx context.Context, crNumber string) (*Record, error)
}

// Config contains configuration for the registry client.
type Config struct {
	// BaseURL is the registry API root.
	// Default: https://api.wathq.sa
	BaseURL string

	// APIKey is sent in the apikey header.
	APIKey string

	// Timeout bounds each lookup.
	// Default: 15 seconds
	Timeout time.Duration
}

// DefaultConfig returns the default registry configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.wathq.sa",
		Timeout: 15 * time.Second,
	}
}

// Client calls the registry HTTP API.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a registry client. A nil httpClient uses a client with
// the configured timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger.With("component", "registry"),
	}
}

// Lookup fetches the full registration info for crNumber.
func (c *Client) Lookup(ctx context.Context, crNumber string) (*Record, error) {
	if c.config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	crNumber = strings.TrimSpace(crNumber)
	if crNumber == "" {
		return nil, fmt.Errorf("empty CR number")
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/commercial-registration/fullinfo/" + url.PathEscape(crNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("apikey", c.config.APIKey)

	c.logger.Info("fetching registry record", "cr_number", crNumber)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read registry response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("registry error response", "cr_number", crNumber, "status", resp.StatusCode)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	var raw map[string]any
	if err := validation.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	rec := recordFromRaw(raw)
	c.logger.Info("registry record fetched", "cr_number", crNumber, "company_name", rec.CompanyName)
	return rec, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
