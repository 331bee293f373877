package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rickgao/kalshi-trader/internal/auth"
)

// Default retry and timeout configuration.
const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxRetries          = 3 // 5xx and transport errors
	DefaultMaxRateLimitRetries = 5 // 429 responses
	DefaultRetryBackoff        = time.Second
)

// Client provides access to the Kalshi trading REST API. One Client owns one
// reusable HTTP connection pool for the life of the process.
type Client struct {
	baseURL    string
	signPath   string // URL path prefix included in signatures (e.g. /trade-api/v2)
	signer     *auth.Signer
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries          int
	maxRateLimitRetries int
	retryBackoff        time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. baseURL includes the versioned
// path prefix (e.g. https://api.elections.kalshi.com/trade-api/v2); the
// prefix is recovered from it for request signing.
func NewClient(baseURL string, signer *auth.Signer, opts ...ClientOption) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")

	signPath := ""
	if u, err := url.Parse(baseURL); err == nil {
		signPath = u.Path
	}

	c := &Client{
		baseURL:  baseURL,
		signPath: signPath,
		signer:   signer,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:              slog.Default(),
		maxRetries:          DefaultMaxRetries,
		maxRateLimitRetries: DefaultMaxRateLimitRetries,
		retryBackoff:        DefaultRetryBackoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the transient-failure retry configuration (5xx and
// transport errors).
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithRateLimitRetries sets the separate retry budget for 429 responses.
func WithRateLimitRetries(max int) ClientOption {
	return func(c *Client) {
		c.maxRateLimitRetries = max
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
