// Package httpclient provides the shared HTTP client used by web-facing
// tool adapters. It performs single-shot requests: retries, backoff and
// rate limiting are owned by the scheduler, so a surfaced error here is
// already classified for the retry executor to act on.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

// Client wraps http.Client with the default headers and timeout shared by
// all adapters.
type Client struct {
	httpClient *http.Client
	logger     logx.Logger
	config     Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the per-request timeout. Default: 30 seconds
	Timeout time.Duration

	// UserAgent is the User-Agent header value. Default: "reconflow/1.0"
	UserAgent string

	// FollowRedirects controls redirect handling. Default: true
	FollowRedirects bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		UserAgent:       "reconflow/1.0",
		FollowRedirects: true,
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "reconflow/1.0"
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
	}
	if !config.FollowRedirects {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Client{
		httpClient: httpClient,
		logger:     logger.With("component", "httpclient"),
		config:     config,
	}
}

// Request performs an HTTP request. Network failures and timeouts come back
// wrapped as transient; a malformed URL is fatal.
func (c *Client) Request(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s %s", method, url)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Debug("HTTP request failed",
			"method", method,
			"url", url,
			"error", err.Error(),
			"duration_ms", duration.Milliseconds(),
		)
		if isTimeout(err) {
			return nil, errors.Wrapf(errors.ErrTimeout, "%s %s", method, url)
		}
		return nil, errors.Wrapf(err, "%s %s", method, url)
	}

	c.logger.Debug("HTTP response",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.Request(ctx, http.MethodGet, url, nil, headers)
}

// GetJSON performs a GET request that expects a JSON response.
func (c *Client) GetJSON(ctx context.Context, url string) (*http.Response, error) {
	return c.Get(ctx, url, map[string]string{"Accept": "application/json"})
}

// FetchJSON performs a GET request, validates the status and returns the
// body bytes.
func (c *Client) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.GetJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, errors.Wrapf(err, "request to %s failed", url)
	}

	return ReadBody(resp)
}

// String returns a readable representation of the client configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, user_agent=%s}", c.config.Timeout, c.config.UserAgent)
}

// ReadBody reads the response body and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}
	return body, nil
}

// CheckStatus validates the HTTP status code, mapping failure classes onto
// the sentinel errors the retry executor understands.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return errors.ErrRateLimitExceeded
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway:
		return errors.ErrUnavailable
	default:
		return errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
