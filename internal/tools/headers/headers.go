// internal/tools/headers/headers.go

// Package headers fetches HTTP response headers and audits the security
// header posture of a host.
package headers

import (
	"context"
	"fmt"
	"net/http"

	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/httpclient"
	"reconflow/internal/platform/logx"
)

const toolName = "headers"

// securityHeaders are the headers a hardened web server is expected to
// send, with the severity of their absence.
var securityHeaders = []struct {
	Name     string
	Severity string
}{
	{"Strict-Transport-Security", "medium"},
	{"Content-Security-Policy", "medium"},
	{"X-Frame-Options", "low"},
	{"X-Content-Type-Options", "low"},
	{"Referrer-Policy", "low"},
	{"Permissions-Policy", "low"},
}

// Tool fetches response headers over HTTPS, falling back to HTTP.
type Tool struct {
	client *httpclient.Client
	logger logx.Logger
}

// New creates the headers tool.
func New(client *httpclient.Client, logger logx.Logger) *Tool {
	return &Tool{
		client: client,
		logger: logger.With("tool", toolName),
	}
}

func (t *Tool) Name() string { return toolName }

// Run requests the host root and records the headers seen plus the
// security headers that are missing.
func (t *Tool) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	resp, scheme, err := t.fetch(ctx, req.Host)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	got := make(map[string]interface{}, len(resp.Header))
	for name := range resp.Header {
		got[name] = resp.Header.Get(name)
	}

	missing := make([]string, 0, len(securityHeaders))
	for _, h := range securityHeaders {
		if resp.Header.Get(h.Name) == "" {
			missing = append(missing, h.Name)
		}
	}

	t.logger.Debug("headers fetched",
		"host", req.Host,
		"scheme", scheme,
		"status", resp.StatusCode,
		"missing", len(missing),
	)

	return &ports.ToolResult{
		Tool: toolName,
		Host: req.Host,
		Data: map[string]interface{}{
			"scheme":          scheme,
			"status":          resp.StatusCode,
			"headers":         got,
			"missing":         missing,
			"server":          resp.Header.Get("Server"),
			"powered_by":      resp.Header.Get("X-Powered-By"),
			"https_available": scheme == "https",
		},
	}, nil
}

// fetch tries HTTPS first and falls back to plain HTTP. Both failing is a
// transient failure.
func (t *Tool) fetch(ctx context.Context, host string) (*http.Response, string, error) {
	resp, httpsErr := t.client.Get(ctx, "https://"+host, nil)
	if httpsErr == nil {
		return resp, "https", nil
	}

	resp, httpErr := t.client.Get(ctx, "http://"+host, nil)
	if httpErr == nil {
		return resp, "http", nil
	}

	return nil, "", errx.Transient(toolName,
		fmt.Errorf("host unreachable over https (%v) and http (%v)", httpsErr, httpErr))
}
