// internal/tools/whoislookup/whoislookup.go

// Package whoislookup fetches and parses registration data for a domain.
package whoislookup

import (
	"context"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

const toolName = "whois"

// Tool queries WHOIS servers and parses the registration record.
type Tool struct {
	client *whois.Client
	logger logx.Logger
}

// New creates the WHOIS tool.
func New(logger logx.Logger) *Tool {
	client := whois.NewClient()
	client.SetTimeout(15 * time.Second)
	return &Tool{
		client: client,
		logger: logger.With("tool", toolName),
	}
}

func (t *Tool) Name() string { return toolName }

// Run fetches the WHOIS record. Network failures are transient; a domain
// whose TLD the parser cannot handle is fatal, retrying will not help.
func (t *Tool) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	type reply struct {
		raw string
		err error
	}
	done := make(chan reply, 1)
	go func() {
		raw, err := t.client.Whois(req.Host)
		done <- reply{raw: raw, err: err}
	}()

	var raw string
	select {
	case <-ctx.Done():
		return nil, errx.Transient(toolName, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, errx.Transient(toolName, r.err)
		}
		raw = r.raw
	}

	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return nil, errx.Fatal(toolName, errx.Wrap(errx.ErrInvalidResponse, err.Error()))
	}

	data := map[string]interface{}{
		"domain": req.Host,
	}
	if parsed.Registrar != nil {
		data["registrar"] = parsed.Registrar.Name
	}
	if parsed.Domain != nil {
		data["created"] = parsed.Domain.CreatedDate
		data["expires"] = parsed.Domain.ExpirationDate
		data["updated"] = parsed.Domain.UpdatedDate
		data["name_servers"] = parsed.Domain.NameServers
		data["status"] = parsed.Domain.Status
	}
	if parsed.Registrant != nil {
		data["registrant_name"] = parsed.Registrant.Name
		data["registrant_org"] = parsed.Registrant.Organization
		data["registrant_email"] = parsed.Registrant.Email
	}

	t.logger.Debug("whois parsed", "host", req.Host, "registrar", data["registrar"])
	return &ports.ToolResult{Tool: toolName, Host: req.Host, Data: data}, nil
}

// redacted reports whether a registrant field looks privacy-protected.
func redacted(v string) bool {
	v = strings.ToLower(v)
	for _, marker := range []string{"redacted", "privacy", "private", "withheld", "data protected"} {
		if strings.Contains(v, marker) {
			return true
		}
	}
	return false
}
