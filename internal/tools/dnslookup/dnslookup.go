// internal/tools/dnslookup/dnslookup.go

// Package dnslookup resolves the common record types for a target domain.
package dnslookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

const toolName = "dns"

var queryTypes = map[string]uint16{
	"A":    dns.TypeA,
	"AAAA": dns.TypeAAAA,
	"MX":   dns.TypeMX,
	"NS":   dns.TypeNS,
	"TXT":  dns.TypeTXT,
	"SOA":  dns.TypeSOA,
}

// Tool queries a recursive resolver for the standard record types.
type Tool struct {
	resolver string
	client   *dns.Client
	logger   logx.Logger
}

// New creates the DNS tool against the given resolver ("host:port").
func New(resolver string, logger logx.Logger) *Tool {
	if resolver == "" {
		resolver = "8.8.8.8:53"
	}
	return &Tool{
		resolver: resolver,
		client:   &dns.Client{Timeout: 5 * time.Second},
		logger:   logger.With("tool", toolName),
	}
}

func (t *Tool) Name() string { return toolName }

// Run resolves every query type and collects the answers. A resolver that
// answers nothing at all is a transient failure; empty record sets for
// individual types are normal.
func (t *Tool) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	records := make(map[string]interface{}, len(queryTypes))
	ips := make([]string, 0, 4)
	answered := false

	for label, qtype := range queryTypes {
		values, err := t.query(ctx, req.Host, qtype)
		if err != nil {
			t.logger.Debug("query failed", "host", req.Host, "type", label, "error", err.Error())
			continue
		}
		answered = true
		if len(values) == 0 {
			continue
		}
		records[label] = values
		if label == "A" || label == "AAAA" {
			ips = append(ips, values...)
		}
	}

	if !answered {
		return nil, errx.Transient(toolName, fmt.Errorf("resolver %s returned no answers for %s", t.resolver, req.Host))
	}

	res := &ports.ToolResult{
		Tool: toolName,
		Host: req.Host,
		Data: map[string]interface{}{"records": records},
	}
	if len(ips) > 0 {
		res.Artifacts = map[domain.ArtifactType][]string{domain.ArtifactIP: ips}
	}
	return res, nil
}

func (t *Tool) query(ctx context.Context, host string, qtype uint16) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	reply, _, err := t.client.ExchangeContext(ctx, msg, t.resolver)
	if err != nil {
		return nil, err
	}
	if reply.Rcode != dns.RcodeSuccess && reply.Rcode != dns.RcodeNameError {
		return nil, fmt.Errorf("rcode %s", dns.RcodeToString[reply.Rcode])
	}

	values := make([]string, 0, len(reply.Answer))
	for _, rr := range reply.Answer {
		switch record := rr.(type) {
		case *dns.A:
			values = append(values, record.A.String())
		case *dns.AAAA:
			values = append(values, record.AAAA.String())
		case *dns.MX:
			values = append(values, fmt.Sprintf("%d %s", record.Preference, strings.TrimSuffix(record.Mx, ".")))
		case *dns.NS:
			values = append(values, strings.TrimSuffix(record.Ns, "."))
		case *dns.TXT:
			values = append(values, strings.Join(record.Txt, ""))
		case *dns.SOA:
			values = append(values, strings.TrimSuffix(record.Ns, "."))
		}
	}
	return values, nil
}
