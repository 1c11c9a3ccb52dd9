// internal/tools/dnslookup/normalize.go
package dnslookup

import (
	"fmt"
	"strings"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

// Normalize turns a DNS result into findings: one informational finding
// per record type, plus low-severity findings for missing SPF and DMARC
// mail policies.
func Normalize(res *ports.ToolResult) ([]domain.Finding, error) {
	raw, ok := res.Data["records"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing records map")
	}

	findings := make([]domain.Finding, 0, len(raw)+2)
	var txt []string

	for label, v := range raw {
		values := toStrings(v)
		if len(values) == 0 {
			continue
		}
		if label == "TXT" {
			txt = values
		}
		f, err := domain.NewFinding(
			domain.CategoryDNS, domain.SeverityInfo, res.Tool, res.Host,
			fmt.Sprintf("%d %s record(s) for %s", len(values), label, res.Host),
			map[string]interface{}{"type": label, "values": values},
		)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}

	if _, hasMX := raw["MX"]; hasMX {
		if !hasTXTPrefix(txt, "v=spf1") {
			f, _ := domain.NewFinding(
				domain.CategoryDNS, domain.SeverityLow, res.Tool, res.Host,
				"mail is configured but no SPF record is published",
				map[string]interface{}{"check": "spf"},
			)
			findings = append(findings, f)
		}
		if !hasTXTPrefix(txt, "v=DMARC1") {
			f, _ := domain.NewFinding(
				domain.CategoryDNS, domain.SeverityLow, res.Tool, res.Host,
				"mail is configured but no DMARC policy is published",
				map[string]interface{}{"check": "dmarc"},
			)
			findings = append(findings, f)
		}
	}

	return findings, nil
}

func hasTXTPrefix(txt []string, prefix string) bool {
	for _, v := range txt {
		if strings.HasPrefix(strings.TrimSpace(v), prefix) {
			return true
		}
	}
	return false
}

func toStrings(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
