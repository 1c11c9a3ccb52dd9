// internal/tools/headers/normalize.go
package headers

import (
	"fmt"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

var missingSeverity = map[string]domain.Severity{
	"Strict-Transport-Security": domain.SeverityMedium,
	"Content-Security-Policy":   domain.SeverityMedium,
	"X-Frame-Options":           domain.SeverityLow,
	"X-Content-Type-Options":    domain.SeverityLow,
	"Referrer-Policy":           domain.SeverityLow,
	"Permissions-Policy":        domain.SeverityLow,
}

// Normalize converts a headers result into findings: one per missing
// security header, plus exposure notes for plain HTTP and verbose server
// banners.
func Normalize(res *ports.ToolResult) ([]domain.Finding, error) {
	findings := make([]domain.Finding, 0, 8)

	missing := toStrings(res.Data["missing"])
	for _, name := range missing {
		sev, known := missingSeverity[name]
		if !known {
			sev = domain.SeverityLow
		}
		f, err := domain.NewFinding(
			domain.CategoryHeader, sev, res.Tool, res.Host,
			fmt.Sprintf("missing security header %s on %s", name, res.Host),
			map[string]interface{}{"header": name},
		)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}

	if available, ok := res.Data["https_available"].(bool); ok && !available {
		f, _ := domain.NewFinding(
			domain.CategoryHeader, domain.SeverityMedium, res.Tool, res.Host,
			fmt.Sprintf("%s is only reachable over plain HTTP", res.Host),
			map[string]interface{}{"check": "https"},
		)
		findings = append(findings, f)
	}

	if server, ok := res.Data["server"].(string); ok && server != "" {
		f, _ := domain.NewFinding(
			domain.CategoryHeader, domain.SeverityLow, res.Tool, res.Host,
			fmt.Sprintf("server banner disclosed: %s", server),
			map[string]interface{}{"server": server},
		)
		findings = append(findings, f)
	}
	if powered, ok := res.Data["powered_by"].(string); ok && powered != "" {
		f, _ := domain.NewFinding(
			domain.CategoryHeader, domain.SeverityLow, res.Tool, res.Host,
			fmt.Sprintf("X-Powered-By disclosed: %s", powered),
			map[string]interface{}{"powered_by": powered},
		)
		findings = append(findings, f)
	}

	return findings, nil
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
