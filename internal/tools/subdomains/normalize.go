// internal/tools/subdomains/normalize.go
package subdomains

import (
	"fmt"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

// Normalize emits one informational finding per discovered subdomain plus
// a count summary. Each subdomain is its own finding so repeated runs
// dedupe per hostname rather than per batch.
func Normalize(res *ports.ToolResult) ([]domain.Finding, error) {
	names := toStrings(res.Data["subdomains"])

	findings := make([]domain.Finding, 0, len(names)+1)
	for _, name := range names {
		f, err := domain.NewFinding(
			domain.CategorySubdomain, domain.SeverityInfo, res.Tool, res.Host,
			fmt.Sprintf("subdomain discovered: %s", name),
			map[string]interface{}{"subdomain": name},
		)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}

	summary, err := domain.NewFinding(
		domain.CategorySubdomain, domain.SeverityInfo, res.Tool, res.Host,
		fmt.Sprintf("%d subdomains discovered for %s", len(names), res.Host),
		map[string]interface{}{"count": len(names)},
	)
	if err != nil {
		return nil, err
	}
	return append(findings, summary), nil
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
