// internal/tools/techdetect/normalize.go
package techdetect

import (
	"fmt"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

// Normalize emits one informational finding per detected technology, plus
// a version disclosure note when X-Powered-By carries version details.
func Normalize(res *ports.ToolResult) ([]domain.Finding, error) {
	technologies := toStrings(res.Data["technologies"])
	evidence, _ := res.Data["evidence"].(map[string]interface{})

	findings := make([]domain.Finding, 0, len(technologies)+1)
	for _, tech := range technologies {
		payload := map[string]interface{}{"technology": tech}
		if evidence != nil {
			payload["evidence"] = evidence[tech]
		}
		f, err := domain.NewFinding(
			domain.CategoryTechnology, domain.SeverityInfo, res.Tool, res.Host,
			fmt.Sprintf("technology detected on %s: %s", res.Host, tech),
			payload,
		)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}

	if powered, ok := res.Data["powered_by"].(string); ok && powered != "" {
		f, _ := domain.NewFinding(
			domain.CategoryTechnology, domain.SeverityLow, res.Tool, res.Host,
			fmt.Sprintf("runtime version disclosed via X-Powered-By: %s", powered),
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
