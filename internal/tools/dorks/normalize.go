// internal/tools/dorks/normalize.go
package dorks

import (
	"fmt"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
)

// Normalize emits one informational finding per generated query.
func Normalize(res *ports.ToolResult) ([]domain.Finding, error) {
	raw, ok := res.Data["queries"].([]map[string]interface{})
	if !ok {
		// queries survive a cache round-trip as []interface{}
		generic, genericOK := res.Data["queries"].([]interface{})
		if !genericOK {
			return nil, fmt.Errorf("missing queries list")
		}
		raw = make([]map[string]interface{}, 0, len(generic))
		for _, item := range generic {
			if m, isMap := item.(map[string]interface{}); isMap {
				raw = append(raw, m)
			}
		}
	}

	findings := make([]domain.Finding, 0, len(raw))
	for _, q := range raw {
		query, _ := q["query"].(string)
		purpose, _ := q["purpose"].(string)
		if query == "" {
			continue
		}
		f, err := domain.NewFinding(
			domain.CategoryOSINT, domain.SeverityInfo, res.Tool, res.Host,
			fmt.Sprintf("search query for %s: %s", purpose, query),
			map[string]interface{}{"query": query, "purpose": purpose},
		)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	return findings, nil
}
