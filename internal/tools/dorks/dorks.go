// internal/tools/dorks/dorks.go

// Package dorks builds search engine queries that surface indexed content
// worth reviewing for a target domain. The tool generates the query plan;
// running the queries through an engine is left to the operator, so no
// search API credential is required.
package dorks

import (
	"context"
	"fmt"
	"strconv"

	"reconflow/internal/core/ports"
	"reconflow/internal/platform/logx"
)

const toolName = "dorks"

// dorkTemplates pair a query pattern with what it tends to surface.
var dorkTemplates = []struct {
	Pattern string
	Purpose string
}{
	{"site:%s filetype:pdf", "indexed PDF documents"},
	{"site:%s filetype:xls OR filetype:xlsx", "indexed spreadsheets"},
	{"site:%s filetype:sql OR filetype:db", "exposed database dumps"},
	{"site:%s inurl:admin", "admin interfaces"},
	{"site:%s inurl:login", "login pages"},
	{"site:%s intitle:\"index of\"", "open directory listings"},
	{"site:%s ext:log", "exposed log files"},
	{"site:%s ext:env OR ext:ini OR ext:cfg", "exposed configuration files"},
	{"site:%s ext:bak OR ext:old OR ext:backup", "backup files"},
	{"site:%s inurl:wp-content", "WordPress installations"},
	{"site:%s intext:password", "pages mentioning passwords"},
	{"site:%s inurl:api", "API endpoints"},
	{"-site:%s intext:\"@%s\"", "e-mail addresses indexed off-site"},
	{"site:pastebin.com \"%s\"", "pastes referencing the domain"},
	{"site:github.com \"%s\"", "repositories referencing the domain"},
}

// Tool generates the dork query plan.
type Tool struct {
	logger logx.Logger
}

// New creates the dorks tool.
func New(logger logx.Logger) *Tool {
	return &Tool{logger: logger.With("tool", toolName)}
}

func (t *Tool) Name() string { return toolName }

// Run renders the templates for the target, capped at the policy limit.
func (t *Tool) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	limit := len(dorkTemplates)
	if v, ok := req.Args["limit"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	queries := make([]map[string]interface{}, 0, limit)
	for _, tpl := range dorkTemplates[:limit] {
		query := renderPattern(tpl.Pattern, req.Host)
		queries = append(queries, map[string]interface{}{
			"query":   query,
			"purpose": tpl.Purpose,
		})
	}

	t.logger.Debug("dork plan generated", "host", req.Host, "queries", len(queries))
	return &ports.ToolResult{
		Tool: toolName,
		Host: req.Host,
		Data: map[string]interface{}{"queries": queries},
	}, nil
}

// renderPattern substitutes every %s in the pattern with the host.
func renderPattern(pattern, host string) string {
	args := make([]interface{}, 0, 2)
	for i := 0; i < countVerbs(pattern); i++ {
		args = append(args, host)
	}
	return fmt.Sprintf(pattern, args...)
}

func countVerbs(pattern string) int {
	count := 0
	for i := 0; i+1 < len(pattern); i++ {
		if pattern[i] == '%' && pattern[i+1] == 's' {
			count++
		}
	}
	return count
}
