// internal/tools/subdomains/subdomains.go

// Package subdomains discovers hostnames through Certificate Transparency
// logs (crt.sh).
package subdomains

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/httpclient"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/validator"
)

const toolName = "subdomains"

const defaultLimit = 100

// certRecord is the subset of a crt.sh entry we consume.
type certRecord struct {
	NameValue string `json:"name_value"`
}

// Tool queries crt.sh for certificates issued under the target domain.
type Tool struct {
	client *httpclient.Client
	logger logx.Logger
}

// New creates the subdomain discovery tool.
func New(client *httpclient.Client, logger logx.Logger) *Tool {
	return &Tool{
		client: client,
		logger: logger.With("tool", toolName),
	}
}

func (t *Tool) Name() string { return toolName }

// Run fetches the CT log entries and extracts in-scope hostnames, capped
// at the limit the policy resolved.
func (t *Tool) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	url := queryURL(req.Host)

	body, err := t.client.FetchJSON(ctx, url)
	if err != nil {
		return nil, errx.Transient(toolName, err)
	}

	var records []certRecord
	if err := json.Unmarshal(body, &records); err != nil {
		// crt.sh answers HTML when overloaded
		return nil, errx.Transient(toolName, errx.Wrap(errx.ErrInvalidResponse, err.Error()))
	}

	limit := defaultLimit
	if v, ok := req.Args["limit"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	names := extractNames(records, req.Host, limit)
	t.logger.Debug("subdomains discovered", "host", req.Host, "count", len(names))

	return &ports.ToolResult{
		Tool: toolName,
		Host: req.Host,
		Data: map[string]interface{}{
			"subdomains": names,
			"count":      len(names),
		},
		Artifacts: map[domain.ArtifactType][]string{
			domain.ArtifactSubdomain: names,
		},
	}, nil
}

// queryURL builds the crt.sh query. It asks at the registrable domain so
// certificates issued for siblings of a subdomain target still show up;
// extractNames scopes the answer back down to the requested host.
func queryURL(host string) string {
	return fmt.Sprintf("https://crt.sh/?q=%%25.%s&output=json", validator.RegistrableDomain(host))
}

// extractNames deduplicates the certificate names, keeping only valid
// hostnames under the root. Wildcard entries collapse to their base name.
func extractNames(records []certRecord, root string, limit int) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for _, line := range strings.Split(rec.NameValue, "\n") {
			name := validator.NormalizeDomain(line)
			if name == "" || name == root {
				continue
			}
			if !strings.HasSuffix(name, "."+root) {
				continue
			}
			if !validator.IsDomain(name) {
				continue
			}
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}
