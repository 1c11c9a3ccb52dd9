// internal/tools/techdetect/techdetect.go

// Package techdetect fingerprints the technologies behind a web host from
// response headers and page markup.
package techdetect

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/httpclient"
	"reconflow/internal/platform/logx"
)

const toolName = "tech_detect"

// markupPatterns map substrings in script/link URLs to technology names.
var markupPatterns = map[string]string{
	"wp-content":   "WordPress",
	"wp-includes":  "WordPress",
	"jquery":       "jQuery",
	"bootstrap":    "Bootstrap",
	"react":        "React",
	"angular":      "Angular",
	"vue":          "Vue.js",
	"next/static":  "Next.js",
	"_nuxt":        "Nuxt.js",
	"drupal":       "Drupal",
	"joomla":       "Joomla",
	"shopify":      "Shopify",
	"gtag":         "Google Analytics",
	"cloudflare":   "Cloudflare",
	"font-awesome": "Font Awesome",
}

// headerPatterns map response header values to technology names.
var headerPatterns = map[string]string{
	"nginx":      "nginx",
	"apache":     "Apache",
	"iis":        "Microsoft IIS",
	"caddy":      "Caddy",
	"php":        "PHP",
	"express":    "Express",
	"asp.net":    "ASP.NET",
	"cloudflare": "Cloudflare",
}

// Tool fingerprints a host's web stack.
type Tool struct {
	client *httpclient.Client
	logger logx.Logger
}

// New creates the technology detection tool.
func New(client *httpclient.Client, logger logx.Logger) *Tool {
	return &Tool{
		client: client,
		logger: logger.With("tool", toolName),
	}
}

func (t *Tool) Name() string { return toolName }

// Run fetches the host root and collects technology evidence from headers,
// the generator meta tag and asset URLs.
func (t *Tool) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	resp, err := t.client.Get(ctx, "https://"+req.Host, nil)
	if err != nil {
		resp, err = t.client.Get(ctx, "http://"+req.Host, nil)
		if err != nil {
			return nil, errx.Transient(toolName, err)
		}
	}
	defer resp.Body.Close()

	detected := make(map[string]string) // technology -> evidence
	fromHeaders(resp.Header, detected)

	doc, parseErr := html.Parse(resp.Body)
	if parseErr == nil {
		fromMarkup(doc, detected)
	} else {
		t.logger.Debug("markup parse failed", "host", req.Host, "error", parseErr.Error())
	}

	technologies := make([]string, 0, len(detected))
	evidence := make(map[string]interface{}, len(detected))
	for tech, ev := range detected {
		technologies = append(technologies, tech)
		evidence[tech] = ev
	}

	t.logger.Debug("technologies detected", "host", req.Host, "count", len(technologies))

	return &ports.ToolResult{
		Tool: toolName,
		Host: req.Host,
		Data: map[string]interface{}{
			"technologies": technologies,
			"evidence":     evidence,
			"powered_by":   resp.Header.Get("X-Powered-By"),
		},
	}, nil
}

func fromHeaders(h http.Header, detected map[string]string) {
	for _, name := range []string{"Server", "X-Powered-By", "X-Generator"} {
		value := strings.ToLower(h.Get(name))
		if value == "" {
			continue
		}
		for pattern, tech := range headerPatterns {
			if strings.Contains(value, pattern) {
				detected[tech] = fmt.Sprintf("%s header", name)
			}
		}
	}
}

// fromMarkup walks the parsed document collecting the generator meta tag
// and known asset URL patterns.
func fromMarkup(node *html.Node, detected map[string]string) {
	if node.Type == html.ElementNode {
		switch node.Data {
		case "meta":
			if attr(node, "name") == "generator" {
				if content := attr(node, "content"); content != "" {
					detected[content] = "generator meta tag"
				}
			}
		case "script", "link", "img":
			src := attr(node, "src")
			if src == "" {
				src = attr(node, "href")
			}
			src = strings.ToLower(src)
			for pattern, tech := range markupPatterns {
				if strings.Contains(src, pattern) {
					detected[tech] = "asset URL"
				}
			}
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		fromMarkup(child, detected)
	}
}

func attr(node *html.Node, name string) string {
	for _, a := range node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
