// internal/tools/headers/headers_test.go
package headers

import (
	"testing"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/testutil"
)

func result(data map[string]interface{}) *ports.ToolResult {
	return &ports.ToolResult{Tool: "headers", Host: "example.com", Data: data}
}

func TestNormalizeMissingHeaders(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"missing":         []string{"Strict-Transport-Security", "X-Frame-Options"},
		"https_available": true,
	}))
	testutil.AssertNoError(t, err, "normalize")
	testutil.AssertEqual(t, len(findings), 2, "finding count")

	testutil.AssertEqual(t, findings[0].Severity, domain.SeverityMedium, "HSTS severity")
	testutil.AssertEqual(t, findings[1].Severity, domain.SeverityLow, "XFO severity")
	testutil.AssertEqual(t, findings[0].Category, domain.CategoryHeader, "category")
	testutil.AssertEqual(t, findings[0].Payload["header"], "Strict-Transport-Security", "payload header")
}

func TestNormalizePlainHTTPOnly(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"https_available": false,
	}))
	testutil.AssertNoError(t, err, "normalize")
	testutil.AssertEqual(t, len(findings), 1, "finding count")
	testutil.AssertEqual(t, findings[0].Severity, domain.SeverityMedium, "plain http severity")
	testutil.AssertEqual(t, findings[0].Payload["check"], "https", "payload check")
}

func TestNormalizeBannerDisclosure(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"https_available": true,
		"server":          "nginx/1.18.0",
		"powered_by":      "PHP/7.4.3",
	}))
	testutil.AssertNoError(t, err, "normalize")
	testutil.AssertEqual(t, len(findings), 2, "finding count")
	for _, f := range findings {
		testutil.AssertEqual(t, f.Severity, domain.SeverityLow, "banner severity")
	}
}

func TestNormalizeCachedShape(t *testing.T) {
	// cache round-trip turns []string into []interface{}
	findings, err := Normalize(result(map[string]interface{}{
		"missing":         []interface{}{"Content-Security-Policy"},
		"https_available": true,
	}))
	testutil.AssertNoError(t, err, "normalize cached shape")
	testutil.AssertEqual(t, len(findings), 1, "finding count")
}

func TestNormalizeCleanHost(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"missing":         []string{},
		"https_available": true,
	}))
	testutil.AssertNoError(t, err, "normalize")
	testutil.AssertEqual(t, len(findings), 0, "hardened host produces no findings")
}
