// internal/tools/techdetect/techdetect_test.go
package techdetect

import (
	"testing"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/testutil"
)

func result(data map[string]interface{}) *ports.ToolResult {
	return &ports.ToolResult{Tool: "tech_detect", Host: "example.com", Data: data}
}

func TestNormalizeTechnologies(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"technologies": []string{"WordPress", "nginx"},
		"evidence": map[string]interface{}{
			"WordPress": "wp-content",
			"nginx":     "Server header",
		},
	}))
	testutil.AssertNoError(t, err, "normalize")
	testutil.AssertEqual(t, len(findings), 2, "finding count")

	testutil.AssertEqual(t, findings[0].Category, domain.CategoryTechnology, "category")
	testutil.AssertEqual(t, findings[0].Severity, domain.SeverityInfo, "severity")
	testutil.AssertEqual(t, findings[0].Payload["technology"], "WordPress", "technology payload")
	testutil.AssertEqual(t, findings[0].Payload["evidence"], "wp-content", "evidence payload")
}

func TestNormalizeVersionDisclosure(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{
		"technologies": []string{"PHP"},
		"powered_by":   "PHP/7.4.3",
	}))
	testutil.AssertNoError(t, err, "normalize")
	testutil.AssertEqual(t, len(findings), 2, "tech finding plus disclosure")
	testutil.AssertEqual(t, findings[1].Severity, domain.SeverityLow, "disclosure severity")
}

func TestNormalizeNothingDetected(t *testing.T) {
	findings, err := Normalize(result(map[string]interface{}{}))
	testutil.AssertNoError(t, err, "normalize")
	testutil.AssertEqual(t, len(findings), 0, "no findings when nothing detected")
}
