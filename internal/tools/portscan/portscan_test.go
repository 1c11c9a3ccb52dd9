// internal/tools/portscan/portscan_test.go
package portscan

import (
	"testing"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/testutil"
)

func TestParsePorts(t *testing.T) {
	got := parsePorts("80,443,8080")
	testutil.AssertEqual(t, len(got), 3, "parsed count")
	testutil.AssertEqual(t, got[0], 80, "first port")

	// duplicates collapse, out-of-range values are dropped
	got = parsePorts("22,22,0,70000,443")
	testutil.AssertEqual(t, len(got), 2, "deduped count")

	// garbage falls back to the default port list
	got = parsePorts("not,ports")
	testutil.AssertEqual(t, len(got), len(defaultPorts), "fallback to defaults")

	got = parsePorts("")
	testutil.AssertEqual(t, len(got), len(defaultPorts), "empty falls back to defaults")
}

func TestSeverityFor(t *testing.T) {
	cases := []struct {
		port int
		want domain.Severity
	}{
		{443, domain.SeverityInfo},
		{80, domain.SeverityInfo},
		{22, domain.SeverityLow},
		{3389, domain.SeverityHigh},
		{6379, domain.SeverityHigh},
		{25, domain.SeverityMedium},
	}
	for _, tc := range cases {
		testutil.AssertEqual(t, severityFor(tc.port), tc.want, "severity for port")
	}
}

func TestNormalizeOpenPorts(t *testing.T) {
	res := &ports.ToolResult{
		Tool: "port_scan",
		Host: "example.com",
		Data: map[string]interface{}{
			"open_ports": []int{443, 3306},
		},
	}

	findings, err := Normalize(res)
	testutil.AssertNoError(t, err, "normalize")
	testutil.AssertEqual(t, len(findings), 2, "finding count")

	testutil.AssertEqual(t, findings[0].Severity, domain.SeverityInfo, "443 severity")
	testutil.AssertEqual(t, findings[1].Severity, domain.SeverityHigh, "3306 severity")
	testutil.AssertEqual(t, findings[1].Payload["service"], "mysql", "service name")
	testutil.AssertEqual(t, findings[0].Category, domain.CategoryPort, "category")
}

func TestNormalizeCachedShape(t *testing.T) {
	// a cache round-trip through JSON turns []int into []interface{} of float64
	res := &ports.ToolResult{
		Tool: "port_scan",
		Host: "example.com",
		Data: map[string]interface{}{
			"open_ports": []interface{}{float64(22), float64(80)},
		},
	}

	findings, err := Normalize(res)
	testutil.AssertNoError(t, err, "normalize cached shape")
	testutil.AssertEqual(t, len(findings), 2, "finding count")
	testutil.AssertEqual(t, findings[0].Payload["port"], 22, "port value")
}

func TestNormalizeNoOpenPorts(t *testing.T) {
	res := &ports.ToolResult{
		Tool: "port_scan",
		Host: "example.com",
		Data: map[string]interface{}{},
	}

	findings, err := Normalize(res)
	testutil.AssertNoError(t, err, "normalize empty")
	testutil.AssertEqual(t, len(findings), 0, "no findings for no open ports")
}

func TestNormalizeBadShape(t *testing.T) {
	res := &ports.ToolResult{
		Tool: "port_scan",
		Host: "example.com",
		Data: map[string]interface{}{"open_ports": "443"},
	}

	_, err := Normalize(res)
	testutil.AssertError(t, err, "bad shape should error")
}
