// internal/adapters/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reconflow/internal/core/domain"
)

func sampleReport() *domain.Report {
	report := domain.NewReport("example.com", domain.WorkflowStandard)
	f, _ := domain.NewFinding(domain.CategoryHeader, domain.SeverityMedium, "headers", "example.com",
		"missing Content-Security-Policy header", nil)
	report.Findings = append(report.Findings, f)
	report.Score = 90
	report.Executions = append(report.Executions, domain.ExecutionRecord{
		Tool: "headers", Stage: "web-recon", Host: "example.com",
		State: domain.StateSucceeded, Attempts: 1,
	})
	report.Finalize()
	return report
}

func TestJSONReporterWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSON().Write(sampleReport(), &buf); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["target"] != "example.com" {
		t.Errorf("target = %v, want example.com", decoded["target"])
	}
	if decoded["score"] != float64(90) {
		t.Errorf("score = %v, want 90", decoded["score"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("output should be indented")
	}
}

func TestJSONReporterWriteFile(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := NewJSON().WriteFile(tmpDir, sampleReport())
	if err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "reconflow_example_com_") {
		t.Errorf("filename should start with 'reconflow_example_com_', got %q", base)
	}
	if !strings.HasSuffix(base, ".json") {
		t.Errorf("filename should end with '.json', got %q", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	var decoded domain.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("file content is not valid JSON: %v", err)
	}
	if decoded.Target != "example.com" {
		t.Errorf("decoded target = %q, want example.com", decoded.Target)
	}
	if len(decoded.Findings) != 1 {
		t.Errorf("decoded findings = %d, want 1", len(decoded.Findings))
	}
}

func TestSanitizeTarget(t *testing.T) {
	cases := map[string]string{
		"example.com":     "example_com",
		"sub.example.com": "sub_example_com",
		"192.168.1.1":     "192_168_1_1",
		"weird host!":     "weird_host_",
	}
	for in, want := range cases {
		if got := sanitizeTarget(in); got != want {
			t.Errorf("sanitizeTarget(%q) = %q, want %q", in, got, want)
		}
	}
}
