// internal/adapters/output/json.go

// Package output renders finished reports: indented JSON for machines and
// files, a tabwriter table for terminals.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reconflow/internal/core/domain"
)

// JSONReporter renders the full report as indented JSON.
type JSONReporter struct{}

// NewJSON creates the JSON reporter.
func NewJSON() *JSONReporter { return &JSONReporter{} }

func (r *JSONReporter) Name() string { return "json" }

// Write encodes the report with two-space indentation.
func (r *JSONReporter) Write(report *domain.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteFile writes the report to <dir>/reconflow_<target>_<timestamp>.json
// and returns the path written.
func (r *JSONReporter) WriteFile(dir string, report *domain.Report) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("reconflow_%s_%s.json", sanitizeTarget(report.Target), timestamp)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := r.Write(report, f); err != nil {
		return "", err
	}
	return path, nil
}

// sanitizeTarget turns a target into a safe filename component.
// Example: "example.com" -> "example_com"
func sanitizeTarget(target string) string {
	sanitized := strings.ReplaceAll(target, ".", "_")
	sanitized = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, sanitized)
	return sanitized
}
