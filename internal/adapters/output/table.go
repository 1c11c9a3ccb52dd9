// internal/adapters/output/table.go
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"reconflow/internal/core/domain"
)

// TableReporter renders a terminal-friendly summary of the report.
type TableReporter struct{}

// NewTable creates the table reporter.
func NewTable() *TableReporter { return &TableReporter{} }

func (r *TableReporter) Name() string { return "table" }

// Write prints the run summary, the findings table and recommendations.
func (r *TableReporter) Write(report *domain.Report, out io.Writer) error {
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)

	status := "complete"
	if !report.Complete {
		status = "partial"
	}

	fmt.Fprintf(w, "\n=== ReconFlow Report ===\n")
	fmt.Fprintf(w, "Target:\t%s\n", report.Target)
	fmt.Fprintf(w, "Workflow:\t%s\n", report.Workflow)
	fmt.Fprintf(w, "Status:\t%s\n", status)
	fmt.Fprintf(w, "Score:\t%d/100\n", report.Score)
	fmt.Fprintf(w, "Duration:\t%s\n", report.Elapsed.Round(10*time.Millisecond))
	fmt.Fprintf(w, "Findings:\t%d\n\n", len(report.Findings))

	if len(report.Findings) > 0 {
		fmt.Fprintln(w, "SEVERITY\tCATEGORY\tTOOL\tHOST\tDESCRIPTION")
		fmt.Fprintln(w, "--------\t--------\t----\t----\t-----------")
		for _, f := range report.Findings {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				f.Severity,
				f.Category,
				f.Tool,
				f.Host,
				truncate(f.Description, 80),
			)
		}
	} else {
		fmt.Fprintln(w, "No findings.")
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(out, "\nRecommendations (%d):\n", len(report.Recommendations))
		for i, rec := range report.Recommendations {
			fmt.Fprintf(out, "  %d. [%s] %s\n", i+1, rec.Severity, rec.Text)
		}
	}

	if failed := failedExecutions(report); len(failed) > 0 {
		fmt.Fprintf(out, "\nFailed invocations (%d):\n", len(failed))
		for i, rec := range failed {
			fmt.Fprintf(out, "  %d. %s on %s (%d attempts): %s\n",
				i+1, rec.Tool, rec.Host, rec.Attempts, rec.Error)
		}
	}

	counts := report.CountBySeverity()
	fmt.Fprintf(out, "\nSeverity breakdown: high=%d medium=%d low=%d info=%d\n\n",
		counts[domain.SeverityHigh],
		counts[domain.SeverityMedium],
		counts[domain.SeverityLow],
		counts[domain.SeverityInfo],
	)
	return nil
}

func failedExecutions(report *domain.Report) []domain.ExecutionRecord {
	var failed []domain.ExecutionRecord
	for _, rec := range report.Executions {
		if rec.State == domain.StateFailed {
			failed = append(failed, rec)
		}
	}
	return failed
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
