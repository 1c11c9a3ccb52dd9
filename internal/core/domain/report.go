// internal/core/domain/report.go
package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Recommendation is a remediation suggestion derived from the findings.
type Recommendation struct {
	Category FindingCategory `json:"category"`
	Severity Severity        `json:"severity"`
	Text     string          `json:"text"`
}

// Report is the final artifact of a run: the deduplicated findings, the
// risk score, remediation recommendations and the per-invocation ledger.
type Report struct {
	ID       string       `json:"id"`
	Target   string       `json:"target"`
	Workflow WorkflowName `json:"workflow"`

	Findings        []Finding        `json:"findings"`
	Score           int              `json:"score"`
	Recommendations []Recommendation `json:"recommendations"`
	Executions      []ExecutionRecord `json:"executions"`

	// Complete is false when a critical-stage failure aborted the run;
	// partial results collected before the abort are still included.
	Complete bool `json:"complete"`

	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// NewReport starts an empty report for a run.
func NewReport(target string, workflow WorkflowName) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Target:    target,
		Workflow:  workflow,
		StartedAt: time.Now(),
		Complete:  true,
	}
}

// Finalize stamps the end time and orders findings by severity (highest
// first), then category, for stable presentation.
func (r *Report) Finalize() {
	r.FinishedAt = time.Now()
	r.Elapsed = r.FinishedAt.Sub(r.StartedAt)

	sort.SliceStable(r.Findings, func(i, j int) bool {
		if r.Findings[i].Severity.Rank() != r.Findings[j].Severity.Rank() {
			return r.Findings[i].Severity.Rank() > r.Findings[j].Severity.Rank()
		}
		return r.Findings[i].Category < r.Findings[j].Category
	})
}

// CountBySeverity tallies findings per severity level.
func (r *Report) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}
