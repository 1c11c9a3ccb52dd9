// internal/platform/ui/presenter.go
package ui

import (
	"time"

	"reconflow/internal/core/domain"
)

// Presenter renders run progress to the operator. Implementations must be
// safe for concurrent use: invocations within a stage finish in any order.
type Presenter interface {
	// Start begins the presentation with run information
	Start(info RunInfo)

	// StartStage announces a new stage
	StartStage(stage StageInfo)

	// FinishStage announces stage completion
	FinishStage(stageNum int, duration time.Duration)

	// FinishInvocation reports one terminal invocation
	FinishInvocation(tool, host string, state domain.InvocationState, duration time.Duration)

	// Info prints an informational message
	Info(msg string)

	// Warning prints a warning
	Warning(msg string)

	// Error prints an error
	Error(msg string)

	// Finish closes the presentation with final statistics
	Finish(stats RunStats)
}

// RunInfo describes a run about to start.
type RunInfo struct {
	Target      string
	Workflow    string
	TotalStages int
	Tools       []string
}

// StageInfo describes one stage.
type StageInfo struct {
	Number      int
	TotalStages int
	Name        string
	Tools       []string
	Critical    bool
}

// RunStats summarizes a finished run.
type RunStats struct {
	Findings   int
	Score      int
	Complete   bool
	CacheHits  int
	Failed     int
	Elapsed    time.Duration
	ReportPath string
}
