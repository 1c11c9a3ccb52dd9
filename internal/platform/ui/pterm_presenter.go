// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"reconflow/internal/core/domain"
)

// PTermPresenter renders progress with colors and symbols in the terminal.
type PTermPresenter struct {
	mu           sync.Mutex
	totalStages  int
	runStartTime time.Time
}

// NewPTermPresenter creates a terminal presenter.
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{}
}

// Start prints the run header.
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalStages = info.TotalStages
	p.runStartTime = time.Now()

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("ReconFlow - Reconnaissance Workflows")

	pterm.Println()
	pterm.Printfln("Target:   %s", pterm.Cyan(info.Target))
	pterm.Printfln("Workflow: %s", pterm.Yellow(info.Workflow))
	pterm.Printfln("Stages:   %d", info.TotalStages)
	pterm.Printfln("Tools:    %v", info.Tools)
	pterm.Println()
}

// StartStage announces a stage.
func (p *PTermPresenter) StartStage(stage StageInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	label := fmt.Sprintf("Stage %d/%d: %s", stage.Number, stage.TotalStages, stage.Name)
	if stage.Critical {
		label += " " + pterm.Red("(critical)")
	}
	pterm.DefaultSection.Println(label)
}

// FinishStage announces stage completion.
func (p *PTermPresenter) FinishStage(stageNum int, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Success.Printfln("stage %d finished in %s", stageNum, duration.Round(time.Millisecond))
}

// FinishInvocation reports one terminal invocation.
func (p *PTermPresenter) FinishInvocation(tool, host string, state domain.InvocationState, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := fmt.Sprintf("%s %s (%s)", tool, host, duration.Round(time.Millisecond))
	switch state {
	case domain.StateSucceeded:
		pterm.Success.Println(line)
	case domain.StateCached:
		pterm.Info.Printfln("%s [cached]", line)
	case domain.StateFailed:
		pterm.Error.Println(line)
	case domain.StateSkipped:
		pterm.Warning.Printfln("%s [skipped]", line)
	default:
		pterm.Info.Println(line)
	}
}

func (p *PTermPresenter) Info(msg string)    { pterm.Info.Println(msg) }
func (p *PTermPresenter) Warning(msg string) { pterm.Warning.Println(msg) }
func (p *PTermPresenter) Error(msg string)   { pterm.Error.Println(msg) }

// Finish prints the run summary.
func (p *PTermPresenter) Finish(stats RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Println()
	pterm.DefaultSection.Println("Run Summary")

	status := pterm.Green("complete")
	if !stats.Complete {
		status = pterm.Red("incomplete")
	}

	pterm.Printfln("Status:     %s", status)
	pterm.Printfln("Findings:   %d", stats.Findings)
	pterm.Printfln("Score:      %s", scoreColor(stats.Score))
	pterm.Printfln("Cache hits: %d", stats.CacheHits)
	pterm.Printfln("Failed:     %d", stats.Failed)
	pterm.Printfln("Elapsed:    %s", stats.Elapsed.Round(time.Millisecond))
	if stats.ReportPath != "" {
		pterm.Printfln("Report:     %s", stats.ReportPath)
	}
}

func scoreColor(score int) string {
	s := fmt.Sprintf("%d/100", score)
	switch {
	case score >= 80:
		return pterm.Green(s)
	case score >= 50:
		return pterm.Yellow(s)
	default:
		return pterm.Red(s)
	}
}
