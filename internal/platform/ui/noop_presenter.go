// internal/platform/ui/noop_presenter.go
package ui

import (
	"time"

	"reconflow/internal/core/domain"
)

// NoopPresenter discards all presentation calls. Used for quiet mode and
// in tests.
type NoopPresenter struct{}

func NewNoopPresenter() *NoopPresenter { return &NoopPresenter{} }

func (n *NoopPresenter) Start(RunInfo)                                                          {}
func (n *NoopPresenter) StartStage(StageInfo)                                                   {}
func (n *NoopPresenter) FinishStage(int, time.Duration)                                         {}
func (n *NoopPresenter) FinishInvocation(string, string, domain.InvocationState, time.Duration) {}
func (n *NoopPresenter) Info(string)                                                            {}
func (n *NoopPresenter) Warning(string)                                                         {}
func (n *NoopPresenter) Error(string)                                                           {}
func (n *NoopPresenter) Finish(RunStats)                                                        {}
