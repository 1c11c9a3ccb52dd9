// internal/core/domain/invocation.go
package domain

import "time"

// Invocation tracks one tool call against one host through its lifecycle.
// State transitions are linear per invocation; the scheduler is the only
// writer, so no locking is required.
type Invocation struct {
	Tool  string
	Stage string
	Host  string
	Args  map[string]string

	State    InvocationState
	Attempts int
	CacheHit bool
	Err      error

	StartedAt  time.Time
	FinishedAt time.Time
}

// NewInvocation returns a pending invocation for the given tool and host.
func NewInvocation(tool, stage, host string, args map[string]string) *Invocation {
	return &Invocation{
		Tool:  tool,
		Stage: stage,
		Host:  host,
		Args:  args,
		State: StatePending,
	}
}

// Transition moves the invocation to the next state. It panics on illegal
// moves out of a terminal state, which would indicate a scheduler bug.
func (inv *Invocation) Transition(next InvocationState) {
	if inv.State.IsTerminal() {
		panic("invocation: transition out of terminal state " + inv.State.String())
	}
	inv.State = next
}

// Duration returns the wall time of the invocation, zero when not finished.
func (inv *Invocation) Duration() time.Duration {
	if inv.StartedAt.IsZero() || inv.FinishedAt.IsZero() {
		return 0
	}
	return inv.FinishedAt.Sub(inv.StartedAt)
}

// Record freezes the invocation into an immutable execution record.
func (inv *Invocation) Record() ExecutionRecord {
	rec := ExecutionRecord{
		Tool:     inv.Tool,
		Stage:    inv.Stage,
		Host:     inv.Host,
		State:    inv.State,
		Attempts: inv.Attempts,
		CacheHit: inv.CacheHit,
		Duration: inv.Duration(),
	}
	if inv.Err != nil {
		rec.Error = inv.Err.Error()
	}
	return rec
}

// ExecutionRecord is the per-invocation summary attached to the final report.
type ExecutionRecord struct {
	Tool     string          `json:"tool"`
	Stage    string          `json:"stage"`
	Host     string          `json:"host"`
	State    InvocationState `json:"state"`
	Attempts int             `json:"attempts"`
	CacheHit bool            `json:"cache_hit,omitempty"`
	Duration time.Duration   `json:"duration_ns"`
	Error    string          `json:"error,omitempty"`
}
