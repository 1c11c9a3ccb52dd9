// internal/core/ports/tool.go
package ports

import (
	"context"

	"reconflow/internal/core/domain"
)

// ToolRequest carries everything an adapter needs for one invocation.
type ToolRequest struct {
	// Target is the root identifier of the run
	Target string

	// Host is the concrete host this invocation probes; equals Target
	// unless the scheduler fanned the tool out over discovered artifacts
	Host string

	// Args are resolved tool parameters (port list, limits, query hints)
	Args map[string]string
}

// ToolResult is the raw, tool-shaped output of one successful invocation.
// The aggregator normalizes Data into findings; Artifacts feed back into
// the target for later stages.
type ToolResult struct {
	Tool string `json:"tool"`
	Host string `json:"host"`

	// Data is the tool-specific payload, shaped by the adapter
	Data map[string]interface{} `json:"data"`

	// Artifacts are discovered values to merge into the target scope
	Artifacts map[domain.ArtifactType][]string `json:"artifacts,omitempty"`
}

// ToolAdapter is the primary port every tool implementation satisfies.
// Adapters return either a result or an error, never both; panics and
// malformed upstream responses must surface as errors.
type ToolAdapter interface {
	// Name returns the unique tool identifier (e.g. "dns", "port_scan")
	Name() string

	// Run executes the tool for one request, honoring ctx for cancellation
	Run(ctx context.Context, req ToolRequest) (*ToolResult, error)
}

// CloserAdapter is implemented by adapters that hold resources (browser
// sessions, connection pools) needing release at shutdown. Checked via
// type assertion.
type CloserAdapter interface {
	ToolAdapter
	Close() error
}
