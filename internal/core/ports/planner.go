// internal/core/ports/planner.go
package ports

import (
	"context"

	"reconflow/internal/core/domain"
)

// Planner decides the execution plan for a run. The default implementation
// passes the policy's stages through unchanged; smarter planners may
// reorder, prune or augment them based on the target.
type Planner interface {
	// Plan returns the ordered stages to execute for the target
	Plan(ctx context.Context, target *domain.Target, policy domain.WorkflowPolicy) ([]domain.StageSpec, error)
}
