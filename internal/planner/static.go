// internal/planner/static.go

// Package planner provides execution planners. The static planner executes
// the policy's stages as written; alternative planners can be swapped in
// through the ports.Planner interface.
package planner

import (
	"context"

	"reconflow/internal/core/domain"
)

// Static passes the policy stages through unchanged, dropping only tools
// that cannot apply to the target (subdomain discovery against a bare IP).
type Static struct{}

// NewStatic creates the default planner.
func NewStatic() *Static { return &Static{} }

// Plan returns the policy stages, pruned for the target type.
func (s *Static) Plan(ctx context.Context, target *domain.Target, policy domain.WorkflowPolicy) ([]domain.StageSpec, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	if !target.IsIP {
		return policy.Stages, nil
	}

	// Domain-only tools make no sense against an IP target
	domainOnly := map[string]bool{
		"subdomains": true,
		"whois":      true,
		"dorks":      true,
	}

	stages := make([]domain.StageSpec, 0, len(policy.Stages))
	for _, stage := range policy.Stages {
		kept := make([]string, 0, len(stage.Tools))
		for _, tool := range stage.Tools {
			if !domainOnly[tool] {
				kept = append(kept, tool)
			}
		}
		if len(kept) > 0 {
			stage.Tools = kept
			stages = append(stages, stage)
		}
	}
	if len(stages) == 0 {
		return nil, domain.ErrNoStages
	}
	return stages, nil
}
