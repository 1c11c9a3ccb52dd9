// internal/core/domain/errors.go
package domain

import "errors"

// Common domain errors.
var (
	// Target errors
	ErrEmptyTarget   = errors.New("target cannot be empty")
	ErrInvalidTarget = errors.New("target is not a valid domain or IP")

	// Policy errors
	ErrUnknownWorkflow  = errors.New("unknown workflow name")
	ErrNoStages         = errors.New("workflow policy has no stages")
	ErrEmptyStage       = errors.New("stage has no tools")
	ErrInvalidRetry     = errors.New("invalid retry policy")
	ErrInvalidRateLimit = errors.New("invalid rate limit specification")

	// Run errors
	ErrRunCanceled     = errors.New("run was canceled")
	ErrCriticalFailure = errors.New("critical stage failed")

	// Finding errors
	ErrInvalidFinding = errors.New("invalid finding")
)
