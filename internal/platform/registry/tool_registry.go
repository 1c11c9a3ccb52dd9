// internal/platform/registry/tool_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

// Descriptor holds the execution metadata for one registered tool.
type Descriptor struct {
	// ID is the unique tool identifier
	ID string

	// Adapter is the implementation behind the descriptor
	Adapter ports.ToolAdapter

	// DefaultTimeout bounds a single attempt when the stage sets none
	DefaultTimeout time.Duration

	// RateClass names the token bucket class governing this tool
	RateClass string

	// Idempotent tools may serve and populate the result cache;
	// non-idempotent tools always execute
	Idempotent bool

	// Retryable widens the transient error classification for this
	// tool; nil means the default classification only
	Retryable func(error) bool

	// Produces lists artifact types this tool can feed back into scope
	Produces []domain.ArtifactType
}

// ToolRegistry maps tool identifiers to descriptors. Registration happens
// explicitly at startup; after Freeze the registry is read-only, so lookups
// during a run need no coordination beyond the read lock.
type ToolRegistry struct {
	mu     sync.RWMutex
	tools  map[string]Descriptor
	frozen bool
	logger logx.Logger
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry(logger logx.Logger) *ToolRegistry {
	if logger == nil {
		logger = logx.NewSilent()
	}
	return &ToolRegistry{
		tools:  make(map[string]Descriptor),
		logger: logger.With("component", "tool-registry"),
	}
}

// Register adds a descriptor. Duplicate IDs and registration after Freeze
// are configuration errors.
func (r *ToolRegistry) Register(desc Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errx.Wrap(errx.ErrConfiguration, "registry is frozen")
	}
	if desc.ID == "" {
		return errx.Wrap(errx.ErrConfiguration, "tool id cannot be empty")
	}
	if desc.Adapter == nil {
		return errx.Wrapf(errx.ErrConfiguration, "tool %s has no adapter", desc.ID)
	}
	if _, exists := r.tools[desc.ID]; exists {
		return errx.Wrapf(errx.ErrConfiguration, "tool %s is already registered", desc.ID)
	}
	if desc.DefaultTimeout <= 0 {
		desc.DefaultTimeout = 30 * time.Second
	}

	r.tools[desc.ID] = desc
	r.logger.Debug("tool registered",
		"id", desc.ID,
		"rate_class", desc.RateClass,
		"idempotent", desc.Idempotent,
	)
	return nil
}

// Freeze makes the registry read-only. Called once wiring is complete.
func (r *ToolRegistry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Resolve returns the descriptor for a tool identifier.
func (r *ToolRegistry) Resolve(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.tools[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", errx.ErrUnknownTool, id)
	}
	return desc, nil
}

// Has reports whether a tool identifier is registered.
func (r *ToolRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[id]
	return ok
}

// List returns the registered identifiers in sorted order.
func (r *ToolRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close releases resources held by adapters that own any.
func (r *ToolRegistry) Close() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for _, desc := range r.tools {
		if closer, ok := desc.Adapter.(ports.CloserAdapter); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, errx.Wrapf(err, "closing tool %s", desc.ID))
			}
		}
	}
	return errx.Join(errs...)
}
