// internal/core/domain/policy.go
package domain

import (
	"fmt"
	"time"
)

// StageSpec declares one stage of a workflow: a set of tools that may run
// concurrently once every critical invocation of the previous stage is
// terminal.
type StageSpec struct {
	// Name is a short descriptive label for the stage
	Name string `yaml:"name"`

	// Tools lists the tool identifiers to invoke in this stage
	Tools []string `yaml:"tools"`

	// Concurrency bounds how many invocations of this stage run in parallel
	Concurrency int `yaml:"concurrency"`

	// Timeout is the per-tool timeout; zero falls back to the tool default
	Timeout time.Duration `yaml:"timeout"`

	// Critical aborts the remaining stages when any invocation here fails
	Critical bool `yaml:"critical"`
}

// RetryPolicy configures the retry executor.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget per invocation (first try included)
	MaxAttempts int `yaml:"max_attempts"`

	// BaseDelay seeds the exponential backoff: base * 2^attempt + jitter(0, base)
	BaseDelay time.Duration `yaml:"base_delay"`
}

// RateLimitSpec configures the token bucket for one rate class.
type RateLimitSpec struct {
	Capacity        int     `yaml:"capacity"`
	RefillPerSecond float64 `yaml:"refill_per_second"`
}

// StealthSpec adds an inter-call delay with jitter, used by the stealth
// workflow to spread calls out over time.
type StealthSpec struct {
	Delay  time.Duration `yaml:"delay"`
	Jitter time.Duration `yaml:"jitter"`
}

// WorkflowPolicy is the declarative configuration for one run: which tools
// execute, in which stages, with what concurrency, timing and resilience.
type WorkflowPolicy struct {
	Name   WorkflowName `yaml:"name"`
	Stages []StageSpec  `yaml:"stages"`

	Retry      RetryPolicy              `yaml:"retry"`
	RateLimits map[string]RateLimitSpec `yaml:"rate_limits"`

	// CacheTTL is the per-tool freshness window for cached results
	CacheTTL map[string]time.Duration `yaml:"cache_ttl"`

	// BreakerThreshold opens the per-tool circuit after this many
	// consecutive terminal failures within a run
	BreakerThreshold int `yaml:"breaker_threshold"`

	Stealth StealthSpec `yaml:"stealth"`

	// Tool parameter overrides
	Ports         []int `yaml:"ports"`
	MaxSubdomains int   `yaml:"max_subdomains"`
	DorksLimit    int   `yaml:"dorks_limit"`
}

// defaultRateLimits are shared by every built-in policy. Quota-limited
// classes get small buckets; local network probes get generous ones.
func defaultRateLimits() map[string]RateLimitSpec {
	return map[string]RateLimitSpec{
		"network":  {Capacity: 10, RefillPerSecond: 5},
		"api":      {Capacity: 2, RefillPerSecond: 0.5},
		"external": {Capacity: 1, RefillPerSecond: 0.2},
	}
}

func defaultCacheTTL() map[string]time.Duration {
	return map[string]time.Duration{
		"dns":         15 * time.Minute,
		"whois":       24 * time.Hour,
		"subdomains":  time.Hour,
		"port_scan":   10 * time.Minute,
		"headers":     15 * time.Minute,
		"tech_detect": time.Hour,
		"ssl_scan":    time.Hour,
		"dorks":       6 * time.Hour,
	}
}

// BuiltinPolicy returns the named built-in workflow policy.
func BuiltinPolicy(name WorkflowName) (WorkflowPolicy, error) {
	base := WorkflowPolicy{
		Name:             name,
		Retry:            RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second},
		RateLimits:       defaultRateLimits(),
		CacheTTL:         defaultCacheTTL(),
		BreakerThreshold: 3,
		MaxSubdomains:    100,
		DorksLimit:       10,
	}

	switch name {
	case WorkflowQuick:
		base.Ports = []int{80, 443, 8080, 8443}
		base.MaxSubdomains = 20
		base.DorksLimit = 5
		base.Stages = []StageSpec{
			{Name: "domain-intel", Tools: []string{"dns", "whois"}, Concurrency: 2, Critical: true},
			{Name: "web-recon", Tools: []string{"headers", "tech_detect"}, Concurrency: 2},
			{Name: "network-recon", Tools: []string{"port_scan"}, Concurrency: 1},
		}

	case WorkflowStandard:
		base.Stages = []StageSpec{
			{Name: "domain-intel", Tools: []string{"dns", "whois"}, Concurrency: 2, Critical: true},
			{Name: "discovery", Tools: []string{"subdomains"}, Concurrency: 1},
			{Name: "web-recon", Tools: []string{"headers", "tech_detect", "screenshot"}, Concurrency: 3},
			{Name: "network-recon", Tools: []string{"port_scan", "ssl_scan"}, Concurrency: 2},
			{Name: "osint", Tools: []string{"dorks"}, Concurrency: 1},
		}

	case WorkflowDeep:
		base.MaxSubdomains = 200
		base.DorksLimit = 20
		base.Stages = []StageSpec{
			{Name: "domain-intel", Tools: []string{"dns", "whois"}, Concurrency: 2, Critical: true},
			{Name: "discovery", Tools: []string{"subdomains"}, Concurrency: 1, Critical: true},
			{Name: "web-recon", Tools: []string{"headers", "tech_detect", "screenshot"}, Concurrency: 4},
			{Name: "network-recon", Tools: []string{"port_scan", "ssl_scan"}, Concurrency: 4},
			{Name: "osint", Tools: []string{"dorks"}, Concurrency: 1},
		}

	case WorkflowStealth:
		// Serial execution with spread-out calls to minimize detection
		base.Stealth = StealthSpec{Delay: 2 * time.Second, Jitter: 500 * time.Millisecond}
		base.MaxSubdomains = 50
		base.DorksLimit = 5
		base.Stages = []StageSpec{
			{Name: "domain-intel", Tools: []string{"dns", "whois"}, Concurrency: 1, Critical: true},
			{Name: "discovery", Tools: []string{"subdomains"}, Concurrency: 1},
			{Name: "web-recon", Tools: []string{"headers"}, Concurrency: 1},
			{Name: "osint", Tools: []string{"dorks"}, Concurrency: 1},
		}

	case WorkflowComprehensive:
		base.MaxSubdomains = 200
		base.DorksLimit = 20
		base.Stages = []StageSpec{
			{Name: "domain-intel", Tools: []string{"dns", "whois"}, Concurrency: 2, Critical: true},
			{Name: "discovery", Tools: []string{"subdomains"}, Concurrency: 1, Critical: true},
			{Name: "web-recon", Tools: []string{"headers", "tech_detect", "screenshot"}, Concurrency: 4},
			{Name: "network-recon", Tools: []string{"port_scan", "ssl_scan"}, Concurrency: 4},
			{Name: "osint", Tools: []string{"dorks"}, Concurrency: 2},
		}

	case WorkflowTargeted:
		// Focused on the web surface: no broad network sweep
		base.Stages = []StageSpec{
			{Name: "domain-intel", Tools: []string{"dns"}, Concurrency: 1, Critical: true},
			{Name: "web-recon", Tools: []string{"headers", "tech_detect", "screenshot"}, Concurrency: 3},
			{Name: "transport", Tools: []string{"ssl_scan"}, Concurrency: 1},
		}

	default:
		return WorkflowPolicy{}, fmt.Errorf("%w: %s", ErrUnknownWorkflow, name)
	}

	return base, nil
}

// Validate verifies the policy is structurally sound. Tool registration is
// checked separately at scheduler construction.
func (p *WorkflowPolicy) Validate() error {
	if len(p.Stages) == 0 {
		return ErrNoStages
	}
	for i, stage := range p.Stages {
		if len(stage.Tools) == 0 {
			return fmt.Errorf("%w: stage %d (%s)", ErrEmptyStage, i, stage.Name)
		}
		if stage.Concurrency < 0 {
			return fmt.Errorf("%w: stage %d has negative concurrency", ErrInvalidRetry, i)
		}
	}
	if p.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1", ErrInvalidRetry)
	}
	if p.Retry.BaseDelay < 0 {
		return fmt.Errorf("%w: negative base delay", ErrInvalidRetry)
	}
	for class, spec := range p.RateLimits {
		if spec.Capacity <= 0 || spec.RefillPerSecond <= 0 {
			return fmt.Errorf("%w: class %s", ErrInvalidRateLimit, class)
		}
	}
	return nil
}

// ToolNames returns the distinct tools referenced across all stages.
func (p *WorkflowPolicy) ToolNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, stage := range p.Stages {
		for _, tool := range stage.Tools {
			if !seen[tool] {
				seen[tool] = true
				names = append(names, tool)
			}
		}
	}
	return names
}

// FilterTools removes the named tools from every stage, dropping stages
// that end up empty. Used to honor per-tool enable/disable flags.
func (p *WorkflowPolicy) FilterTools(disabled map[string]bool) {
	if len(disabled) == 0 {
		return
	}

	stages := make([]StageSpec, 0, len(p.Stages))
	for _, stage := range p.Stages {
		kept := make([]string, 0, len(stage.Tools))
		for _, tool := range stage.Tools {
			if !disabled[tool] {
				kept = append(kept, tool)
			}
		}
		if len(kept) > 0 {
			stage.Tools = kept
			stages = append(stages, stage)
		}
	}
	p.Stages = stages
}

// TTLFor returns the cache TTL for a tool, zero when none is configured.
func (p *WorkflowPolicy) TTLFor(tool string) time.Duration {
	return p.CacheTTL[tool]
}
