// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/platform/cache"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/registry"
)

// concGauge tracks in-flight calls across a set of adapters.
type concGauge struct {
	mu      sync.Mutex
	current int
	peak    int
}

func (g *concGauge) enter() {
	g.mu.Lock()
	g.current++
	if g.current > g.peak {
		g.peak = g.current
	}
	g.mu.Unlock()
}

func (g *concGauge) leave() {
	g.mu.Lock()
	g.current--
	g.mu.Unlock()
}

func (g *concGauge) max() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.peak
}

// stubAdapter is a scripted ToolAdapter for scheduler tests.
type stubAdapter struct {
	name string

	mu          sync.Mutex
	calls       int
	hosts       []string
	inFlight    int
	maxInFlight int

	// gauge, when set, measures concurrency across adapters
	gauge *concGauge

	// failures makes the first N calls fail before succeeding
	failures int
	// failWith overrides the default transient failure error
	failWith error
	// delay simulates work per call
	delay time.Duration
	// artifacts are attached to every successful result
	artifacts map[domain.ArtifactType][]string
	// data is the payload of every successful result
	data map[string]interface{}
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Run(ctx context.Context, req ports.ToolRequest) (*ports.ToolResult, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.hosts = append(s.hosts, req.Host)
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	s.mu.Unlock()

	if s.gauge != nil {
		s.gauge.enter()
		defer s.gauge.leave()
	}
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if call <= s.failures {
		if s.failWith != nil {
			return nil, s.failWith
		}
		return nil, errx.Transient(s.name, errors.New("simulated transient failure"))
	}

	data := s.data
	if data == nil {
		data = map[string]interface{}{"call": call}
	}
	return &ports.ToolResult{
		Tool:      s.name,
		Host:      req.Host,
		Data:      data,
		Artifacts: s.artifacts,
	}, nil
}

func (s *stubAdapter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubAdapter) seenHosts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.hosts))
	copy(out, s.hosts)
	return out
}

func (s *stubAdapter) peakConcurrency() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInFlight
}

// stubNormalizer emits one finding of the given severity per result.
func stubNormalizer(category domain.FindingCategory, severity domain.Severity) Normalizer {
	return func(res *ports.ToolResult) ([]domain.Finding, error) {
		f, err := domain.NewFinding(category, severity, res.Tool, res.Host, "stub finding", res.Data)
		if err != nil {
			return nil, err
		}
		return []domain.Finding{f}, nil
	}
}

// testHarness bundles a scheduler with its collaborators.
type testHarness struct {
	scheduler  *Scheduler
	registry   *registry.ToolRegistry
	aggregator *Aggregator
	store      cache.Store
}

type toolSpec struct {
	adapter    *stubAdapter
	idempotent bool
	severity   domain.Severity
	category   domain.FindingCategory
	produces   []domain.ArtifactType
}

func newHarness(policy domain.WorkflowPolicy, tools map[string]toolSpec) (*testHarness, error) {
	logger := logx.NewSilent()
	reg := registry.NewToolRegistry(logger)
	agg := NewAggregator(logger)
	store := cache.NewMemoryStore(64)

	for id, spec := range tools {
		if err := reg.Register(registry.Descriptor{
			ID:             id,
			Adapter:        spec.adapter,
			Idempotent:     spec.idempotent,
			RateClass:      "network",
			DefaultTimeout: time.Second,
			Produces:       spec.produces,
		}); err != nil {
			return nil, err
		}
		agg.RegisterNormalizer(id, stubNormalizer(spec.category, spec.severity))
	}
	reg.Freeze()

	sched, err := NewScheduler(SchedulerOptions{
		Registry:   reg,
		Planner:    passthroughPlanner{},
		Policy:     policy,
		Cache:      store,
		Aggregator: agg,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return &testHarness{scheduler: sched, registry: reg, aggregator: agg, store: store}, nil
}

// passthroughPlanner returns the policy stages untouched.
type passthroughPlanner struct{}

func (passthroughPlanner) Plan(ctx context.Context, target *domain.Target, policy domain.WorkflowPolicy) ([]domain.StageSpec, error) {
	return policy.Stages, nil
}

// fastPolicy builds a minimal policy for tests: tight retry delays, no
// stealth pauses, generous rate limits.
func fastPolicy(stages ...domain.StageSpec) domain.WorkflowPolicy {
	return domain.WorkflowPolicy{
		Name:   "test",
		Stages: stages,
		Retry:  domain.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond},
		RateLimits: map[string]domain.RateLimitSpec{
			"network": {Capacity: 100, RefillPerSecond: 1000},
		},
		CacheTTL:         map[string]time.Duration{},
		BreakerThreshold: 10,
		MaxSubdomains:    20,
		DorksLimit:       5,
	}
}

func recordFor(report *domain.Report, tool string) (domain.ExecutionRecord, bool) {
	for _, rec := range report.Executions {
		if rec.Tool == tool {
			return rec, true
		}
	}
	return domain.ExecutionRecord{}, false
}
