// internal/core/usecases/scheduler.go
package usecases

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"reconflow/internal/core/domain"
	"reconflow/internal/core/ports"
	"reconflow/internal/platform/cache"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/rate"
	"reconflow/internal/platform/registry"
	"reconflow/internal/platform/resilience"
	"reconflow/internal/platform/ui"
)

// Scheduler drives a workflow run: it plans the stages, executes each
// stage's invocations under the concurrency bound, and routes every call
// through the cache, the rate limiter and the retry executor. Stages run
// strictly in order; a failed critical stage aborts the rest of the run.
type Scheduler struct {
	registry   *registry.ToolRegistry
	planner    ports.Planner
	policy     domain.WorkflowPolicy
	cache      cache.Store
	limiter    *rate.Limiter
	retry      *resilience.Executor
	aggregator *Aggregator
	scoring    *ScoringEngine
	presenter  ui.Presenter
	logger     logx.Logger
}

// SchedulerOptions configures a scheduler.
type SchedulerOptions struct {
	Registry   *registry.ToolRegistry
	Planner    ports.Planner
	Policy     domain.WorkflowPolicy
	Cache      cache.Store
	Aggregator *Aggregator
	Presenter  ui.Presenter
	Logger     logx.Logger
}

// NewScheduler validates the policy against the registry and wires the
// execution machinery. Every tool the policy references must already be
// registered: a dangling reference is a configuration error, not a
// runtime surprise.
func NewScheduler(opts SchedulerOptions) (*Scheduler, error) {
	if opts.Registry == nil {
		return nil, errx.Wrap(errx.ErrConfiguration, "registry is required")
	}
	if opts.Planner == nil {
		return nil, errx.Wrap(errx.ErrConfiguration, "planner is required")
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	for _, tool := range opts.Policy.ToolNames() {
		if !opts.Registry.Has(tool) {
			return nil, fmt.Errorf("%w: %s (referenced by workflow %s)", errx.ErrUnknownTool, tool, opts.Policy.Name)
		}
	}

	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryStore(0)
	}
	if opts.Aggregator == nil {
		opts.Aggregator = NewAggregator(opts.Logger)
	}
	if opts.Presenter == nil {
		opts.Presenter = ui.NewNoopPresenter()
	}

	classes := make(map[string]rate.ClassSpec, len(opts.Policy.RateLimits))
	for name, spec := range opts.Policy.RateLimits {
		classes[name] = rate.ClassSpec{
			Capacity:        spec.Capacity,
			RefillPerSecond: spec.RefillPerSecond,
		}
	}

	return &Scheduler{
		registry: opts.Registry,
		planner:  opts.Planner,
		policy:   opts.Policy,
		cache:    opts.Cache,
		limiter:  rate.NewLimiter(classes, 0),
		retry: resilience.NewExecutor(
			opts.Policy.Retry.MaxAttempts,
			opts.Policy.Retry.BaseDelay,
			opts.Policy.BreakerThreshold,
			opts.Logger,
		),
		aggregator: opts.Aggregator,
		scoring:    NewScoringEngine(),
		presenter:  opts.Presenter,
		logger:     opts.Logger.With("component", "scheduler"),
	}, nil
}

// Run executes the workflow against the target. The returned report is
// always usable: a canceled or aborted run carries the findings collected
// so far with Complete set to false.
func (s *Scheduler) Run(ctx context.Context, target *domain.Target) (*domain.Report, error) {
	stages, err := s.planner.Plan(ctx, target, s.policy)
	if err != nil {
		return nil, errx.Wrap(err, "planning failed")
	}

	// Findings and breaker history never outlive a run; only the cache
	// carries state between runs.
	s.aggregator.Reset()
	s.retry.Reset()

	report := domain.NewReport(target.Root, s.policy.Name)
	s.logger.Info("starting run",
		"target", target.Root,
		"workflow", s.policy.Name.String(),
		"stages", len(stages),
	)
	s.presenter.Start(ui.RunInfo{
		Target:      target.Root,
		Workflow:    s.policy.Name.String(),
		TotalStages: len(stages),
		Tools:       s.policy.ToolNames(),
	})

	aborted := false
	for i, stage := range stages {
		if aborted || ctx.Err() != nil {
			reason := domain.ErrCriticalFailure
			if ctx.Err() != nil {
				reason = domain.ErrRunCanceled
			}
			report.Executions = append(report.Executions, s.skipStage(stage, target, reason)...)
			continue
		}

		s.presenter.StartStage(ui.StageInfo{
			Number:      i + 1,
			TotalStages: len(stages),
			Name:        stage.Name,
			Tools:       stage.Tools,
			Critical:    stage.Critical,
		})
		stageStart := time.Now()

		records, stageFailed := s.runStage(ctx, stage, target)
		report.Executions = append(report.Executions, records...)

		s.presenter.FinishStage(i+1, time.Since(stageStart))
		s.logger.Info("stage finished",
			"stage", stage.Name,
			"invocations", len(records),
			"failed", stageFailed,
			"duration_ms", time.Since(stageStart).Milliseconds(),
		)

		if ctx.Err() != nil {
			report.Complete = false
			aborted = true
			continue
		}
		if stage.Critical && stageFailed {
			s.logger.Warn("critical stage failed, aborting remaining stages",
				"stage", stage.Name,
			)
			s.presenter.Warning(fmt.Sprintf("critical stage %q failed, aborting run", stage.Name))
			report.Complete = false
			aborted = true
		}
	}

	report.Findings = s.aggregator.Findings()
	report.Score = s.scoring.Score(report.Findings)
	report.Recommendations = s.scoring.Recommendations(report.Findings)
	report.Finalize()

	s.presenter.Finish(runStats(report))
	s.logger.Info("run finished",
		"target", target.Root,
		"findings", len(report.Findings),
		"score", report.Score,
		"complete", report.Complete,
		"elapsed_ms", report.Elapsed.Milliseconds(),
	)
	return report, nil
}

// runStage executes every invocation of a stage under its concurrency
// bound. Reports whether any invocation failed.
func (s *Scheduler) runStage(ctx context.Context, stage domain.StageSpec, target *domain.Target) ([]domain.ExecutionRecord, bool) {
	invocations := s.buildInvocations(stage, target)

	concurrency := stage.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		records = make([]domain.ExecutionRecord, 0, len(invocations))
		failed  bool
	)
	sem := make(chan struct{}, concurrency)

	for _, inv := range invocations {
		s.stealthPause(ctx)

		wg.Add(1)
		sem <- struct{}{}
		go func(inv *domain.Invocation) {
			defer wg.Done()
			defer func() { <-sem }()

			rec := s.execute(ctx, stage, inv, target)

			mu.Lock()
			records = append(records, rec)
			if rec.State == domain.StateFailed {
				failed = true
			}
			mu.Unlock()
		}(inv)
	}

	wg.Wait()
	return records, failed
}

// execute drives one invocation through its lifecycle.
func (s *Scheduler) execute(ctx context.Context, stage domain.StageSpec, inv *domain.Invocation, target *domain.Target) domain.ExecutionRecord {
	inv.StartedAt = time.Now()
	defer func() {
		inv.FinishedAt = time.Now()
		s.presenter.FinishInvocation(inv.Tool, inv.Host, inv.State, inv.Duration())
	}()

	if ctx.Err() != nil {
		inv.Err = domain.ErrRunCanceled
		inv.Transition(domain.StateSkipped)
		return inv.Record()
	}

	desc, err := s.registry.Resolve(inv.Tool)
	if err != nil {
		// Unreachable for validated policies; planners adding tools hit it
		inv.Err = err
		inv.Transition(domain.StateFailed)
		return inv.Record()
	}

	var key string
	if desc.Idempotent {
		key = cache.Key(inv.Tool, cacheArgs(inv))
		if raw, ok := s.cache.Get(key); ok {
			if res, ok := raw.(*ports.ToolResult); ok {
				inv.CacheHit = true
				inv.Transition(domain.StateCached)
				s.collect(res, desc, target)
				return inv.Record()
			}
		}
	}

	// An open breaker skips the invocation outright; the stage carries on
	// and a critical stage is not considered failed by it.
	if s.retry.CircuitOpen(inv.Tool) {
		inv.Err = errx.Wrapf(errx.ErrCircuitOpen, "tool %s", inv.Tool)
		inv.Transition(domain.StateSkipped)
		s.logger.Warn("circuit open, skipping invocation",
			"tool", inv.Tool,
			"host", inv.Host,
		)
		return inv.Record()
	}

	timeout := stage.Timeout
	if timeout <= 0 {
		timeout = desc.DefaultTimeout
	}

	inv.Transition(domain.StateRateLimited)
	inv.Transition(domain.StateExecuting)

	outcome := s.retry.Execute(ctx, inv.Tool, desc.Retryable, func(ctx context.Context) (*ports.ToolResult, error) {
		// Each attempt takes its own token so retries stay rate limited
		if err := s.limiter.Acquire(ctx, desc.RateClass, inv.Host); err != nil {
			return nil, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		res, err := desc.Adapter.Run(attemptCtx, ports.ToolRequest{
			Target: target.Root,
			Host:   inv.Host,
			Args:   inv.Args,
		})
		if err != nil && attemptCtx.Err() != nil && ctx.Err() == nil {
			return nil, errx.Transient(inv.Tool, errx.ErrTimeout)
		}
		return res, err
	})

	inv.Attempts = outcome.Attempts
	if outcome.Attempts > 1 {
		inv.Transition(domain.StateRetrying)
	}

	if outcome.Err != nil {
		inv.Err = outcome.Err
		switch {
		case ctx.Err() != nil:
			inv.Transition(domain.StateSkipped)
		case errx.Is(outcome.Err, errx.ErrCircuitOpen):
			// Lost the race for the half-open probe slot
			inv.Transition(domain.StateSkipped)
		default:
			inv.Transition(domain.StateFailed)
			s.logger.Warn("invocation failed",
				"tool", inv.Tool,
				"host", inv.Host,
				"attempts", inv.Attempts,
				"error", outcome.Err.Error(),
			)
		}
		return inv.Record()
	}

	if desc.Idempotent {
		s.cache.Put(key, outcome.Result, s.policy.TTLFor(inv.Tool))
	}
	inv.Transition(domain.StateSucceeded)
	s.collect(outcome.Result, desc, target)
	return inv.Record()
}

// collect routes a successful result into the aggregator and feeds the
// discovered artifacts back into the target scope for later stages.
func (s *Scheduler) collect(res *ports.ToolResult, desc registry.Descriptor, target *domain.Target) {
	added := s.aggregator.Ingest(res)
	s.logger.Debug("result collected",
		"tool", res.Tool,
		"host", res.Host,
		"new_findings", added,
	)

	produces := make(map[domain.ArtifactType]bool, len(desc.Produces))
	for _, artifactType := range desc.Produces {
		produces[artifactType] = true
	}

	for artifactType, values := range res.Artifacts {
		// Only declared artifact types may enter the target scope
		if !produces[artifactType] {
			s.logger.Warn("undeclared artifact type dropped",
				"tool", res.Tool,
				"type", string(artifactType),
				"values", len(values),
			)
			continue
		}
		inScope := values[:0:0]
		for _, v := range values {
			if artifactType != domain.ArtifactSubdomain || target.InScope(v) {
				inScope = append(inScope, v)
			}
		}
		if n := target.AddArtifacts(artifactType, inScope...); n > 0 {
			s.logger.Debug("artifacts merged",
				"tool", res.Tool,
				"type", string(artifactType),
				"added", n,
			)
		}
	}
}

// buildInvocations expands a stage into concrete invocations, fanning
// per-host tools out over the artifacts discovered so far.
func (s *Scheduler) buildInvocations(stage domain.StageSpec, target *domain.Target) []*domain.Invocation {
	invocations := make([]*domain.Invocation, 0, len(stage.Tools))
	for _, tool := range stage.Tools {
		args := argsFor(tool, s.policy)
		for _, host := range hostsFor(tool, target) {
			invocations = append(invocations, domain.NewInvocation(tool, stage.Name, host, args))
		}
	}
	return invocations
}

// skipStage records every invocation of an unreached stage as skipped.
func (s *Scheduler) skipStage(stage domain.StageSpec, target *domain.Target, reason error) []domain.ExecutionRecord {
	records := make([]domain.ExecutionRecord, 0, len(stage.Tools))
	for _, tool := range stage.Tools {
		inv := domain.NewInvocation(tool, stage.Name, target.Root, nil)
		inv.Err = reason
		inv.Transition(domain.StateSkipped)
		records = append(records, inv.Record())
	}
	return records
}

// stealthPause spreads invocation starts out in time when the policy asks
// for it.
func (s *Scheduler) stealthPause(ctx context.Context) {
	delay := s.policy.Stealth.Delay
	if delay <= 0 {
		return
	}
	if jitter := s.policy.Stealth.Jitter; jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(2*jitter))) - jitter
	}
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

func runStats(report *domain.Report) ui.RunStats {
	stats := ui.RunStats{
		Findings: len(report.Findings),
		Score:    report.Score,
		Complete: report.Complete,
		Elapsed:  report.Elapsed,
	}
	for _, rec := range report.Executions {
		if rec.CacheHit {
			stats.CacheHits++
		}
		if rec.State == domain.StateFailed {
			stats.Failed++
		}
	}
	return stats
}
