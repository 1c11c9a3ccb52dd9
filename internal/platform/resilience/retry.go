// internal/platform/resilience/retry.go
package resilience

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"reconflow/internal/core/ports"
	errx "reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

// Outcome is the terminal result of an executed invocation. Exactly one of
// Result and Err is set; Attempts counts every call made, first try included.
type Outcome struct {
	Result   *ports.ToolResult
	Attempts int
	Err      error
}

// Executor runs tool calls with exponential backoff retries and a circuit
// breaker per tool. Failures never escape as panics or unclassified errors;
// the caller always gets a terminal Outcome.
type Executor struct {
	maxAttempts      int
	baseDelay        time.Duration
	breakerThreshold int
	cooldown         time.Duration
	logger           logx.Logger

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewExecutor creates an executor. maxAttempts includes the first try.
func NewExecutor(maxAttempts int, baseDelay time.Duration, breakerThreshold int, logger logx.Logger) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	if breakerThreshold <= 0 {
		breakerThreshold = 3
	}
	if logger == nil {
		logger = logx.NewSilent()
	}

	return &Executor{
		maxAttempts:      maxAttempts,
		baseDelay:        baseDelay,
		breakerThreshold: breakerThreshold,
		cooldown:         30 * time.Second,
		logger:           logger.With("component", "retry-executor"),
		breakers:         make(map[string]*CircuitBreaker),
	}
}

// Execute runs fn for the given tool, retrying transient failures up to the
// attempt budget. retryable may widen the transient classification for
// tool-specific errors; pass nil for the default classification only.
func (e *Executor) Execute(
	ctx context.Context,
	tool string,
	retryable func(error) bool,
	fn func(ctx context.Context) (*ports.ToolResult, error),
) Outcome {
	breaker := e.breakerFor(tool)

	if !breaker.Allow() {
		e.logger.Warn("circuit open, skipping call", "tool", tool)
		return Outcome{Err: errx.Wrapf(errx.ErrCircuitOpen, "tool %s", tool)}
	}

	var (
		lastErr  error
		attempts int
	)
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		attempts = attempt + 1
		if attempt > 0 {
			e.logger.Debug("retrying",
				"tool", tool,
				"attempt", attempt+1,
				"max_attempts", e.maxAttempts,
			)
		}

		result, err := e.run(ctx, fn)
		if err == nil {
			breaker.RecordSuccess()
			return Outcome{Result: result, Attempts: attempt + 1}
		}

		lastErr = err
		e.logger.Warn("call failed",
			"tool", tool,
			"attempt", attempt+1,
			"error", err.Error(),
		)

		if ctx.Err() != nil {
			breaker.RecordFailure()
			return Outcome{Attempts: attempt + 1, Err: errx.Wrap(ctx.Err(), "canceled")}
		}

		if !e.shouldRetry(err, retryable) || attempt == e.maxAttempts-1 {
			break
		}

		delay := e.backoff(attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			breaker.RecordFailure()
			return Outcome{Attempts: attempt + 1, Err: errx.Wrap(ctx.Err(), "canceled during backoff")}
		}
	}

	breaker.RecordFailure()
	return Outcome{Attempts: attempts, Err: lastErr}
}

// run invokes fn, converting a panic into an error so one misbehaving
// adapter cannot take the scheduler down.
func (e *Executor) run(ctx context.Context, fn func(ctx context.Context) (*ports.ToolResult, error)) (result *ports.ToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errx.Errorf("tool panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func (e *Executor) shouldRetry(err error, retryable func(error) bool) bool {
	if errx.IsTransient(err) {
		return true
	}
	if retryable != nil && retryable(err) {
		return true
	}
	return false
}

// backoff returns base * 2^attempt plus a uniform jitter in [0, base).
func (e *Executor) backoff(attempt int) time.Duration {
	delay := e.baseDelay << uint(attempt)
	jitter := time.Duration(rand.Int63n(int64(e.baseDelay)))
	return delay + jitter
}

// BreakerState exposes the breaker state for a tool, mainly for reporting.
func (e *Executor) BreakerState(tool string) State {
	return e.breakerFor(tool).State()
}

// CircuitOpen reports whether calls for the tool would be rejected right
// now, without consuming a half-open probe slot.
func (e *Executor) CircuitOpen(tool string) bool {
	return e.breakerFor(tool).Blocked()
}

// Reset discards all breaker history, returning every tool to a closed
// circuit.
func (e *Executor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.breakers = make(map[string]*CircuitBreaker)
}

func (e *Executor) breakerFor(tool string) *CircuitBreaker {
	e.mu.Lock()
	defer e.mu.Unlock()

	breaker, ok := e.breakers[tool]
	if !ok {
		breaker = NewCircuitBreaker(e.breakerThreshold, e.cooldown, 1)
		e.breakers[tool] = breaker
	}
	return breaker
}
