// Package rate gates tool invocations with token buckets shared per
// (rate class, target host) pair. Buckets are backed by golang.org/x/time/rate;
// acquisition blocks up to a configurable wait budget and then fails instead
// of queuing indefinitely.
package rate

import (
	"context"
	"sync"
	"time"

	xrate "golang.org/x/time/rate"

	"reconflow/internal/platform/errors"
)

// ClassSpec configures the token bucket for one rate class.
type ClassSpec struct {
	// Capacity is the bucket (burst) size.
	Capacity int

	// RefillPerSecond is the token refill rate.
	RefillPerSecond float64
}

// Limiter hands out tokens per (class, host) pair. Each pair gets its own
// bucket created lazily from the class spec, so calls against different
// hosts never contend for the same tokens.
type Limiter struct {
	mu      sync.Mutex
	classes map[string]ClassSpec
	buckets map[string]*xrate.Limiter
	maxWait time.Duration
}

// NewLimiter creates a limiter from the per-class specs.
// maxWait bounds how long a single acquisition may block; zero or negative
// values default to 30 seconds.
func NewLimiter(classes map[string]ClassSpec, maxWait time.Duration) *Limiter {
	if maxWait <= 0 {
		maxWait = 30 * time.Second
	}

	specs := make(map[string]ClassSpec, len(classes))
	for name, spec := range classes {
		if spec.Capacity <= 0 {
			spec.Capacity = 1
		}
		if spec.RefillPerSecond <= 0 {
			spec.RefillPerSecond = 1
		}
		specs[name] = spec
	}

	return &Limiter{
		classes: specs,
		buckets: make(map[string]*xrate.Limiter),
		maxWait: maxWait,
	}
}

// Acquire blocks until a token for (class, host) is available, the wait
// budget expires, or ctx is canceled. A denied token surfaces as
// errors.ErrRateLimitExceeded so callers can treat it as transient.
// Unknown classes are not limited.
func (l *Limiter) Acquire(ctx context.Context, class, host string) error {
	bucket := l.bucket(class, host)
	if bucket == nil {
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := bucket.Wait(waitCtx); err != nil {
		// Distinguish run cancellation from the local wait budget
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrapf(errors.ErrRateLimitExceeded, "class %s host %s", class, host)
	}
	return nil
}

// Allow reports whether a token for (class, host) is immediately available,
// consuming it if so.
func (l *Limiter) Allow(class, host string) bool {
	bucket := l.bucket(class, host)
	if bucket == nil {
		return true
	}
	return bucket.Allow()
}

// Tokens returns the approximate number of available tokens for (class, host).
func (l *Limiter) Tokens(class, host string) float64 {
	bucket := l.bucket(class, host)
	if bucket == nil {
		return 0
	}
	return bucket.Tokens()
}

// Classes returns the configured class names.
func (l *Limiter) Classes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.classes))
	for name := range l.classes {
		names = append(names, name)
	}
	return names
}

// bucket returns the shared bucket for (class, host), creating it on first
// use. Returns nil for classes without a spec.
func (l *Limiter) bucket(class, host string) *xrate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	spec, ok := l.classes[class]
	if !ok {
		return nil
	}

	key := class + "\x1f" + host
	if b, ok := l.buckets[key]; ok {
		return b
	}

	b := xrate.NewLimiter(xrate.Limit(spec.RefillPerSecond), spec.Capacity)
	l.buckets[key] = b
	return b
}
