package rate

import (
	"context"
	"sync"
	"testing"
	"time"

	"reconflow/internal/platform/errors"
	"reconflow/internal/testutil"
)

func testClasses() map[string]ClassSpec {
	return map[string]ClassSpec{
		"network": {Capacity: 5, RefillPerSecond: 10},
		"api":     {Capacity: 1, RefillPerSecond: 1},
	}
}

func TestLimiter_AllowWithinCapacity(t *testing.T) {
	l := NewLimiter(testClasses(), time.Second)

	for i := 0; i < 5; i++ {
		testutil.AssertTrue(t, l.Allow("network", "example.com"), "should allow within capacity")
	}
	testutil.AssertFalse(t, l.Allow("network", "example.com"), "should deny when bucket empty")
}

func TestLimiter_HostsIsolated(t *testing.T) {
	l := NewLimiter(testClasses(), time.Second)

	// Drain the bucket for one host
	for i := 0; i < 5; i++ {
		l.Allow("network", "a.example.com")
	}

	testutil.AssertFalse(t, l.Allow("network", "a.example.com"), "drained host should be denied")
	testutil.AssertTrue(t, l.Allow("network", "b.example.com"), "other host should have its own bucket")
}

func TestLimiter_ClassesIsolated(t *testing.T) {
	l := NewLimiter(testClasses(), time.Second)

	l.Allow("api", "example.com")
	testutil.AssertFalse(t, l.Allow("api", "example.com"), "api bucket should be drained")
	testutil.AssertTrue(t, l.Allow("network", "example.com"), "network class unaffected")
}

func TestLimiter_UnknownClassUnlimited(t *testing.T) {
	l := NewLimiter(testClasses(), time.Second)

	for i := 0; i < 100; i++ {
		testutil.AssertTrue(t, l.Allow("unconfigured", "example.com"), "unknown class should not limit")
	}
}

func TestLimiter_AcquireBlocksThenSucceeds(t *testing.T) {
	l := NewLimiter(map[string]ClassSpec{
		"network": {Capacity: 1, RefillPerSecond: 10},
	}, time.Second)

	ctx := context.Background()
	testutil.AssertNoError(t, l.Acquire(ctx, "network", "example.com"), "first acquire should succeed")

	start := time.Now()
	err := l.Acquire(ctx, "network", "example.com")
	elapsed := time.Since(start)

	testutil.AssertNoError(t, err, "second acquire should succeed after refill")
	testutil.AssertTrue(t, elapsed >= 50*time.Millisecond, "should have waited for a token")
}

func TestLimiter_AcquireBoundedWait(t *testing.T) {
	l := NewLimiter(map[string]ClassSpec{
		"api": {Capacity: 1, RefillPerSecond: 0.1}, // one token per 10s
	}, 50*time.Millisecond)

	ctx := context.Background()
	testutil.AssertNoError(t, l.Acquire(ctx, "api", "example.com"), "first acquire should succeed")

	err := l.Acquire(ctx, "api", "example.com")
	testutil.AssertError(t, err, "acquire past the wait budget should fail")
	testutil.AssertTrue(t, errors.Is(err, errors.ErrRateLimitExceeded), "denial should be ErrRateLimitExceeded")
}

func TestLimiter_AcquireContextCancellation(t *testing.T) {
	l := NewLimiter(map[string]ClassSpec{
		"api": {Capacity: 1, RefillPerSecond: 0.1},
	}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	testutil.AssertNoError(t, l.Acquire(ctx, "api", "example.com"), "first acquire should succeed")

	done := make(chan error, 1)
	go func() { done <- l.Acquire(ctx, "api", "example.com") }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		testutil.AssertTrue(t, errors.Is(err, context.Canceled), "cancellation should surface ctx error")
	case <-time.After(time.Second):
		t.Fatal("acquire did not return after context cancellation")
	}
}

func TestLimiter_ConcurrentAcquisition(t *testing.T) {
	l := NewLimiter(map[string]ClassSpec{
		"network": {Capacity: 10, RefillPerSecond: 1},
	}, time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("network", "example.com") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	testutil.AssertTrue(t, allowed >= 10 && allowed <= 11,
		"concurrent allows should be bounded by capacity")
}
