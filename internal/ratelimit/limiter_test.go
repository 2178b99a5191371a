package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	config := DefaultConfig()
	limiter := NewLimiter(config)

	if limiter == nil {
		t.Fatal("NewLimiter() should return non-nil limiter")
	}

	stats := limiter.GetStats()
	if stats.BurstSize != config.BurstSize {
		t.Errorf("stats.BurstSize = %v, want %v", stats.BurstSize, config.BurstSize)
	}
	if stats.TrackedTargets != 0 {
		t.Errorf("stats.TrackedTargets = %v, want 0", stats.TrackedTargets)
	}
}

func TestLimiter_Wait(t *testing.T) {
	config := Config{
		RequestsPerSecond: 10.0,
		BurstSize:         2,
	}
	limiter := NewLimiter(config)
	ctx := context.Background()

	// First requests should not block (burst)
	start := time.Now()
	if err := limiter.Wait(ctx, "example.com"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if err := limiter.Wait(ctx, "example.com"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	duration := time.Since(start)
	if duration > 50*time.Millisecond {
		t.Errorf("Burst requests took too long: %v", duration)
	}

	// Third request should be rate limited
	start = time.Now()
	if err := limiter.Wait(ctx, "example.com"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	duration = time.Since(start)

	// Should wait approximately 100ms (1/10 second for 10 req/sec)
	if duration < 50*time.Millisecond {
		t.Errorf("Rate limiter did not delay enough: %v", duration)
	}
}

func TestLimiter_DifferentTargets(t *testing.T) {
	config := Config{
		RequestsPerSecond: 1.0, // Very slow rate
		BurstSize:         1,
	}
	limiter := NewLimiter(config)
	ctx := context.Background()

	// Exhaust one target's burst
	if err := limiter.Wait(ctx, "example1.com"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	// Other targets should not be affected
	start := time.Now()
	if err := limiter.Wait(ctx, "example2.com"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if err := limiter.Wait(ctx, "example3.com"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	duration := time.Since(start)

	if duration > 50*time.Millisecond {
		t.Errorf("Different targets took too long: %v", duration)
	}

	stats := limiter.GetStats()
	if stats.TrackedTargets != 3 {
		t.Errorf("stats.TrackedTargets = %v, want 3", stats.TrackedTargets)
	}
}

func TestLimiter_Allow(t *testing.T) {
	config := Config{
		RequestsPerSecond: 10.0,
		BurstSize:         2,
	}
	limiter := NewLimiter(config)

	// Should allow burst requests
	if !limiter.Allow("example.com") {
		t.Error("Allow() should allow first burst request")
	}
	if !limiter.Allow("example.com") {
		t.Error("Allow() should allow second burst request")
	}

	// Next request should be denied (burst exhausted)
	if limiter.Allow("example.com") {
		t.Error("Allow() should deny request after burst exhausted")
	}

	// Wait for token to replenish
	time.Sleep(150 * time.Millisecond)

	if !limiter.Allow("example.com") {
		t.Error("Allow() should allow request after token replenishment")
	}
}

func TestLimiter_SetLimit(t *testing.T) {
	config := Config{
		RequestsPerSecond: 1.0,
		BurstSize:         1,
	}
	limiter := NewLimiter(config)
	ctx := context.Background()

	// Raise the limit for one target
	limiter.SetLimit("fast.example.com", 1000)

	// Exhaust burst, then the next request should clear almost immediately
	limiter.Wait(ctx, "fast.example.com")

	start := time.Now()
	if err := limiter.Wait(ctx, "fast.example.com"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	duration := time.Since(start)

	if duration > 100*time.Millisecond {
		t.Errorf("SetLimit() did not take effect: delay = %v", duration)
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	limiter := NewLimiter(DefaultConfig())

	limiter.Allow("stale.example.com")
	time.Sleep(100 * time.Millisecond)
	limiter.Allow("fresh.example.com")

	evicted := limiter.EvictIdle(50 * time.Millisecond)
	if evicted != 1 {
		t.Errorf("EvictIdle() = %v, want 1", evicted)
	}

	stats := limiter.GetStats()
	if stats.TrackedTargets != 1 {
		t.Errorf("stats.TrackedTargets = %v, want 1", stats.TrackedTargets)
	}

	// The retained target keeps its bucket
	if !limiter.Allow("fresh.example.com") {
		t.Error("Allow() should still pass for the retained target")
	}
}

func TestLimiter_Reset(t *testing.T) {
	config := DefaultConfig()
	limiter := NewLimiter(config)
	ctx := context.Background()

	limiter.Wait(ctx, "host1.com")
	limiter.Wait(ctx, "host2.com")
	limiter.Wait(ctx, "host3.com")

	stats := limiter.GetStats()
	if stats.TrackedTargets != 3 {
		t.Errorf("Before reset: TrackedTargets = %v, want 3", stats.TrackedTargets)
	}

	limiter.Reset()

	stats = limiter.GetStats()
	if stats.TrackedTargets != 0 {
		t.Errorf("After reset: TrackedTargets = %v, want 0", stats.TrackedTargets)
	}
}

func TestLimiter_ContextCancellation(t *testing.T) {
	config := Config{
		RequestsPerSecond: 1.0, // Very slow rate
		BurstSize:         1,
	}
	limiter := NewLimiter(config)

	// Exhaust burst
	limiter.Wait(context.Background(), "example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Wait should return context error
	err := limiter.Wait(ctx, "example.com")
	if err != context.Canceled {
		t.Errorf("Wait() with cancelled context: error = %v, want %v", err, context.Canceled)
	}
}
