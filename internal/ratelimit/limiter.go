package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles traffic per key: probe traffic per target host, or
// inbound requests per client IP when the API wraps it.
type Limiter struct {
	defaultRate  rate.Limit
	defaultBurst int
	targets      map[string]*entry
	mu           sync.Mutex
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Config contains rate limiting configuration
type Config struct {
	// RequestsPerSecond limits the number of requests per second to one target
	RequestsPerSecond float64

	// BurstSize allows brief bursts above the rate limit
	BurstSize int
}

// DefaultConfig returns defaults tuned for a single-host path sweep
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 50.0,
		BurstSize:         20,
	}
}

// ConservativeConfig returns very conservative rate limiting to avoid any issues
func ConservativeConfig() Config {
	return Config{
		RequestsPerSecond: 2.0,
		BurstSize:         1,
	}
}

// NewLimiter creates a new rate limiter with the given configuration
func NewLimiter(config Config) *Limiter {
	return &Limiter{
		defaultRate:  rate.Limit(config.RequestsPerSecond),
		defaultBurst: config.BurstSize,
		targets:      make(map[string]*entry),
	}
}

// Wait blocks until the target's limiter allows the next request
func (l *Limiter) Wait(ctx context.Context, target string) error {
	return l.limiterFor(target).Wait(ctx)
}

// Allow checks if a request to target is allowed without blocking
func (l *Limiter) Allow(target string) bool {
	return l.limiterFor(target).Allow()
}

// SetLimit updates the rate limit for a single target dynamically
func (l *Limiter) SetLimit(target string, requestsPerSecond int) {
	l.limiterFor(target).SetLimit(rate.Limit(requestsPerSecond))
}

func (l *Limiter) limiterFor(target string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.targets[target]
	if !ok {
		e = &entry{lim: rate.NewLimiter(l.defaultRate, l.defaultBurst)}
		l.targets[target] = e
	}
	e.lastSeen = time.Now()
	return e.lim
}

// EvictIdle drops limiters unused for at least maxAge and reports how many
// were removed. Long-lived processes call this periodically so one-off
// targets do not accumulate forever.
func (l *Limiter) EvictIdle(maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	evicted := 0
	for target, e := range l.targets {
		if e.lastSeen.Before(cutoff) {
			delete(l.targets, target)
			evicted++
		}
	}
	return evicted
}

// Reset clears all per-target state (useful for testing)
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.targets = make(map[string]*entry)
}

// GetStats returns current rate limiter statistics
func (l *Limiter) GetStats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		TrackedTargets: len(l.targets),
		BurstSize:      l.defaultBurst,
	}
}

// Stats contains rate limiter statistics
type Stats struct {
	TrackedTargets int
	BurstSize      int
}
