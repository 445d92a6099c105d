// Package ratelimit enforces a per-host minimum interval between fetch
// attempts, the crawler's politeness mechanism.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter hands out one fetch slot per host at most once per interval.
// A degenerate token bucket of depth one: no bursting, issue tracked
// per host rather than globally.
type Limiter struct {
	interval time.Duration

	mu   sync.Mutex
	next map[string]time.Time
}

// New returns a Limiter allowing ratePerSecond requests per second per
// host. A non-positive rate disables limiting: Acquire returns
// immediately.
func New(ratePerSecond float64) *Limiter {
	var interval time.Duration
	if ratePerSecond > 0 {
		interval = time.Duration(float64(time.Second) / ratePerSecond)
	}
	return &Limiter{
		interval: interval,
		next:     make(map[string]time.Time),
	}
}

// Acquire blocks until host's next slot is available, ctx is canceled,
// or the limiter is disabled. Returns ctx.Err() on cancellation.
func (l *Limiter) Acquire(ctx context.Context, host string) error {
	if l.interval <= 0 {
		return nil
	}

	for {
		l.mu.Lock()
		now := time.Now()
		ready := l.next[host]
		if now.After(ready) || now.Equal(ready) {
			l.next[host] = now.Add(l.interval)
			l.mu.Unlock()
			return nil
		}
		wait := ready.Sub(now)
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// loop and re-check: another goroutine may have taken the slot
		}
	}
}
