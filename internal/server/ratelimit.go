package server

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window in-memory limiter keyed by caller. It guards
// endpoints that trigger outbound email.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*rateWindow
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		entries: map[string]*rateWindow{},
	}
}

func (r *rateLimiter) Allow(key string) bool {
	if r == nil {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, ok := r.entries[key]
	if !ok || now.After(entry.resetAt) {
		r.entries[key] = &rateWindow{count: 1, resetAt: now.Add(r.window)}
		r.sweepLocked(now)
		return true
	}
	if entry.count >= r.limit {
		return false
	}
	entry.count++
	return true
}

// sweepLocked drops expired windows so the map does not grow unbounded.
func (r *rateLimiter) sweepLocked(now time.Time) {
	if len(r.entries) < 1024 {
		return
	}
	for key, entry := range r.entries {
		if now.After(entry.resetAt) {
			delete(r.entries, key)
		}
	}
}
