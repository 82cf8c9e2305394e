package lexsite

import (
	"sync"
	"time"
)

// SubmitLimiter rate-limits form submissions per IP address.
type SubmitLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewSubmitLimiter creates a SubmitLimiter that allows max submissions per window.
func NewSubmitLimiter(max int, window time.Duration) *SubmitLimiter {
	return &SubmitLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Allow checks if the IP has not exceeded the rate limit and records the attempt.
func (l *SubmitLimiter) Allow(ip string) bool {
	if !l.Check(ip) {
		return false
	}
	l.Record(ip)
	return true
}

// Check returns true if the IP has not exceeded the rate limit.
// It does not record an attempt.
func (l *SubmitLimiter) Check(ip string) bool {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := keepAfter(l.attempts[ip], cutoff)
	if len(kept) == 0 {
		delete(l.attempts, ip)
	} else {
		l.attempts[ip] = kept
	}
	return len(kept) < l.max
}

// Record registers a submission for the given IP.
func (l *SubmitLimiter) Record(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.attempts) > 1024 {
		l.sweep()
	}
	l.attempts[ip] = append(l.attempts[ip], l.now())
}

// sweep drops expired entries. Caller holds l.mu.
func (l *SubmitLimiter) sweep() {
	cutoff := l.now().Add(-l.window)
	for ip, hits := range l.attempts {
		if kept := keepAfter(hits, cutoff); len(kept) == 0 {
			delete(l.attempts, ip)
		} else {
			l.attempts[ip] = kept
		}
	}
}

func keepAfter(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
