package throttle

import (
	"strings"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 900 * time.Second
)

// Limiter tracks consecutive authentication failures per (email, origin)
// pair. Keying by the pair rather than origin alone keeps one misbehaving
// client behind a campus NAT from locking out unrelated accounts, while
// still rate-limiting credential stuffing against one account from one
// origin.
type Limiter struct {
	Counters    CounterStore
	MaxAttempts int
	Window      time.Duration
}

func NewLimiter(counters CounterStore, maxAttempts int, window time.Duration) *Limiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{Counters: counters, MaxAttempts: maxAttempts, Window: window}
}

// Locked reports whether the pair has reached the failure threshold.
// Callers must check this before touching the credential store at all.
func (l *Limiter) Locked(email, origin string) bool {
	return l.Counters.Get(key(email, origin)) >= l.MaxAttempts
}

// RecordFailure bumps the failure counter and restarts its window.
func (l *Limiter) RecordFailure(email, origin string) int {
	return l.Counters.Bump(key(email, origin), l.Window)
}

// Reset clears the counter unconditionally; called after any successful
// authentication.
func (l *Limiter) Reset(email, origin string) {
	l.Counters.Clear(key(email, origin))
}

func key(email, origin string) string {
	return strings.ToLower(strings.TrimSpace(email)) + "|" + origin
}
