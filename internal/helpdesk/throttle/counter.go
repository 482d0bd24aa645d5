package throttle

import (
	"sync"
	"time"
)

// CounterStore is an ephemeral keyed failure counter with per-key expiry.
// It is not durable state; a restart simply forgets in-flight lockouts.
type CounterStore interface {
	// Get returns the current count for key, or 0 once the entry expired.
	Get(key string) int

	// Bump increments the counter and restarts its expiry to the full
	// window, returning the new count. The window restarts on every
	// failure, not just the first one.
	Bump(key string, window time.Duration) int

	// Clear removes the entry for key.
	Clear(key string)
}

type entry struct {
	count     int
	expiresAt time.Time
}

// Memory is an in-process CounterStore. Expired entries are dropped lazily
// on read and swept periodically on write so abandoned keys don't
// accumulate.
type Memory struct {
	mu        sync.Mutex
	entries   map[string]entry
	lastSweep time.Time

	// now is swappable for tests.
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *Memory) Get(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return 0
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return 0
	}
	return e.count
}

func (m *Memory) Bump(key string, window time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.maybeSweep(now)

	e, ok := m.entries[key]
	if !ok || now.After(e.expiresAt) {
		e = entry{}
	}
	e.count++
	e.expiresAt = now.Add(window)
	m.entries[key] = e
	return e.count
}

func (m *Memory) Clear(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// maybeSweep drops expired entries at most once a minute. Caller holds mu.
func (m *Memory) maybeSweep(now time.Time) {
	if now.Sub(m.lastSweep) < time.Minute {
		return
	}
	m.lastSweep = now
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}
