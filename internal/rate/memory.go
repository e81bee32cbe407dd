package rate

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count       int
	windowStart time.Time
	window      time.Duration
}

// MemoryStore keeps counters in process memory. It is safe for concurrent use;
// every hit is a single critical section, so concurrent hits on one key never
// push the count past the limit.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock returns an empty store reading time from now.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     now,
	}
}

// Hit implements [Store].
func (s *MemoryStore) Hit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || now.Sub(e.windowStart) > window {
		s.entries[key] = &memoryEntry{count: 1, windowStart: now, window: window}
		return false, nil
	}
	if e.count >= limit {
		return true, nil
	}
	e.count++
	return false, nil
}

// Prune drops entries whose window has elapsed at now and returns how many
// were removed.
func (s *MemoryStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if now.Sub(e.windowStart) > e.window {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
