package presence

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a single-process Store. Restarting the process or running
// several instances resets or splits the list.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	timeout time.Duration
	now     func() time.Time
}

func NewMemoryStore(timeout time.Duration) *MemoryStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MemoryStore{
		entries: make(map[string]Entry),
		timeout: timeout,
		now:     time.Now,
	}
}

// WithClock replaces the time source.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Heartbeat(_ context.Context, e Entry) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e.LastSeen = now
	s.entries[e.ID] = e
	s.pruneLocked(now)
	return s.listLocked(), nil
}

func (s *MemoryStore) Active(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	return s.listLocked(), nil
}

func (s *MemoryStore) Prune(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	return nil
}

func (s *MemoryStore) pruneLocked(now time.Time) {
	for id, e := range s.entries {
		if now.Sub(e.LastSeen) > s.timeout {
			delete(s.entries, id)
		}
	}
}

func (s *MemoryStore) listLocked() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return sortEntries(out)
}
