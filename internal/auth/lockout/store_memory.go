package lockout

import (
	"context"
	"sync"
	"time"
)

type windowCounter struct {
	count     int64
	expiresAt time.Time
}

// InMemoryStore counts failures in memory for tests/dev. Windows are evaluated
// lazily on access; no background sweeper runs.
type InMemoryStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
	now      func() time.Time
}

// NewInMemory constructs an empty in-memory failure store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		counters: make(map[string]*windowCounter),
		now:      time.Now,
	}
}

// WithClock overrides the time source for tests.
func (s *InMemoryStore) WithClock(now func() time.Time) *InMemoryStore {
	s.now = now
	return s
}

func (s *InMemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	counter, ok := s.counters[key]
	if !ok || now.After(counter.expiresAt) {
		counter = &windowCounter{expiresAt: now.Add(window)}
		s.counters[key] = counter
	}
	counter.count++
	return counter.count, nil
}

func (s *InMemoryStore) Count(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counter, ok := s.counters[key]
	if !ok || s.now().After(counter.expiresAt) {
		return 0, nil
	}
	return counter.count, nil
}

func (s *InMemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, key)
	return nil
}
