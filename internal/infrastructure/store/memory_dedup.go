package store

import (
	"context"
	"sync"
)

// MemoryDedupSet is the in-process DedupSet backend. Insertion order is
// tracked so the oldest entry can be evicted once the cap is exceeded.
type MemoryDedupSet struct {
	mutex      sync.Mutex
	seen       map[string]struct{}
	order      []string
	maxEntries int
}

// NewMemoryDedupSet creates a bounded dedup set
func NewMemoryDedupSet(maxEntries int) *MemoryDedupSet {
	return &MemoryDedupSet{
		seen:       make(map[string]struct{}),
		maxEntries: maxEntries,
	}
}

// Add marks the id as seen; returns false when already present
func (s *MemoryDedupSet) Add(ctx context.Context, id string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.seen[id]; exists {
		return false, nil
	}

	s.seen[id] = struct{}{}
	s.order = append(s.order, id)

	// Bounded memory: past this point a very old duplicate may slip back in
	for len(s.seen) > s.maxEntries {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.seen, oldest)
	}

	return true, nil
}

// Remove unmarks an id
func (s *MemoryDedupSet) Remove(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.seen, id)
	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Size returns the number of tracked ids
func (s *MemoryDedupSet) Size(ctx context.Context) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return int64(len(s.seen)), nil
}

// Purge clears the set
func (s *MemoryDedupSet) Purge(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.seen = make(map[string]struct{})
	s.order = nil
	return nil
}
