package store

import (
	"context"
	"sync"

	"github.com/lead-miners/scout/pkg/models"
)

// MemoryStore keeps listings in process memory. It exists so code built
// against Store can be tested without Redis.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]models.Listing
	runs map[string]map[string]struct{}
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]models.Listing),
		runs: make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) UpsertListings(_ context.Context, runID string, listings []models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		run = make(map[string]struct{})
		s.runs[runID] = run
	}
	for _, l := range listings {
		key := DocumentKey(l)
		s.docs[key] = l
		run[key] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) RunListingCount(_ context.Context, runID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.runs[runID])), nil
}

// Get returns a stored listing by document key
func (s *MemoryStore) Get(key string) (models.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.docs[key]
	return l, ok
}

func (s *MemoryStore) Close() error { return nil }
