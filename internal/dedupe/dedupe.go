// Package dedupe tracks recently seen place URLs so overlapping city
// searches (nearby cities often return the same businesses) do not produce
// duplicate listings within one run window.
package dedupe

import (
	"context"
	"sync"
	"time"
)

// Set is a TTL'd membership set. Seen returns whether the key was already
// present and marks it either way, so exactly one caller wins per key.
type Set struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
	cancel  context.CancelFunc
}

// NewSet creates a set whose entries expire after ttl
func NewSet(ttl time.Duration) *Set {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Set{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		cancel:  cancel,
	}
	go s.sweep(ctx)
	return s
}

// Seen marks key and reports whether it was already present and unexpired
func (s *Set) Seen(key string) bool {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.entries[key]
	s.entries[key] = now.Add(s.ttl)
	return ok && now.Before(expires)
}

// Len returns the current entry count, expired entries included until swept
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the background sweeper
func (s *Set) Close() {
	s.cancel()
}

func (s *Set) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for k, expires := range s.entries {
				if now.After(expires) {
					delete(s.entries, k)
				}
			}
			s.mu.Unlock()
		}
	}
}
