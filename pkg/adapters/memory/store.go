package memory

import (
	"context"
	"sort"
	"sync"
)

// Store implements ports.PityStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]int
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]int),
	}
}

// Get returns the counter, or 0 when none is stored.
func (s *Store) Get(ctx context.Context, key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key], nil
}

// Set stores the counter.
func (s *Store) Set(ctx context.Context, key string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = n
	return nil
}

// Delete removes the counter.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns all stored keys in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
