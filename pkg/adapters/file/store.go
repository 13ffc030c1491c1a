package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store implements ports.PityStore with a single JSON document on disk.
// Every write replaces the file atomically.
type Store struct {
	Path string
	mu   sync.Mutex
}

// NewStore creates a store at path.
// If path is empty, it defaults to ".exusiai/pity.json".
func NewStore(path string) *Store {
	if path == "" {
		path = filepath.Join(".exusiai", "pity.json")
	}
	return &Store{Path: path}
}

// Get returns the counter, or 0 when none is stored.
func (s *Store) Get(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return 0, err
	}
	return data[key], nil
}

// Set stores the counter.
func (s *Store) Set(ctx context.Context, key string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	data[key] = n
	return s.write(data)
}

// Delete removes the counter.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.write(data)
}

// List returns all stored keys in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) read() (map[string]int, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]int), nil
		}
		return nil, fmt.Errorf("failed to read pity file: %w", err)
	}

	data := make(map[string]int)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pity file: %w", err)
	}
	return data, nil
}

// write persists data by writing a temp file in the same directory, syncing
// it and renaming it over the destination.
func (s *Store) write(data map[string]int) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure pity directory: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pity: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-pity-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(raw); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to replace pity file: %w", err)
	}
	return nil
}
