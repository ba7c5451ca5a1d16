// Package memory provides an in-process key/value store.
package memory

import (
	"bytes"
	"context"
	"sync"
)

// Store keeps values in a map. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Get returns a copy of the value for key, or (nil, nil) when absent.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, nil
	}

	return bytes.Clone(v), nil
}

// Set stores a copy of value under key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = bytes.Clone(value)

	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "memory-store"
}

// Check implements ports.HealthChecker. An in-process map is always reachable.
func (s *Store) Check(context.Context) error {
	return nil
}

// Close is a no-op so the store can stand in for durable backends.
func (s *Store) Close() error {
	return nil
}
