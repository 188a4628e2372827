// Package memory provides the default in-memory result cache.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/surveylens/surveylens/pkg/models"
)

// Store is a mutex-guarded map cache. It is the default backend: results
// are cheap to recompute, so losing the cache on restart is fine.
type Store struct {
	mu      sync.RWMutex
	results map[string]*models.CachedResult
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{results: make(map[string]*models.CachedResult)}
}

// Get retrieves a cached result by fingerprint.
func (s *Store) Get(ctx context.Context, fingerprint string) (*models.CachedResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.results[fingerprint]
	if !ok {
		return nil, fmt.Errorf("result %s: %w", fingerprint, models.ErrNotFound)
	}
	return res, nil
}

// Put stores or replaces a cached result.
func (s *Store) Put(ctx context.Context, result *models.CachedResult) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}
	if result.Fingerprint == "" {
		return errors.New("result fingerprint cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.Fingerprint] = result
	return nil
}

// Clear drops every cached result.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[string]*models.CachedResult)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }
