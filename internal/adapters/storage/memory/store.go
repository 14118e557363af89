// Package memory is an in-process record store used for demo mode and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"steward/internal/application/records"
)

// Store keeps records in insertion order.
type Store[T any, P records.Entity[T]] struct {
	mu    sync.RWMutex
	items []T
	index map[string]int
}

// cloner is implemented by records holding slices, so callers never share
// backing arrays with the store.
type cloner[T any] interface {
	Clone() T
}

func clone[T any](rec T) T {
	if c, ok := any(rec).(cloner[T]); ok {
		return c.Clone()
	}
	return rec
}

// New creates a store holding seed.
func New[T any, P records.Entity[T]](seed ...T) *Store[T, P] {
	s := &Store[T, P]{index: make(map[string]int)}
	for _, rec := range seed {
		s.put(rec)
	}
	return s
}

// List returns a copy of every record.
func (s *Store[T, P]) List(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	for i, rec := range s.items {
		out[i] = clone(rec)
	}
	return out, nil
}

// Get returns the record with id.
func (s *Store[T, P]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", id, records.ErrNotFound)
	}
	return clone(s.items[i]), nil
}

// Save inserts or replaces rec by its key.
func (s *Store[T, P]) Save(_ context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(rec)
	return nil
}

// Delete removes the record with id.
func (s *Store[T, P]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, records.ErrNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[P(&s.items[j]).Key()] = j
	}
	return nil
}

func (s *Store[T, P]) put(rec T) {
	rec = clone(rec)
	key := P(&rec).Key()
	if i, ok := s.index[key]; ok {
		s.items[i] = rec
		return
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, rec)
}
