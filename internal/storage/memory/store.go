// Package memory provides an in-memory DocumentStore used by service
// tests.
package memory

import (
	"context"
	"sync"

	"github.com/partikollen/partikollen/internal/core/domain"
	"github.com/partikollen/partikollen/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

type key struct {
	cat domain.Category
	id  string
}

// Store is an in-memory implementation of driven.DocumentStore.
type Store struct {
	mu        sync.RWMutex
	records   map[key]domain.Record
	fragments map[string][]domain.Fragment
	flushes   int
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		records:   make(map[key]domain.Record),
		fragments: make(map[string][]domain.Fragment),
	}
}

// SaveRecord stores or replaces a record.
func (s *Store) SaveRecord(_ context.Context, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key{rec.Category, rec.ID}] = *rec
	return nil
}

// SaveFragments stores trailing fragments for a chunked record.
func (s *Store) SaveFragments(_ context.Context, fragments []domain.Fragment) error {
	if len(fragments) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	parent := fragments[0].ParentID
	s.fragments[parent] = append(s.fragments[parent], fragments...)
	return nil
}

// GetRecord retrieves a record by category and id.
func (s *Store) GetRecord(_ context.Context, cat domain.Category, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key{cat, id}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// ListFragments retrieves all fragments for a parent record.
func (s *Store) ListFragments(_ context.Context, parentID string) ([]domain.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fragments := make([]domain.Fragment, len(s.fragments[parentID]))
	copy(fragments, s.fragments[parentID])
	return fragments, nil
}

// ListIDs returns every record identifier in a category.
func (s *Store) ListIDs(_ context.Context, cat domain.Category) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for k := range s.records {
		if k.cat == cat {
			ids = append(ids, k.id)
		}
	}
	return ids, nil
}

// ListRecords returns every record in a category.
func (s *Store) ListRecords(_ context.Context, cat domain.Category) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []domain.Record
	for k, rec := range s.records {
		if k.cat == cat {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Flush is a no-op; writes are immediately visible. The call count is
// tracked for tests that assert page-granularity flushing.
func (s *Store) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

// Flushes returns how many times Flush was called.
func (s *Store) Flushes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flushes
}

// Close releases nothing.
func (s *Store) Close() error {
	return nil
}
