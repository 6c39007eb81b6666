package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/knex/pkg/knex/internalerr"
	"github.com/cognicore/knex/pkg/knex/store"
)

// Store is an in-memory implementation of store.Store for tests and
// ephemeral runs.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]store.Record
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		nextID:  1,
		records: make(map[int64]store.Record),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Save assigns the next ID and stores a copy of r.
func (s *Store) Save(ctx context.Context, r store.Record) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.nextID
	s.nextID++
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.records[r.ID] = r.Clone()
	return r, nil
}

// Update replaces an existing record.
func (s *Store) Update(ctx context.Context, r store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[r.ID]; !ok {
		return fmt.Errorf("analysis %d: %w", r.ID, internalerr.ErrNotFound)
	}
	s.records[r.ID] = r.Clone()
	return nil
}

// Get returns a record by ID.
func (s *Store) Get(ctx context.Context, id int64) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.records[id]; ok {
		return r.Clone(), nil
	}
	return store.Record{}, fmt.Errorf("analysis %d: %w", id, internalerr.ErrNotFound)
}

// List returns every record in ID order.
func (s *Store) List(ctx context.Context) ([]store.Record, error) {
	return s.filter(func(store.Record) bool { return true }), nil
}

// Search scans all records for term.
func (s *Store) Search(ctx context.Context, term string) ([]store.Record, error) {
	return s.filter(func(r store.Record) bool { return store.Matches(r, term) }), nil
}

func (s *Store) filter(keep func(store.Record) bool) []store.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Record, 0, len(s.records))
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
