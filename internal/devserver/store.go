package devserver

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/sma-adp-console/internal/schema"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// Store keeps every collection in memory. It exists so the console and the
// integration tests have a real HTTP peer without standing up the actual
// backend; nothing survives a restart.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]schema.Entity
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]schema.Entity)}
}

// List returns one zero-based page of a collection ordered by creation
// sequence (insertion ids sort stably by the seq field).
func (s *Store) List(collection string, page, size int) ([]schema.Entity, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]schema.Entity, 0, len(s.collections[collection]))
	for _, e := range s.collections[collection] {
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Number("_seq") < items[j].Number("_seq")
	})

	total := len(items)
	if size <= 0 {
		size = 20
	}
	start := page * size
	if start >= total {
		return []schema.Entity{}, total
	}
	end := start + size
	if end > total {
		end = total
	}

	out := make([]schema.Entity, 0, end-start)
	for _, e := range items[start:end] {
		out = append(out, stripInternal(e))
	}
	return out, total
}

// Get returns one entity by id.
func (s *Store) Get(collection, id string) (schema.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.collections[collection][id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, collection+" entry not found")
	}
	return stripInternal(e), nil
}

// Create assigns an id and stores the entity.
func (s *Store) Create(collection string, entity schema.Entity) schema.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]schema.Entity)
	}
	stored := entity.Clone()
	stored["id"] = uuid.NewString()
	stored["_seq"] = float64(len(s.collections[collection]))
	s.collections[collection][stored.ID()] = stored
	return stripInternal(stored)
}

// Update replaces the entity with the given id, preserving the id itself.
func (s *Store) Update(collection, id string, entity schema.Entity) (schema.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collections[collection][id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, collection+" entry not found")
	}
	stored := entity.Clone()
	stored["id"] = id
	stored["_seq"] = existing["_seq"]
	s.collections[collection][id] = stored
	return stripInternal(stored), nil
}

// Delete removes the entity with the given id.
func (s *Store) Delete(collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection][id]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, collection+" entry not found")
	}
	delete(s.collections[collection], id)
	return nil
}

// All returns every entity of a collection, unpaginated.
func (s *Store) All(collection string) []schema.Entity {
	items, _ := s.List(collection, 0, 1<<20)
	return items
}

func stripInternal(e schema.Entity) schema.Entity {
	out := e.Clone()
	delete(out, "_seq")
	return out
}
