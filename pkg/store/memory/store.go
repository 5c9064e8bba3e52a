// Package memory is an in-process entity store for hosts that keep editable
// data in memory, and for tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-inplace/pkg/model"
)

// Store keeps records per entity type. Entities handed out are copies, so
// callers never observe later writes.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string]*model.Record
	assocs  map[string]model.Association
}

// New returns an empty store.
func New() *Store {
	return &Store{
		records: make(map[string]map[string]*model.Record),
		assocs:  make(map[string]model.Association),
	}
}

// Put inserts or replaces a record.
func (s *Store) Put(record *model.Record) {
	if record == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := s.records[record.Type]
	if byID == nil {
		byID = make(map[string]*model.Record)
		s.records[record.Type] = byID
	}
	byID[record.ID] = record.Clone()
}

// Declare records the association reflection for entityType.attribute.
func (s *Store) Declare(entityType, attribute string, assoc model.Association) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assocs[assocKey(entityType, attribute)] = assoc
}

// Find implements update.Store.
func (s *Store) Find(_ context.Context, entityType, id string) (model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[entityType][id]
	if !ok {
		return nil, model.NotFound(entityType, id)
	}
	return record.Clone(), nil
}

// UpdateAttribute implements update.Store.
func (s *Store) UpdateAttribute(_ context.Context, entity model.Entity, attribute string, value any) (model.Entity, error) {
	ref := entity.Ref()
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[ref.Type][ref.ID]
	if !ok {
		return nil, model.NotFound(ref.Type, ref.ID)
	}
	if related, isEntity := value.(model.Entity); isEntity {
		value = toRecord(related)
	}
	record.Set(attribute, value)
	return record.Clone(), nil
}

// Association implements update.Store.
func (s *Store) Association(entityType, attribute string) model.Association {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assocs[assocKey(entityType, attribute)]
}

// All returns copies of every record of entityType sorted by id.
func (s *Store) All(entityType string) []*model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Record, 0, len(s.records[entityType]))
	for _, record := range s.records[entityType] {
		out = append(out, record.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func toRecord(entity model.Entity) *model.Record {
	if record, ok := entity.(*model.Record); ok {
		return record.Clone()
	}
	ref := entity.Ref()
	return model.NewRecord(ref.Type, ref.ID, nil)
}

func assocKey(entityType, attribute string) string {
	return entityType + "." + attribute
}
