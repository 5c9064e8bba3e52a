// Package redisstore keeps editable entities as Redis hashes, one hash per
// entity at "<prefix><type>:<id>". Single associations are stored as the
// related id in the "<attribute>_id" field.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-inplace/pkg/model"
)

// DefaultPrefix namespaces entity keys.
const DefaultPrefix = "inplace:"

// Store implements update.Store on a Redis client.
type Store struct {
	client redis.UniversalClient
	prefix string

	mu     sync.RWMutex
	assocs map[string]model.Association
}

// New wraps client. An empty prefix selects DefaultPrefix.
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		client: client,
		prefix: prefix,
		assocs: make(map[string]model.Association),
	}
}

// Key returns the hash key for an entity.
func (s *Store) Key(entityType, id string) string {
	return s.prefix + entityType + ":" + id
}

// Declare records the association reflection for entityType.attribute.
func (s *Store) Declare(entityType, attribute string, assoc model.Association) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assocs[entityType+"."+attribute] = assoc
}

// Association implements update.Store.
func (s *Store) Association(entityType, attribute string) model.Association {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assocs[entityType+"."+attribute]
}

// Put writes every attribute of record, replacing the existing hash.
func (s *Store) Put(ctx context.Context, record *model.Record) error {
	if record == nil {
		return errors.New("redisstore: nil record")
	}
	key := s.Key(record.Type, record.ID)
	fields := map[string]any{"id": record.ID}
	for _, name := range record.AttributeNames() {
		field, value := encodeField(name, record.Attributes[name])
		fields[field] = value
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: put %s: %w", key, err)
	}
	return nil
}

// Find implements update.Store. Declared single associations are exposed as
// a reference entity holding the stored id.
func (s *Store) Find(ctx context.Context, entityType, id string) (model.Entity, error) {
	key := s.Key(entityType, id)
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: find %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, model.NotFound(entityType, id)
	}
	attrs := make(map[string]any, len(fields))
	for field, value := range fields {
		attrs[field] = value
	}
	for attribute, target := range s.singleAssociations(entityType) {
		if fk, ok := fields[attribute+"_id"]; ok && fk != "" {
			attrs[attribute] = model.NewRecord(target, fk, nil)
		}
	}
	return model.NewRecord(entityType, id, attrs), nil
}

func (s *Store) singleAssociations(entityType string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	prefix := entityType + "."
	for key, assoc := range s.assocs {
		if strings.HasPrefix(key, prefix) && assoc.IsSingle() {
			out[strings.TrimPrefix(key, prefix)] = assoc.Target
		}
	}
	return out
}

// UpdateAttribute implements update.Store. The write is guarded by WATCH so
// an entity deleted concurrently is reported as not found instead of being
// recreated with a single field.
func (s *Store) UpdateAttribute(ctx context.Context, entity model.Entity, attribute string, value any) (model.Entity, error) {
	if entity == nil {
		return nil, errors.New("redisstore: nil entity")
	}
	ref := entity.Ref()
	key := s.Key(ref.Type, ref.ID)
	field, stored := encodeField(attribute, value)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return model.NotFound(ref.Type, ref.ID)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field, stored)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("redisstore: update %s.%s: %w", key, field, err)
	}

	saved, err := s.Find(ctx, ref.Type, ref.ID)
	if err != nil {
		return nil, err
	}
	if related, ok := value.(model.Entity); ok {
		saved.(*model.Record).Set(attribute, related)
	}
	return saved, nil
}

func encodeField(attribute string, value any) (string, string) {
	if related, ok := value.(model.Entity); ok {
		return attribute + "_id", related.Ref().ID
	}
	return attribute, model.DisplayText(value)
}
