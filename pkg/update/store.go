package update

import (
	"context"

	"github.com/goliatone/go-inplace/pkg/model"
)

// Store is the persistence capability the handlers depend on.
type Store interface {
	// Find loads an entity. Misses must wrap model.ErrNotFound.
	Find(ctx context.Context, entityType, id string) (model.Entity, error)
	// UpdateAttribute assigns value (a raw string or a model.Entity for
	// one-to-one associations) and returns the persisted entity.
	UpdateAttribute(ctx context.Context, entity model.Entity, attribute string, value any) (model.Entity, error)
	// Association reports how attribute relates to other entity types.
	Association(entityType, attribute string) model.Association
}
