package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned (wrapped) by stores when an entity lookup misses.
var ErrNotFound = errors.New("entity not found")

// Ref identifies an entity by type name and identifier.
type Ref struct {
	Type string
	ID   string
}

func (r Ref) String() string {
	return r.Type + "#" + r.ID
}

// Entity is the read-side view stores hand out. Renderers only need the type,
// the identifier and attribute access.
type Entity interface {
	Ref() Ref
	Get(attribute string) (any, bool)
}

// Record is a map-backed Entity used by the bundled stores.
type Record struct {
	Type       string
	ID         string
	Attributes map[string]any
}

var _ Entity = (*Record)(nil)

// NewRecord returns a record with a copy of attrs.
func NewRecord(entityType, id string, attrs map[string]any) *Record {
	return &Record{
		Type:       entityType,
		ID:         id,
		Attributes: cloneAttributes(attrs),
	}
}

// Ref implements Entity.
func (r *Record) Ref() Ref {
	if r == nil {
		return Ref{}
	}
	return Ref{Type: r.Type, ID: r.ID}
}

// Get implements Entity. The "id" attribute always resolves to the record id.
func (r *Record) Get(attribute string) (any, bool) {
	if r == nil {
		return nil, false
	}
	if attribute == "id" {
		return r.ID, true
	}
	value, ok := r.Attributes[attribute]
	return value, ok
}

// Set assigns an attribute in place.
func (r *Record) Set(attribute string, value any) {
	if r.Attributes == nil {
		r.Attributes = make(map[string]any)
	}
	r.Attributes[attribute] = value
}

// Clone returns a deep enough copy for store isolation: nested records are
// cloned, other values are copied by assignment.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return NewRecord(r.Type, r.ID, r.Attributes)
}

// AttributeNames returns the record's attribute keys sorted.
func (r *Record) AttributeNames() []string {
	if r == nil || len(r.Attributes) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Attributes))
	for name := range r.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Record) String() string {
	if r == nil {
		return ""
	}
	return r.ID
}

func cloneAttributes(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return make(map[string]any)
	}
	out := make(map[string]any, len(attrs))
	for key, value := range attrs {
		if nested, ok := value.(*Record); ok {
			value = nested.Clone()
		}
		out[key] = value
	}
	return out
}

// ActionName returns the conventional update action for an entity type and
// attribute pair, e.g. set_post_title.
func ActionName(entityType, attribute string) string {
	return "set_" + strings.TrimSpace(entityType) + "_" + strings.TrimSpace(attribute)
}

// NotFound builds an ErrNotFound wrapper for the given reference.
func NotFound(entityType, id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, Ref{Type: entityType, ID: id})
}
