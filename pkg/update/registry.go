package update

import (
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-inplace/pkg/model"
)

// Action describes a registered update endpoint.
type Action struct {
	Name       string
	EntityType string
	Attribute  string
	Options    Options
}

// Registry is the lookup table of update actions. Hosts register every
// editable (entity type, attribute) pair at startup.
type Registry struct {
	mu       sync.RWMutex
	store    Store
	defaults []OptionFn
	actions  map[string]registered
}

type registered struct {
	action  Action
	handler http.Handler
}

// NewRegistry creates a registry whose handlers use store. defaults apply to
// every action before the per-action options.
func NewRegistry(store Store, defaults ...OptionFn) *Registry {
	return &Registry{
		store:    store,
		defaults: append([]OptionFn(nil), defaults...),
		actions:  make(map[string]registered),
	}
}

// Register adds the update action for entityType.attribute and returns its
// name. Registering the same pair twice is an error.
func (r *Registry) Register(entityType, attribute string, fns ...OptionFn) (string, error) {
	if r == nil {
		return "", fmt.Errorf("update: nil registry")
	}
	entityType = strings.TrimSpace(entityType)
	attribute = strings.TrimSpace(attribute)
	if entityType == "" || attribute == "" {
		return "", fmt.Errorf("update: register requires entity type and attribute (got %q, %q)", entityType, attribute)
	}

	name := model.ActionName(entityType, attribute)
	opts := NewOptions(append(append([]OptionFn(nil), r.defaults...), fns...)...)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[name]; exists {
		return "", fmt.Errorf("update: action %q already registered", name)
	}
	r.actions[name] = registered{
		action: Action{
			Name:       name,
			EntityType: entityType,
			Attribute:  attribute,
			Options:    opts,
		},
		handler: HandlerWithOptions(r.store, entityType, attribute, opts),
	}
	return name, nil
}

// MustRegister is Register that panics on error, for static wiring.
func (r *Registry) MustRegister(entityType, attribute string, fns ...OptionFn) string {
	name, err := r.Register(entityType, attribute, fns...)
	if err != nil {
		panic(err)
	}
	return name
}

// Handler returns the handler registered for entityType.attribute.
func (r *Registry) Handler(entityType, attribute string) (http.Handler, bool) {
	return r.Lookup(model.ActionName(entityType, attribute))
}

// Lookup returns the handler registered under an action name.
func (r *Registry) Lookup(action string) (http.Handler, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.actions[action]
	if !ok {
		return nil, false
	}
	return entry.handler, true
}

// Actions lists registered actions sorted by name.
func (r *Registry) Actions() []Action {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Action, 0, len(r.actions))
	for _, entry := range r.actions {
		out = append(out, entry.action)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ServeHTTP dispatches on the last path segment, so the registry can be
// mounted under a prefix as a single handler.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler, ok := r.Lookup(path.Base(req.URL.Path))
	if !ok {
		http.NotFound(w, req)
		return
	}
	handler.ServeHTTP(w, req)
}
