package update

import (
	"fmt"
	"net/http"
	"path"
	"strings"
)

// Mux receives the update actions. *http.ServeMux and chi.Router both fit.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the route of an action under basePath.
func MountPath(basePath, action string) string {
	return mountPath(basePath, action)
}

// RegisterRoutes mounts every registered action under basePath and returns
// the registered patterns in action order.
func (r *Registry) RegisterRoutes(mux Mux, basePath string) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("update: missing mux")
	}
	actions := r.Actions()
	patterns := make([]string, 0, len(actions))
	for _, action := range actions {
		handler, ok := r.Lookup(action.Name)
		if !ok {
			continue
		}
		pattern := mountPath(basePath, action.Name)
		mux.Handle(pattern, handler)
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

// mountPath joins basePath and action into a rooted, clean route.
func mountPath(basePath, action string) string {
	return path.Join("/", strings.TrimSpace(basePath), strings.TrimSpace(action))
}
