package editor

import (
	"net/url"
	"strings"
)

// Endpoint references a server route. It is either a literal URL or a route
// descriptor (action plus optional id and params) that a URLResolver turns
// into a URL.
type Endpoint struct {
	URL    string
	Action string
	ID     string
	Params map[string]string
}

// URL returns an Endpoint for a ready-made URL.
func URL(raw string) Endpoint {
	return Endpoint{URL: raw}
}

// Route returns an Endpoint describing action, optionally scoped to id.
func Route(action, id string) Endpoint {
	return Endpoint{Action: action, ID: id}
}

// IsZero reports whether no endpoint was configured.
func (e Endpoint) IsZero() bool {
	return strings.TrimSpace(e.URL) == "" && strings.TrimSpace(e.Action) == "" && e.ID == "" && len(e.Params) == 0
}

func (e Endpoint) clone() Endpoint {
	out := e
	if len(e.Params) > 0 {
		out.Params = make(map[string]string, len(e.Params))
		for key, value := range e.Params {
			out.Params[key] = value
		}
	}
	return out
}

// URLResolver maps an Endpoint to the URL emitted in the widget call.
type URLResolver interface {
	URLFor(Endpoint) (string, error)
}

// URLResolverFunc adapts a function into a URLResolver.
type URLResolverFunc func(Endpoint) (string, error)

// URLFor calls fn.
func (fn URLResolverFunc) URLFor(e Endpoint) (string, error) {
	return fn(e)
}

// RouteResolver is the default URLResolver. Literal URLs pass through; route
// descriptors resolve to Base+Action with id and params encoded in the query
// string (keys sorted).
type RouteResolver struct {
	Base string
}

// URLFor implements URLResolver.
func (r RouteResolver) URLFor(e Endpoint) (string, error) {
	if raw := strings.TrimSpace(e.URL); raw != "" {
		return raw, nil
	}
	action := strings.TrimSpace(e.Action)
	if action == "" {
		return "", invalidf("route endpoint missing action")
	}

	base := r.Base
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	target := base + strings.TrimPrefix(action, "/")

	query := url.Values{}
	if e.ID != "" {
		query.Set("id", e.ID)
	}
	for key, value := range e.Params {
		if strings.TrimSpace(key) == "" {
			continue
		}
		query.Set(key, value)
	}
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target, nil
}
