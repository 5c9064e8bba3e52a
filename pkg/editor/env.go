package editor

// TokenSource yields the request forgery token injected into submissions.
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc adapts a function into a TokenSource.
type TokenFunc func() (string, error)

// Token calls fn.
func (fn TokenFunc) Token() (string, error) {
	return fn()
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// Env carries the per-request collaborators of a translation. A nil Forgery
// disables forgery protection; a nil URLs falls back to RouteResolver{}.
type Env struct {
	URLs    URLResolver
	Forgery TokenSource
}

func (e Env) resolver() URLResolver {
	if e.URLs == nil {
		return RouteResolver{}
	}
	return e.URLs
}
