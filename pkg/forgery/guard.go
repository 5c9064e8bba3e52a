// Package forgery issues and verifies request forgery tokens using the
// double-submit cookie pattern. Tokens are handed to the editor translator
// through TokenSource and checked by update handlers through Verify.
package forgery

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-inplace/pkg/editor"
)

// DefaultField is the form parameter carrying the token, matching the
// payload suffix appended by the editor translator.
const DefaultField = "authenticity_token"

// ErrInvalidToken is returned by Verify when the submitted token is missing
// or does not match the issued one.
var ErrInvalidToken = errors.New("forgery: invalid authenticity token")

// Options configures a Guard.
type Options struct {
	CookieName string
	FieldName  string
	HeaderName string
	Path       string
	Secure     bool
	// NewToken mints fresh tokens. Defaults to random UUIDs.
	NewToken func() string
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the guard defaults.
func DefaultOptions() Options {
	return Options{
		CookieName: "_inplace_csrf",
		FieldName:  DefaultField,
		HeaderName: "X-CSRF-Token",
		Path:       "/",
		NewToken:   uuid.NewString,
	}
}

// NewOptions applies fns over DefaultOptions and restores defaults for any
// field left empty.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	defaults := DefaultOptions()
	if strings.TrimSpace(opts.CookieName) == "" {
		opts.CookieName = defaults.CookieName
	}
	if strings.TrimSpace(opts.FieldName) == "" {
		opts.FieldName = defaults.FieldName
	}
	if strings.TrimSpace(opts.Path) == "" {
		opts.Path = defaults.Path
	}
	if opts.NewToken == nil {
		opts.NewToken = defaults.NewToken
	}
	return opts
}

// WithCookieName overrides the cookie holding the issued token.
func WithCookieName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
	}
}

// WithSecureCookie marks the token cookie Secure.
func WithSecureCookie(secure bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Secure = secure
	}
}

// WithTokenGenerator replaces the UUID generator, mostly for tests.
func WithTokenGenerator(fn func() string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.NewToken = fn
	}
}

// Guard issues tokens into a cookie and verifies submissions against it.
type Guard struct {
	opts Options
}

// New constructs a Guard.
func New(fns ...OptionFn) *Guard {
	return &Guard{opts: NewOptions(fns...)}
}

// Issue returns the token bound to the request, setting the cookie when the
// request does not carry one yet.
func (g *Guard) Issue(w http.ResponseWriter, r *http.Request) string {
	if token := g.current(r); token != "" {
		return token
	}
	token := g.opts.NewToken()
	if w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     g.opts.CookieName,
			Value:    token,
			Path:     g.opts.Path,
			HttpOnly: true,
			Secure:   g.opts.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return token
}

// TokenSource issues a token for the request and exposes it to the editor
// translator.
func (g *Guard) TokenSource(w http.ResponseWriter, r *http.Request) editor.TokenSource {
	return editor.StaticToken(g.Issue(w, r))
}

// Verify checks the submitted token (form field or header) against the
// cookie.
func (g *Guard) Verify(r *http.Request) error {
	if r == nil {
		return ErrInvalidToken
	}
	expected := g.current(r)
	if expected == "" {
		return ErrInvalidToken
	}
	submitted := r.FormValue(g.opts.FieldName)
	if submitted == "" && g.opts.HeaderName != "" {
		submitted = r.Header.Get(g.opts.HeaderName)
	}
	if submitted == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1 {
		return ErrInvalidToken
	}
	return nil
}

func (g *Guard) current(r *http.Request) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(g.opts.CookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
