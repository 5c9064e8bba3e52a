package update

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-inplace/pkg/model"
)

// DisplayFunc turns the persisted attribute value into response text. The
// result is HTML-escaped by the handler.
type DisplayFunc func(value any) (string, error)

// VerifierFunc validates a request before any store access, typically the
// forgery guard's Verify.
type VerifierFunc func(r *http.Request) error

// Options configures a handler.
type Options struct {
	IDParam    string
	ValueParam string
	// Association enables resolving one-to-one associations by id.
	Association bool
	Display     DisplayFunc
	Verifier    VerifierFunc
	Logger      *slog.Logger
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the handler defaults.
func DefaultOptions() Options {
	return Options{
		IDParam:     "id",
		ValueParam:  "value",
		Association: true,
		Display:     defaultDisplay,
	}
}

// NewOptions applies fns over DefaultOptions and restores defaults for
// fields left empty.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if strings.TrimSpace(opts.IDParam) == "" {
		opts.IDParam = "id"
	}
	if strings.TrimSpace(opts.ValueParam) == "" {
		opts.ValueParam = "value"
	}
	if opts.Display == nil {
		opts.Display = defaultDisplay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

// WithoutAssociation assigns submitted values directly even when the
// attribute is an association.
func WithoutAssociation() OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Association = false
	}
}

// WithDisplay replaces the default display coercion.
func WithDisplay(fn DisplayFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Display = fn
	}
}

// WithDisplayAttribute renders associated entities through one of their
// attributes instead of their id. Plain values use the default coercion.
func WithDisplayAttribute(attribute string) OptionFn {
	return WithDisplay(func(value any) (string, error) {
		entity, ok := value.(model.Entity)
		if !ok || entity == nil {
			return defaultDisplay(value)
		}
		attr, _ := entity.Get(attribute)
		return model.DisplayText(attr), nil
	})
}

// WithVerifier installs a request check run after the method check.
func WithVerifier(fn VerifierFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Verifier = fn
	}
}

// WithLogger sets the logger used for store failures.
func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithParams renames the id and value request parameters.
func WithParams(idParam, valueParam string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.IDParam = idParam
		o.ValueParam = valueParam
	}
}

func defaultDisplay(value any) (string, error) {
	return model.DisplayText(value), nil
}
