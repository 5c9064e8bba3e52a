package update

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-inplace/pkg/model"
)

// MethodNotAllowedBody is the fixed body written for disallowed methods.
const MethodNotAllowedBody = "Method not allowed"

// NewHandler builds the update handler for entityType.attribute.
func NewHandler(store Store, entityType, attribute string, fns ...OptionFn) http.Handler {
	return HandlerWithOptions(store, entityType, attribute, NewOptions(fns...))
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
func HandlerWithOptions(store Store, entityType, attribute string, opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	h := &handler{
		store:      store,
		entityType: strings.TrimSpace(entityType),
		attribute:  strings.TrimSpace(attribute),
		opts:       opts,
	}
	return h
}

type handler struct {
	store      Store
	entityType string
	attribute  string
	opts       Options
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		w.Header().Set("Allow", http.MethodPost+", "+http.MethodPut)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = io.WriteString(w, MethodNotAllowedBody)
		return
	}

	if h.opts.Verifier != nil {
		if err := h.opts.Verifier(r); err != nil {
			h.fail(w, r, StatusError{Code: http.StatusUnprocessableEntity, Err: err})
			return
		}
	}

	text, err := h.update(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, model.EscapeHTML(text))
}

func (h *handler) update(r *http.Request) (string, error) {
	if h.store == nil {
		return "", errors.New("update: no store configured")
	}
	ctx := r.Context()

	id := strings.TrimSpace(r.FormValue(h.opts.IDParam))
	if id == "" {
		id = strings.TrimSpace(r.PathValue(h.opts.IDParam))
	}
	if id == "" {
		return "", StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("update: missing %q parameter", h.opts.IDParam)}
	}
	value := r.FormValue(h.opts.ValueParam)

	entity, err := h.store.Find(ctx, h.entityType, id)
	if err != nil {
		return "", fmt.Errorf("update: find %s %s: %w", h.entityType, id, err)
	}

	var assigned any = value
	if h.opts.Association {
		if assoc := h.store.Association(h.entityType, h.attribute); assoc.IsSingle() {
			target, err := h.store.Find(ctx, assoc.Target, strings.TrimSpace(value))
			if err != nil {
				return "", fmt.Errorf("update: resolve %s.%s: %w", h.entityType, h.attribute, err)
			}
			assigned = target
		}
	}

	saved, err := h.store.UpdateAttribute(ctx, entity, h.attribute, assigned)
	if err != nil {
		return "", fmt.Errorf("update: save %s.%s: %w", h.entityType, h.attribute, err)
	}

	if saved == nil {
		saved = entity
	}
	current, _ := saved.Get(h.attribute)
	text, err := h.opts.Display(current)
	if err != nil {
		return "", fmt.Errorf("update: display %s.%s: %w", h.entityType, h.attribute, err)
	}
	return text, nil
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.opts.Logger.ErrorContext(r.Context(), "in-place update failed",
			"entity", h.entityType,
			"attribute", h.attribute,
			"err", err,
		)
	} else {
		h.opts.Logger.DebugContext(r.Context(), "in-place update rejected",
			"entity", h.entityType,
			"attribute", h.attribute,
			"status", code,
			"err", err,
		)
	}
	http.Error(w, http.StatusText(code), code)
}
