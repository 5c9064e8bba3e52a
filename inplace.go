// Package inplace exposes the in-place editing helpers from the module root:
// the editor configuration translator, the field renderer and the update
// endpoint handlers.
package inplace

import (
	"net/http"

	"github.com/goliatone/go-inplace/pkg/editor"
	"github.com/goliatone/go-inplace/pkg/field"
	"github.com/goliatone/go-inplace/pkg/model"
	"github.com/goliatone/go-inplace/pkg/update"
)

// Options aliases editor.Options so callers can configure editors without
// importing the subpackage.
type Options = editor.Options

// Env aliases editor.Env.
type Env = editor.Env

// TagOptions aliases field.TagOptions.
type TagOptions = field.TagOptions

// Entity aliases model.Entity.
type Entity = model.Entity

// Store aliases update.Store.
type Store = update.Store

// Render builds the editable element for entity.attribute plus its
// activation script.
func Render(env Env, entity Entity, attribute string, tag TagOptions, opts Options) (string, error) {
	return field.New(env).Render(entity, attribute, tag, opts)
}

// Script returns the activation script for an element already on the page.
func Script(fieldID string, opts Options, env Env) (string, error) {
	return editor.Script(fieldID, opts, env)
}

// NewHandler returns the update endpoint for entityType.attribute.
func NewHandler(store Store, entityType, attribute string, fns ...update.OptionFn) http.Handler {
	return update.NewHandler(store, entityType, attribute, fns...)
}

// NewRegistry returns an empty update action registry backed by store.
func NewRegistry(store Store, defaults ...update.OptionFn) *update.Registry {
	return update.NewRegistry(store, defaults...)
}
