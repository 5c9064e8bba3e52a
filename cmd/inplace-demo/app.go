package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/goliatone/go-inplace/internal/config"
	"github.com/goliatone/go-inplace/pkg/editor"
	"github.com/goliatone/go-inplace/pkg/field"
	"github.com/goliatone/go-inplace/pkg/forgery"
	"github.com/goliatone/go-inplace/pkg/model"
	"github.com/goliatone/go-inplace/pkg/update"
)

// app is the wired demo: a seeded backend, the update registry and the editor
// presets used by the page.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	backend  *backend
	registry *update.Registry
	presets  *editor.Presets
	guard    *forgery.Guard
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	if logger == nil {
		logger = slog.Default()
	}
	presets, err := loadPresets(cfg.PresetsDir)
	if err != nil {
		return nil, err
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := b.seed(ctx); err != nil {
		_ = b.close()
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		backend: b,
		presets: presets,
	}
	defaults := []update.OptionFn{update.WithLogger(logger.With("component", "update"))}
	if cfg.Forgery {
		a.guard = forgery.New()
		defaults = append(defaults, update.WithVerifier(a.guard.Verify))
	}
	a.registry = update.NewRegistry(b.store, defaults...)
	a.registry.MustRegister("post", "title")
	a.registry.MustRegister("post", "status", update.WithoutAssociation())
	a.registry.MustRegister("post", "author", update.WithDisplayAttribute("name"))
	return a, nil
}

func (a *app) Close() error {
	return a.backend.close()
}

func loadPresets(dir string) (*editor.Presets, error) {
	if strings.TrimSpace(dir) == "" {
		return editor.LoadPresets(nil)
	}
	presets, err := editor.LoadPresets(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("load presets from %s: %w", dir, err)
	}
	return presets, nil
}

// env returns the translation environment for a page request. The forgery
// cookie is issued here, so it must run before the body is written.
func (a *app) env(w http.ResponseWriter, r *http.Request) editor.Env {
	env := editor.Env{URLs: editor.RouteResolver{Base: a.cfg.BasePath}}
	if a.guard != nil && w != nil && r != nil {
		env.Forgery = a.guard.TokenSource(w, r)
	}
	return env
}

// editorOptions returns the preset named after the attribute when one is
// loaded, otherwise the built-in demo options.
func (a *app) editorOptions(ctx context.Context, attribute string) (editor.Options, error) {
	if opts, ok := a.presets.Get(attribute); ok {
		return opts, nil
	}
	switch attribute {
	case "status":
		return editor.Options{Collection: editor.Values("draft", "published", "archived")}, nil
	case "author":
		choices := make([]editor.Choice, 0, len(demoAuthors))
		for _, seeded := range demoAuthors {
			author, err := a.backend.store.Find(ctx, "author", seeded.ID)
			if err != nil {
				return editor.Options{}, err
			}
			name, _ := author.Get("name")
			choices = append(choices, editor.NewChoice(author.Ref().ID, model.DisplayText(name)))
		}
		return editor.Options{Collection: editor.Choices(choices...)}, nil
	default:
		return editor.Options{
			CancelText:      "cancel",
			SaveText:        "save",
			ClickToEditText: "Click to edit",
			HighlightColor:  "#ffff99",
		}, nil
	}
}

// renderField renders one editable attribute of entity.
func (a *app) renderField(ctx context.Context, env editor.Env, entity model.Entity, attribute string, tag field.TagOptions) (string, error) {
	opts, err := a.editorOptions(ctx, attribute)
	if err != nil {
		return "", err
	}
	if attribute == "author" && tag.Display == "" {
		tag.Display, err = a.authorName(ctx, entity)
		if err != nil {
			return "", err
		}
	}
	return field.New(env).Render(entity, attribute, tag, opts)
}

// authorName resolves the display name of a post's author whether the store
// returns the associated entity or only its foreign key.
func (a *app) authorName(ctx context.Context, post model.Entity) (string, error) {
	var id string
	if value, ok := post.Get("author"); ok {
		if related, isEntity := value.(model.Entity); isEntity {
			id = related.Ref().ID
		} else {
			id = model.DisplayText(value)
		}
	} else if value, ok := post.Get("author_id"); ok {
		id = model.DisplayText(value)
	}
	if id == "" {
		return "", nil
	}
	author, err := a.backend.store.Find(ctx, "author", id)
	if err != nil {
		return "", err
	}
	name, _ := author.Get("name")
	return model.DisplayText(name), nil
}
