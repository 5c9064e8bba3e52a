package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-inplace/pkg/field"
)

const pageScripts = `<script src="https://ajax.googleapis.com/ajax/libs/prototype/1.7.3.0/prototype.js"></script>
<script src="https://ajax.googleapis.com/ajax/libs/scriptaculous/1.9.0/scriptaculous.js?load=effects,controls"></script>`

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Serve a demo page with editable posts and the update endpoints",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "HTTP listen address"},
		&cli.StringFlag{Name: "base-path", Usage: "Mount path of the update actions"},
		&cli.BoolFlag{Name: "no-forgery", Usage: "Disable request forgery protection"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return cli.Exit(err, 1)
		}
		logger, err := setupLogger(cfg)
		if err != nil {
			return cli.Exit(err, 1)
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to start: %w", err), 1)
		}
		defer a.Close()

		router, err := a.router()
		if err != nil {
			return cli.Exit(err, 1)
		}
		srv := &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", cfg.Addr, "store", cfg.Store, "base_path", cfg.BasePath)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return cli.Exit(fmt.Errorf("server error: %w", err), 1)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func (a *app) router() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.accessLog)

	r.Get("/", a.handlePage)
	r.Get("/openapi.json", a.handleOpenAPI)
	if _, err := a.registry.RegisterRoutes(r, a.cfg.BasePath); err != nil {
		return nil, err
	}
	return r, nil
}

func (a *app) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.LogAttrs(r.Context(), slog.LevelDebug, "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (a *app) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := a.env(w, r)

	var body strings.Builder
	body.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<title>In-place editing</title>\n")
	body.WriteString(pageScripts)
	body.WriteString("\n</head>\n<body>\n")
	for _, seeded := range demoPosts {
		post, err := a.backend.store.Find(ctx, "post", seeded.ID)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		body.WriteString("<article>\n")
		for _, attr := range []struct{ name, tag string }{{"title", "h2"}, {"status", "p"}, {"author", "p"}} {
			markup, err := a.renderField(ctx, env, post, attr.name, field.TagOptions{Tag: attr.tag})
			if err != nil {
				a.fail(w, r, err)
				return
			}
			fmt.Fprintf(&body, "<label>%s</label>\n%s\n", html.EscapeString(attr.name), markup)
		}
		body.WriteString("</article>\n")
	}
	body.WriteString("</body>\n</html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body.String()))
}

func (a *app) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := a.registry.OpenAPI(r.Context(), a.cfg.BasePath, "", Version)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(doc)
}

func (a *app) fail(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.ErrorContext(r.Context(), "demo request failed", "path", r.URL.Path, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
