package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-inplace/pkg/field"
)

var renderCmd = &cli.Command{
	Name:  "render",
	Usage: "Print the editable markup for one entity attribute",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "type", Value: "post", Usage: "Entity type"},
		&cli.StringFlag{Name: "id", Value: "1", Usage: "Entity id"},
		&cli.StringFlag{Name: "attr", Value: "title", Usage: "Attribute to edit"},
		&cli.StringFlag{Name: "tag", Usage: "Wrapping element, span by default"},
		&cli.StringFlag{Name: "base-path", Usage: "Mount path of the update actions"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return cli.Exit(err, 1)
		}
		cfg.Forgery = false
		logger, err := setupLogger(cfg)
		if err != nil {
			return cli.Exit(err, 1)
		}
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer a.Close()

		return a.render(ctx, os.Stdout, cmd.String("type"), cmd.String("id"), cmd.String("attr"), cmd.String("tag"))
	},
}

func (a *app) render(ctx context.Context, w io.Writer, entityType, id, attribute, tag string) error {
	entity, err := a.backend.store.Find(ctx, entityType, id)
	if err != nil {
		return err
	}
	markup, err := a.renderField(ctx, a.env(nil, nil), entity, attribute, field.TagOptions{Tag: tag})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, markup)
	return err
}

var openapiCmd = &cli.Command{
	Name:  "openapi",
	Usage: "Print the OpenAPI description of the update actions",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "base-path", Usage: "Mount path of the update actions"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return cli.Exit(err, 1)
		}
		cfg.Store = "memory"
		a, err := newApp(ctx, cfg, nil)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer a.Close()

		doc, err := a.registry.OpenAPI(ctx, cfg.BasePath, "", cmd.Root().Version)
		if err != nil {
			return cli.Exit(err, 1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}
