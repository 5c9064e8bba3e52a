package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-inplace/internal/config"
	"github.com/goliatone/go-inplace/internal/logging"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "store", Usage: "Entity store: memory, sql or redis"},
		&cli.StringFlag{Name: "driver", Usage: "database/sql driver: sqlite3, postgres or mysql"},
		&cli.StringFlag{Name: "dsn", Usage: "database/sql data source name"},
		&cli.StringFlag{Name: "redis-addr", Usage: "Redis address for the redis store"},
		&cli.StringFlag{Name: "presets", Usage: "Directory of YAML/JSON editor presets"},
		&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
		&cli.StringFlag{Name: "log-format", Usage: "text or json"},
	}
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	overrides := map[string]*string{
		"store":      &cfg.Store,
		"driver":     &cfg.SQLDriver,
		"dsn":        &cfg.SQLDSN,
		"redis-addr": &cfg.RedisAddr,
		"presets":    &cfg.PresetsDir,
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
		"listen":     &cfg.Addr,
		"base-path":  &cfg.BasePath,
	}
	for name, target := range overrides {
		if cmd.IsSet(name) {
			*target = cmd.String(name)
		}
	}
	if cmd.IsSet("no-forgery") {
		cfg.Forgery = !cmd.Bool("no-forgery")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setupLogger(cfg config.Config) (*slog.Logger, error) {
	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	slog.SetDefault(logger)
	return logger, nil
}
