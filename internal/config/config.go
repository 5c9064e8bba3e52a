// Package config loads the demo server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQL    = "sql"
	StoreRedis  = "redis"
)

// Config holds the demo settings. Flags override the decoded values.
type Config struct {
	Addr            string        `env:"INPLACE_ADDR,default=:8080"`
	BasePath        string        `env:"INPLACE_BASE_PATH,default=/inplace"`
	LogLevel        string        `env:"INPLACE_LOG_LEVEL,default=info"`
	LogFormat       string        `env:"INPLACE_LOG_FORMAT,default=text"`
	Store           string        `env:"INPLACE_STORE,default=memory"`
	SQLDriver       string        `env:"INPLACE_SQL_DRIVER,default=sqlite3"`
	SQLDSN          string        `env:"INPLACE_SQL_DSN,default=file:inplace.db?cache=shared"`
	TablePrefix     string        `env:"INPLACE_TABLE_PREFIX"`
	RedisAddr       string        `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPrefix     string        `env:"INPLACE_REDIS_PREFIX,default=inplace:"`
	PresetsDir      string        `env:"INPLACE_PRESETS_DIR"`
	Forgery         bool          `env:"INPLACE_FORGERY,default=true"`
	ShutdownTimeout time.Duration `env:"INPLACE_SHUTDOWN_TIMEOUT,default=5s"`
}

// Load decodes Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: decode env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the store selection and its required settings.
func (c Config) Validate() error {
	switch strings.ToLower(c.Store) {
	case StoreMemory:
	case StoreSQL:
		if strings.TrimSpace(c.SQLDriver) == "" || strings.TrimSpace(c.SQLDSN) == "" {
			return fmt.Errorf("config: sql store requires driver and dsn")
		}
	case StoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("config: redis store requires an address")
		}
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("config: negative shutdown timeout")
	}
	return nil
}
