// Package logging builds the slog loggers used by the demo binary.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps a level name onto slog. "trace" is debug with caller
// reporting; unknown names fall back to info.
func ParseLevel(name string) (level slog.Level, withCaller bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return slog.LevelDebug, true
	case "debug":
		return slog.LevelDebug, false
	case "warn", "warning":
		return slog.LevelWarn, false
	case "error":
		return slog.LevelError, false
	default:
		return slog.LevelInfo, false
	}
}

// TextHandler returns a charmbracelet handler writing human readable lines.
// Timestamps are only shown at debug and trace.
func TextHandler(levelName string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	level, withCaller := ParseLevel(levelName)
	return log.NewWithOptions(w, log.Options{
		Level:           log.Level(level),
		ReportCaller:    withCaller,
		ReportTimestamp: level <= slog.LevelDebug,
	})
}

// JSONHandler returns a slog JSON handler.
func JSONHandler(levelName string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stdout
	}
	level, withCaller := ParseLevel(levelName)
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: withCaller,
	})
}

// New builds a logger in the given format.
func New(format, levelName string, w io.Writer) (*slog.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return slog.New(TextHandler(levelName, w)), nil
	case FormatJSON:
		return slog.New(JSONHandler(levelName, w)), nil
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
}
