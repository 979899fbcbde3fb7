// Package logging configures the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits one step below slog.LevelDebug so --loglevel=trace (a
// value the CLI accepts but slog has no built-in level for) still maps
// onto the standard handlers.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Config selects the logger's verbosity and output shape. StructuredFormat
// picks between "text" and "json" handlers when Structured is set;
// unstructured output uses the text handler either way.
type Config struct {
	Level            string
	Structured       bool
	StructuredFormat string
}

// Configure builds a slog.Logger writing to stderr, installs it as the
// process default, and returns it.
func Configure(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Structured && strings.EqualFold(cfg.StructuredFormat, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
