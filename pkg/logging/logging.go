// Package logging configures structured logging on top of log/slog.
//
// Two output formats are supported: "tint" (colored, human-oriented, the
// default for local development) and "json" (one object per line, meant for
// log shippers). Format and level normally come from the application config;
// Setup falls back to the LOG_LEVEL and LOG_FORMAT environment variables so
// small commands can call it with no arguments.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures the default slog logger from LOG_LEVEL and LOG_FORMAT.
func Setup() {
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure installs a default slog logger with the given level ("debug",
// "info", "warn", "error") and format ("tint" or "json"). Unrecognized
// values fall back to info/tint.
func Configure(level, format string) {
	lvl := parseLevel(level)

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	default:
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
		})
	}

	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
