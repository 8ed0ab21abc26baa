package app

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// newLogger creates a configured slog.Logger instance. It does not set
// the global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	switch formatStr {
	case "text":
		handler = slog.NewTextHandler(outW, &slog.HandlerOptions{Level: level})
	case "pretty":
		handler = tint.NewHandler(outW, &tint.Options{Level: level})
	default:
		handler = slog.NewJSONHandler(outW, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}
