package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the process logger and installs it as slog's default.
// Development gets a text handler, anything else JSON.
func New(env, level string) *slog.Logger {
	return newWithWriter(os.Stdout, env, level)
}

func newWithWriter(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if env == "development" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	log := slog.New(handler).With(slog.String("service", "platform_freelance"))
	slog.SetDefault(log)
	return log
}

// ParseLevel maps LOG_LEVEL values; unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
