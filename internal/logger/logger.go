package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey string

const cycleIDKey ctxKey = "cycleID"

// InitLogger installs the default slog logger per config, writing to stdout.
func InitLogger(cfg Config) {
	InitLoggerWithWriter(cfg, os.Stdout)
}

// InitLoggerWithWriter installs the default slog logger writing to w.
// Split out so tests can capture output.
func InitLoggerWithWriter(cfg Config, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	attrs := make([]any, 0, len(cfg.BaseAttributes()))
	for _, attr := range cfg.BaseAttributes() {
		attrs = append(attrs, attr)
	}

	slog.SetDefault(slog.New(handler).With(attrs...))
}

// GenerateCycleID creates a new UUID for tracing one polling cycle.
func GenerateCycleID() string {
	return uuid.NewString()
}

// WithCycleID returns a new context containing the polling cycle ID.
func WithCycleID(ctx context.Context, cycleID string) context.Context {
	return context.WithValue(ctx, cycleIDKey, cycleID)
}

// CycleIDFromContext extracts the cycle ID from the context, if present.
func CycleIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(cycleIDKey)
	if v == nil {
		return "", false
	}
	if id, ok := v.(string); ok {
		return id, true
	}
	return "", false
}

// FromContext returns a logger that includes the cycle_id attribute when present.
func FromContext(ctx context.Context) *slog.Logger {
	if id, ok := CycleIDFromContext(ctx); ok {
		return slog.Default().With(AttrKeyCycleID, id)
	}
	return slog.Default()
}

// Package-level helpers mirroring slog for call sites without a context

func Debug(msg string, args ...any) { slog.Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { slog.Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Default().Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Default().Error(msg, args...) }
