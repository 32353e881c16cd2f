// Package observability carries build-scoped logging context and phase spans.
package observability

import (
	"context"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	BuildID string
	Phase   string
	Builder string
	Group   string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithPhase adds a phase name to the context.
func WithPhase(ctx context.Context, phase string) context.Context {
	lc := extractLogContext(ctx)
	lc.Phase = phase
	return context.WithValue(ctx, logContextKey, lc)
}

// WithInvocation scopes the context to one builder call on one group.
func WithInvocation(ctx context.Context, builder, group string) context.Context {
	lc := extractLogContext(ctx)
	lc.Builder = builder
	lc.Group = group
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

// Attrs returns slog attributes for the context's LogContext.
func Attrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	var attrs []slog.Attr
	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Phase != "" {
		attrs = append(attrs, logfields.Phase(lc.Phase))
	}
	if lc.Builder != "" {
		attrs = append(attrs, logfields.Builder(lc.Builder))
	}
	if lc.Group != "" {
		attrs = append(attrs, logfields.Group(lc.Group))
	}
	return attrs
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelDebug, msg, attrs)
}

// logAttrs writes to the default logger. Context attributes are added here
// unless the default handler already adds them.
func logAttrs(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	logger := slog.Default()
	if _, ok := logger.Handler().(ContextHandler); !ok {
		attrs = append(Attrs(ctx), attrs...)
	}
	logger.LogAttrs(ctx, level, msg, attrs...)
}

// ContextHandler decorates a slog.Handler so that every record logged with
// a context also carries that context's LogContext attributes. Builders that
// log through slog.InfoContext get the build ID and invocation for free.
type ContextHandler struct {
	slog.Handler
}

// Handle adds the LogContext attributes and delegates.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := Attrs(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{h.Handler.WithGroup(name)}
}

// ContextAware returns l with a ContextHandler, wrapping it only when needed.
func ContextAware(l *slog.Logger) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	if _, ok := l.Handler().(ContextHandler); ok {
		return l
	}
	return slog.New(ContextHandler{l.Handler()})
}

// NewLogger builds a context-aware logger writing text or JSON to w.
func NewLogger(w io.Writer, level slog.Leveler, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(ContextHandler{h})
}
