package events

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// LogSink writes events to a slog.Logger. Per-file selections log at debug level.
type LogSink struct {
	Logger *slog.Logger
}

// NewLogSink returns a sink writing to logger (slog.Default when nil).
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{Logger: logger}
}

func (s *LogSink) Emit(ctx context.Context, e Event) {
	attrs := attrsFor(e)
	switch e.Type {
	case FileSelected, PhaseStarted, BuilderRegistered:
		s.Logger.LogAttrs(ctx, slog.LevelDebug, message(e.Type), attrs...)
	case RootMissing:
		s.Logger.LogAttrs(ctx, slog.LevelWarn, message(e.Type), attrs...)
	default:
		level := slog.LevelInfo
		if e.Error != "" {
			level = slog.LevelError
		}
		s.Logger.LogAttrs(ctx, level, message(e.Type), attrs...)
	}
}

func message(t Type) string {
	switch t {
	case BuilderRegistered:
		return "Register builder"
	case RootMissing:
		return "Source root not found"
	case FileSelected:
		return "Select"
	case FileIgnored:
		return "Ignore"
	case FileDuplicate:
		return "Duplicate"
	case PhaseStarted:
		return "Phase started"
	case PhaseCompleted:
		return "Phase completed"
	case BuilderInvoked:
		return "Builder invoked"
	case BuildCompleted:
		return "Build completed"
	default:
		return string(t)
	}
}

func attrsFor(e Event) []slog.Attr {
	attrs := make([]slog.Attr, 0, 8)
	if e.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(e.BuildID))
	}
	if e.Phase != "" {
		attrs = append(attrs, logfields.Phase(e.Phase))
	}
	if e.Builder != "" {
		attrs = append(attrs, logfields.Builder(e.Builder))
	}
	if e.Group != "" {
		attrs = append(attrs, logfields.Group(e.Group))
	}
	if e.Pattern != "" {
		attrs = append(attrs, logfields.Pattern(e.Pattern))
	}
	if e.File != "" {
		attrs = append(attrs, logfields.File(e.File))
	}
	if e.Rule != "" {
		attrs = append(attrs, logfields.Rule(e.Rule))
	}
	if e.Files > 0 {
		attrs = append(attrs, logfields.Files(e.Files))
	}
	if e.DurationMS > 0 {
		attrs = append(attrs, logfields.DurationMS(e.DurationMS))
	}
	if e.Outcome != "" {
		attrs = append(attrs, slog.String("outcome", e.Outcome))
	}
	if e.Error != "" {
		attrs = append(attrs, slog.String(logfields.KeyError, e.Error))
	}
	return attrs
}
