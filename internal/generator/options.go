package generator

import (
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/events"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Option configures a Generator.
type Option func(*Generator)

// WithRecorder sets the metrics recorder. Nil keeps the no-op recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithEventSink sets the sink receiving build events.
func WithEventSink(s events.Sink) Option {
	return func(g *Generator) {
		if s != nil {
			g.sink = s
		}
	}
}

// WithLogger sets the logger for the generator's own messages.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithBuildIDFunc overrides how build IDs are generated.
func WithBuildIDFunc(fn func() string) Option {
	return func(g *Generator) {
		if fn != nil {
			g.newBuildID = fn
		}
	}
}

// WithInitialContext seeds the BuildContext the first Data call receives.
func WithInitialContext(bctx BuildContext) Option {
	return func(g *Generator) {
		g.initial = bctx.Clone()
	}
}
