package observability

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Span times one phase of a build.
type Span struct {
	ctx   context.Context
	name  string
	start time.Time
	now   func() time.Time
	err   error
}

// StartPhase scopes ctx to phase and starts timing it.
func StartPhase(ctx context.Context, phase string) (context.Context, *Span) {
	ctx = WithPhase(ctx, phase)
	s := &Span{ctx: ctx, name: phase, start: time.Now(), now: time.Now}
	DebugContext(ctx, "Phase started")
	return ctx, s
}

// Name returns the phase name.
func (s *Span) Name() string { return s.name }

// RecordError records err on the span. The first error is kept.
func (s *Span) RecordError(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
}

// Err returns the recorded error.
func (s *Span) Err() error { return s.err }

// End stops the span and logs its duration.
func (s *Span) End() time.Duration {
	d := s.now().Sub(s.start)
	if s.err != nil {
		DebugContext(s.ctx, "Phase failed", logfields.Duration(d), logfields.Error(s.err))
	} else {
		DebugContext(s.ctx, "Phase completed", logfields.Duration(d))
	}
	return d
}

// EndSpan records err on span and ends it.
func EndSpan(span *Span, err error) time.Duration {
	if span == nil {
		return 0
	}
	span.RecordError(err)
	return span.End()
}

