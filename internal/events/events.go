// Package events carries build progress notifications out of the pipeline.
//
// Events are informational: no pipeline behavior depends on a sink. The
// generator and discovery emit them; sinks forward them to slog, NATS, or an
// in-memory collector in tests.
package events

import (
	"context"
	"sync"
	"time"
)

// Type names an event kind.
type Type string

const (
	BuilderRegistered Type = "builder.registered"
	RootMissing       Type = "root.missing"
	FileSelected      Type = "file.selected"
	FileIgnored       Type = "file.ignored"
	FileDuplicate     Type = "file.duplicate"
	PhaseStarted      Type = "phase.started"
	PhaseCompleted    Type = "phase.completed"
	BuilderInvoked    Type = "builder.invoked"
	BuildCompleted    Type = "build.completed"
)

// Event is a single progress notification. Only fields relevant to Type are set.
type Event struct {
	Type       Type      `json:"type"`
	Time       time.Time `json:"time"`
	BuildID    string    `json:"build_id,omitempty"`
	Phase      string    `json:"phase,omitempty"`
	Builder    string    `json:"builder,omitempty"`
	Group      string    `json:"group,omitempty"`
	Pattern    string    `json:"pattern,omitempty"`
	File       string    `json:"file,omitempty"`
	Rule       string    `json:"rule,omitempty"`
	Files      int       `json:"files,omitempty"`
	DurationMS float64   `json:"duration_ms,omitempty"`
	Outcome    string    `json:"outcome,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Sink receives events. Implementations must not block the pipeline for long.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

// NoopSink discards every event.
type NoopSink struct{}

func (NoopSink) Emit(context.Context, Event) {}

// Multi fans out to several sinks in order.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, e)
		}
	}
}

// Stamped fills in the build ID and time of events passing through to Sink.
type Stamped struct {
	Sink    Sink
	BuildID string
	Now     func() time.Time
}

func (s Stamped) Emit(ctx context.Context, e Event) {
	if s.Sink == nil {
		return
	}
	if e.BuildID == "" {
		e.BuildID = s.BuildID
	}
	if e.Time.IsZero() {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		e.Time = now().UTC()
	}
	s.Sink.Emit(ctx, e)
}

// Collector stores events in memory; used by tests and the discover command.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) Emit(_ context.Context, e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of the collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// OfType returns collected events of type t, in emission order.
func (c *Collector) OfType(t Type) []Event {
	var out []Event
	for _, e := range c.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
