package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Publisher is the subset of *nats.Conn used by NATSSink.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes JSON-encoded events to "<subject>.<event type>".
// Per-file events are dropped unless Verbose is set.
type NATSSink struct {
	pub     Publisher
	conn    *nats.Conn
	subject string
	Verbose bool
}

// NewNATSSink wraps an existing publisher.
func NewNATSSink(pub Publisher, subject string) *NATSSink {
	return &NATSSink{pub: pub, subject: subject}
}

// DialNATS connects to url and returns a sink owning the connection.
// verbose sets Verbose on the returned sink.
func DialNATS(url, subject string, verbose bool) (*NATSSink, error) {
	conn, err := nats.Connect(url,
		nats.Name("sitegen"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS event sink connected", slog.String("url", url), slog.String("subject", subject))
	return &NATSSink{pub: conn, conn: conn, subject: subject, Verbose: verbose}, nil
}

// Subject returns the NATS subject an event is published on.
func (s *NATSSink) Subject(e Event) string {
	return s.subject + "." + string(e.Type)
}

func (s *NATSSink) Emit(_ context.Context, e Event) {
	if !s.Verbose && (e.Type == FileSelected || e.Type == FileIgnored || e.Type == FileDuplicate) {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		slog.Warn("Failed to marshal build event", logfields.Error(err))
		return
	}
	if err := s.pub.Publish(s.Subject(e), data); err != nil {
		slog.Warn("Failed to publish build event", slog.String("subject", s.Subject(e)), logfields.Error(err))
	}
}

// Close flushes pending messages and closes an owned connection.
func (s *NATSSink) Close() error {
	if s.conn == nil {
		return nil
	}
	defer s.conn.Close()
	return s.conn.FlushTimeout(5 * time.Second)
}
