// Package router maps source paths onto the builders that handle them.
package router

import (
	"log/slog"
	"slices"
	"sync"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Handler is the part of a builder the registry needs.
type Handler interface {
	Name() string
	HandledPatterns() []string
}

type entry[H Handler] struct {
	pattern  Pattern
	handlers []H
}

// Registry keeps patterns in first-registration order, each with its
// handlers in registration order. Entries are only ever appended.
type Registry[H Handler] struct {
	mu      sync.RWMutex
	entries []*entry[H]
	index   map[string]*entry[H]
	frozen  bool
}

// NewRegistry returns an empty registry.
func NewRegistry[H Handler]() *Registry[H] {
	return &Registry[H]{index: make(map[string]*entry[H])}
}

// Register appends h under each pattern it declares. All patterns are
// validated first, so a rejected handler leaves the registry untouched.
// A pattern declared twice by the same handler is registered once.
func (r *Registry[H]) Register(h H) error {
	raw := h.HandledPatterns()
	parsed := make([]Pattern, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, p := range raw {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		pat, err := ParsePattern(p)
		if err != nil {
			return ferrors.ConfigError("invalid builder pattern").
				WithCause(err).
				WithContext(ferrors.KeyBuilder, h.Name()).
				WithContext(ferrors.KeyPattern, p).
				Build()
		}
		parsed = append(parsed, pat)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ferrors.ConfigError("builders cannot be registered after a build has started").
			WithCause(ErrFrozen).
			WithContext(ferrors.KeyBuilder, h.Name()).
			Build()
	}
	for _, pat := range parsed {
		e, ok := r.index[pat.raw]
		if !ok {
			e = &entry[H]{pattern: pat}
			r.index[pat.raw] = e
			r.entries = append(r.entries, e)
		}
		e.handlers = append(e.handlers, h)
	}
	slog.Debug("Registered builder", logfields.Builder(h.Name()), slog.Any("patterns", raw))
	return nil
}

// Resolve returns the routing key for relPath: the first pattern, in
// first-registration order, that matches it. The default key is never
// returned; callers fall back to it when ok is false.
func (r *Registry[H]) Resolve(relPath string) (key string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.pattern.Match(relPath) {
			return e.pattern.raw, true
		}
	}
	return "", false
}

// Builders returns the handlers registered under key, in registration order.
// Unknown keys yield nil.
func (r *Registry[H]) Builders(key string) []H {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.index[key]; ok {
		return slices.Clone(e.handlers)
	}
	return nil
}

// Patterns returns the registered patterns in first-registration order.
func (r *Registry[H]) Patterns() []Pattern {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Pattern, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.pattern
	}
	return out
}

// Route describes one pattern and the names of its handlers.
type Route struct {
	Pattern  string   `json:"pattern" yaml:"pattern"`
	Kind     string   `json:"kind" yaml:"kind"`
	Builders []string `json:"builders" yaml:"builders"`
}

// Routes summarizes the registry in first-registration order.
func (r *Registry[H]) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Route, 0, len(r.entries))
	for _, e := range r.entries {
		names := make([]string, len(e.handlers))
		for i, h := range e.handlers {
			names[i] = h.Name()
		}
		out = append(out, Route{Pattern: e.pattern.raw, Kind: e.pattern.kind.String(), Builders: names})
	}
	return out
}

// Freeze makes the registry read-only. It cannot be undone.
func (r *Registry[H]) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry[H]) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}
