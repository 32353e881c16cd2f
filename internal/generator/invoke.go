package generator

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/observability"
)

// BuilderLookup returns the builders registered under a group key, in
// registration order.
type BuilderLookup interface {
	Builders(key string) []Builder
}

// InvocationObserver is told about every finished builder call.
type InvocationObserver func(ctx context.Context, inv Invocation)

// walk visits every (group, builder) pair in group order then registration
// order. Groups without builders are skipped. visit returning an error stops
// the walk.
func walk(groups *GroupSet, lookup BuilderLookup, visit func(g Group, b Builder) error) error {
	for _, g := range groups.Groups() {
		for _, b := range lookup.Builders(g.Key) {
			if err := visit(g, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// invoke calls fn for one builder on one group, timing it and notifying obs.
func invoke(ctx context.Context, phase PhaseName, g Group, b Builder, obs InvocationObserver,
	fn func(ctx context.Context, files []discovery.SourceFile) error,
) error {
	ictx := observability.WithInvocation(ctx, b.Name(), g.Key)
	files := make([]discovery.SourceFile, len(g.Files))
	copy(files, g.Files)

	start := time.Now()
	err := fn(ictx, files)
	inv := Invocation{
		Phase:    phase,
		Builder:  b.Name(),
		Group:    g.Key,
		Files:    len(files),
		Duration: time.Since(start),
	}
	if err != nil {
		inv.Error = err.Error()
	}
	if obs != nil {
		obs(ictx, inv)
	}
	return err
}
