package generator

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Aggregate runs every builder's Data step and returns the final context.
// Each builder receives only its group's files and the context returned by
// the previous builder; its result replaces the running context. A nil
// result is replaced by an empty context.
func Aggregate(ctx context.Context, groups *GroupSet, lookup BuilderLookup, initial BuildContext, obs InvocationObserver) (BuildContext, error) {
	running := initial.Clone()
	err := walk(groups, lookup, func(g Group, b Builder) error {
		return invoke(ctx, PhaseData, g, b, obs, func(ictx context.Context, files []discovery.SourceFile) error {
			next, err := b.Data(ictx, files, running)
			if err != nil {
				return ferrors.BuilderDataError("builder data contribution failed").
					WithCause(fmt.Errorf("%w: %w", ErrBuilderData, err)).
					InPhase(string(PhaseData)).
					ForInvocation(b.Name(), g.Key).
					Build()
			}
			if next == nil {
				next = BuildContext{}
			}
			running = next
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return running, nil
}
