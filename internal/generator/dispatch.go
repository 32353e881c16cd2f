package generator

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Dispatch runs every builder's Build step in the same order as Aggregate.
// Each call gets its own shallow copy of final so top-level writes by one
// builder are not seen by the next. The first failure stops the dispatch;
// the error carries how many invocations and files completed before it.
func Dispatch(ctx context.Context, groups *GroupSet, lookup BuilderLookup, final BuildContext, obs InvocationObserver) error {
	completed, processed := 0, 0
	return walk(groups, lookup, func(g Group, b Builder) error {
		err := invoke(ctx, PhaseBuild, g, b, obs, func(ictx context.Context, files []discovery.SourceFile) error {
			return b.Build(ictx, files, final.Clone())
		})
		if err != nil {
			return ferrors.BuilderBuildError("builder build failed").
				WithCause(fmt.Errorf("%w: %w", ErrBuilderBuild, err)).
				InPhase(string(PhaseBuild)).
				ForInvocation(b.Name(), g.Key).
				WithContext(ferrors.KeyCompleted, completed).
				WithContext(ferrors.KeyFilesProcessed, processed).
				Build()
		}
		completed++
		processed += len(g.Files)
		return nil
	})
}
