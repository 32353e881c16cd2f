package generator

import (
	"context"
	"maps"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
)

// BuildContext is the data bag builders share across a build.
type BuildContext map[string]any

// Clone returns a shallow copy. A nil context clones to an empty one.
func (c BuildContext) Clone() BuildContext {
	if c == nil {
		return BuildContext{}
	}
	return maps.Clone(c)
}

// Builder turns a group of source files into output.
//
// Data must not write output; it returns the context the next builder will
// receive. Build performs the writes and must treat the context as read-only.
type Builder interface {
	Name() string
	HandledPatterns() []string
	Data(ctx context.Context, files []discovery.SourceFile, bctx BuildContext) (BuildContext, error)
	Build(ctx context.Context, files []discovery.SourceFile, bctx BuildContext) error
}
