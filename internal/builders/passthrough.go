package builders

import (
	"context"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/generator"
	"git.home.luguber.info/inful/sitegen/internal/router"
)

// PassthroughBuilder copies files that matched no other pattern, keeping
// their relative paths.
type PassthroughBuilder struct {
	base
	outputDir string
}

// NewPassthroughBuilder returns a builder registered for the default group.
func NewPassthroughBuilder(outputDir string) *PassthroughBuilder {
	return &PassthroughBuilder{base: base{name: "passthrough", patterns: []string{router.DefaultKey}}, outputDir: outputDir}
}

func (b *PassthroughBuilder) Data(_ context.Context, _ []discovery.SourceFile, bctx generator.BuildContext) (generator.BuildContext, error) {
	return bctx, nil
}

func (b *PassthroughBuilder) Build(ctx context.Context, files []discovery.SourceFile, _ generator.BuildContext) error {
	return copyAll(ctx, files, b.outputDir, "")
}
