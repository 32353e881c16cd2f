package builders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/fsys"
	"git.home.luguber.info/inful/sitegen/internal/generator"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// IndexOptions configures an IndexBuilder.
type IndexOptions struct {
	Patterns  []string
	OutputDir string
	File      string // path of the index inside the output directory
}

// IndexBuilder writes a JSON index of every page in the final context.
// It shares its patterns with the markdown builder so it runs after it.
type IndexBuilder struct {
	base
	opts IndexOptions
}

// Index is the document IndexBuilder writes.
type Index struct {
	Pages  []Page  `json:"pages"`
	Assets []Asset `json:"assets,omitempty"`
}

// NewIndexBuilder returns an IndexBuilder.
func NewIndexBuilder(opts IndexOptions) *IndexBuilder {
	return &IndexBuilder{base: base{name: "index", patterns: opts.Patterns}, opts: opts}
}

func (b *IndexBuilder) Data(_ context.Context, _ []discovery.SourceFile, bctx generator.BuildContext) (generator.BuildContext, error) {
	return bctx, nil
}

// Build writes the index once per group it handles; identical content is
// rewritten when several groups map here.
func (b *IndexBuilder) Build(ctx context.Context, _ []discovery.SourceFile, bctx generator.BuildContext) error {
	idx := Index{Pages: pagesFrom(bctx)}
	if idx.Pages == nil {
		idx.Pages = []Page{}
	}
	idx.Assets, _ = bctx[AssetsKey].([]Asset)

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := fsys.WriteFile(outputFile(b.opts.OutputDir, b.opts.File), append(data, '\n')); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Wrote index", logfields.Output(b.opts.File), logfields.Files(len(idx.Pages)))
	return nil
}
