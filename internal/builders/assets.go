package builders

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/fsys"
	"git.home.luguber.info/inful/sitegen/internal/generator"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Asset is a file copied verbatim into the output tree.
type Asset struct {
	Source string `json:"source"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

// AssetOptions configures an AssetBuilder.
type AssetOptions struct {
	Patterns    []string
	OutputDir   string
	StripPrefix string
}

// AssetBuilder copies static files, publishing their URLs under AssetsKey.
type AssetBuilder struct {
	base
	opts AssetOptions
}

// NewAssetBuilder returns an AssetBuilder.
func NewAssetBuilder(opts AssetOptions) *AssetBuilder {
	return &AssetBuilder{base: base{name: "assets", patterns: opts.Patterns}, opts: opts}
}

func (b *AssetBuilder) Data(_ context.Context, files []discovery.SourceFile, bctx generator.BuildContext) (generator.BuildContext, error) {
	assets, _ := bctx[AssetsKey].([]Asset)
	assets = append([]Asset(nil), assets...)
	for _, f := range files {
		p := targetPath(f, b.opts.StripPrefix)
		assets = append(assets, Asset{Source: f.RelativePath, Path: p, URL: "/" + p})
	}
	next := bctx.Clone()
	next[AssetsKey] = assets
	return next, nil
}

func (b *AssetBuilder) Build(ctx context.Context, files []discovery.SourceFile, _ generator.BuildContext) error {
	return copyAll(ctx, files, b.opts.OutputDir, b.opts.StripPrefix)
}

func copyAll(ctx context.Context, files []discovery.SourceFile, outputDir, stripPrefix string) error {
	for _, f := range files {
		dst := targetPath(f, stripPrefix)
		if err := fsys.CopyFile(f.RealPath, outputFile(outputDir, dst)); err != nil {
			return fmt.Errorf("copy %s: %w", f.RelativePath, err)
		}
		slog.DebugContext(ctx, "Copied file", logfields.File(f.RelativePath), logfields.Output(dst))
	}
	return nil
}
