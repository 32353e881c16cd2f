// Package builders holds the content builders the sitegen CLI registers:
// markdown pages, static assets, a JSON page index and a passthrough copier
// for files no other builder claims.
package builders

import (
	"errors"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/generator"
)

// Keys builders use in the shared BuildContext.
const (
	PagesKey  = "pages"
	AssetsKey = "assets"
)

// Errors reported by the markdown builder's data step.
var (
	ErrUnsafeSlug    = errors.New("slug must be a single path segment")
	ErrDuplicatePage = errors.New("output path already used by another page")
)

var (
	_ generator.Builder = (*MarkdownBuilder)(nil)
	_ generator.Builder = (*AssetBuilder)(nil)
	_ generator.Builder = (*IndexBuilder)(nil)
	_ generator.Builder = (*PassthroughBuilder)(nil)
)

// base carries the identity every builder shares.
type base struct {
	name     string
	patterns []string
}

func (b base) Name() string { return b.name }

func (b base) HandledPatterns() []string {
	out := make([]string, len(b.patterns))
	copy(out, b.patterns)
	return out
}

// targetPath maps a source's relative path into the output tree, removing
// stripPrefix when the path starts with it. The result is slash-separated.
func targetPath(f discovery.SourceFile, stripPrefix string) string {
	rel := f.RelativePath
	prefix := strings.Trim(filepath.ToSlash(stripPrefix), "/")
	if prefix != "" {
		if rel == prefix {
			rel = path.Base(rel)
		} else if strings.HasPrefix(rel, prefix+"/") {
			rel = strings.TrimPrefix(rel, prefix+"/")
		}
	}
	return rel
}

// outputFile joins a slash-separated output path onto the output directory.
func outputFile(outputDir, rel string) string {
	return filepath.Join(outputDir, filepath.FromSlash(rel))
}

// pagesFrom reads the page list from a build context.
func pagesFrom(bctx generator.BuildContext) []Page {
	pages, _ := bctx[PagesKey].([]Page)
	return pages
}
