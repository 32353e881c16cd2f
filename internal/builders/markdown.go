package builders

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/inful/mdfp"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/fsys"
	"git.home.luguber.info/inful/sitegen/internal/generator"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

const summaryLength = 200

// Page describes one rendered markdown source.
type Page struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	URL         string    `json:"url"`
	Path        string    `json:"path"`   // output path, slash-separated
	Source      string    `json:"source"` // source relative path
	Summary     string    `json:"summary,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Date        time.Time `json:"date,omitzero"`
	Fingerprint string    `json:"fingerprint"`
}

// MarkdownOptions configures a MarkdownBuilder.
type MarkdownOptions struct {
	Patterns      []string
	OutputDir     string
	StripPrefix   string
	Layout        string // optional html/template file; a minimal page is used when empty
	IncludeDrafts bool
}

// MarkdownBuilder renders markdown sources with YAML front matter to HTML.
// Data publishes a Page per source under PagesKey; Build writes the pages.
type MarkdownBuilder struct {
	base
	opts   MarkdownOptions
	md     goldmark.Markdown
	layout *template.Template
}

const defaultLayout = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Page.Title}}</title></head>
<body>
<main>
{{.Content}}
</main>
</body>
</html>
`

// NewMarkdownBuilder compiles the layout and returns the builder.
func NewMarkdownBuilder(opts MarkdownOptions) (*MarkdownBuilder, error) {
	src := defaultLayout
	if opts.Layout != "" {
		data, err := os.ReadFile(opts.Layout)
		if err != nil {
			return nil, fmt.Errorf("read layout %s: %w", opts.Layout, err)
		}
		src = string(data)
	}
	tpl, err := template.New("layout").Funcs(template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(time.DateOnly)
		},
	}).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	return &MarkdownBuilder{
		base: base{name: "markdown", patterns: opts.Patterns},
		opts: opts,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		layout: tpl,
	}, nil
}

// Data parses every source and appends its Page to the context. Drafts are
// left out unless IncludeDrafts is set.
func (b *MarkdownBuilder) Data(ctx context.Context, files []discovery.SourceFile, bctx generator.BuildContext) (generator.BuildContext, error) {
	pages := append([]Page(nil), pagesFrom(bctx)...)
	owners := make(map[string]string, len(pages))
	for _, p := range pages {
		if p.Path != "" {
			owners[p.Path] = p.Source
		}
	}
	for _, f := range files {
		doc, err := readDocument(f)
		if err != nil {
			return nil, err
		}
		if doc.Fields.Bool("draft") && !b.opts.IncludeDrafts {
			slog.DebugContext(ctx, "Skipping draft", logfields.File(f.RelativePath))
			continue
		}
		rendered, err := b.render(doc.Body)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f.RelativePath, err)
		}
		p, err := b.page(f, doc, rendered)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.RelativePath, err)
		}
		if prev, taken := owners[p.Path]; taken {
			return nil, fmt.Errorf("%s: %w: %s is also written by %s", f.RelativePath, ErrDuplicatePage, p.Path, prev)
		}
		owners[p.Path] = p.Source
		pages = append(pages, p)
	}

	next := bctx.Clone()
	next[PagesKey] = pages
	return next, nil
}

// Build renders each page of this group through the layout into the output tree.
func (b *MarkdownBuilder) Build(ctx context.Context, files []discovery.SourceFile, bctx generator.BuildContext) error {
	all := pagesFrom(bctx)
	bySource := make(map[string]Page, len(all))
	for _, p := range all {
		bySource[p.Source] = p
	}

	for _, f := range files {
		p, ok := bySource[f.RelativePath]
		if !ok {
			continue // draft
		}
		doc, err := readDocument(f)
		if err != nil {
			return err
		}
		content, err := b.render(doc.Body)
		if err != nil {
			return fmt.Errorf("render %s: %w", f.RelativePath, err)
		}

		var out bytes.Buffer
		err = b.layout.Execute(&out, map[string]any{
			"Page":    p,
			"Content": template.HTML(content), //nolint:gosec // rendered from trusted site sources
			"Pages":   all,
		})
		if err != nil {
			return fmt.Errorf("execute layout for %s: %w", f.RelativePath, err)
		}
		if err := fsys.WriteFile(outputFile(b.opts.OutputDir, p.Path), out.Bytes()); err != nil {
			return err
		}
		slog.DebugContext(ctx, "Rendered page", logfields.File(f.RelativePath), logfields.Output(p.Path))
	}
	return nil
}

func (b *MarkdownBuilder) render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.md.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *MarkdownBuilder) page(f discovery.SourceFile, doc frontmatter.Document, rendered []byte) (Page, error) {
	slug := strings.TrimSpace(doc.Fields.String("slug"))
	if slug != "" {
		if slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) {
			return Page{}, fmt.Errorf("%w: %q", ErrUnsafeSlug, slug)
		}
	} else {
		slug = Slugify(f.Stem())
	}
	if slug == "" {
		slug = "index"
	}

	dir := path.Dir(targetPath(f, b.opts.StripPrefix))
	out := path.Join(dir, slug+".html")
	url := "/" + out
	if slug == "index" {
		url = "/" + strings.TrimPrefix(dir+"/", "./")
	}

	title := doc.Fields.String("title")
	if title == "" {
		title = firstHeading(b.md, doc.Body)
	}
	if title == "" {
		title = f.Stem()
	}

	p := Page{
		Title:       title,
		Slug:        slug,
		URL:         url,
		Path:        out,
		Source:      f.RelativePath,
		Summary:     doc.Fields.String("summary"),
		Tags:        doc.Fields.Strings("tags"),
		Fingerprint: mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(doc.Raw), "\n"), string(doc.Body)),
	}
	if p.Summary == "" {
		p.Summary = summarize(rendered, summaryLength)
	}
	if t, ok := doc.Fields.Time("date"); ok {
		p.Date = t
	}
	return p, nil
}

// firstHeading returns the text of the first level-one heading in body.
func firstHeading(md goldmark.Markdown, body []byte) string {
	root := md.Parser().Parse(text.NewReader(body))
	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok || h.Level != 1 {
			return gmast.WalkContinue, nil
		}
		title = strings.TrimSpace(nodeText(h, body))
		return gmast.WalkStop, nil
	})
	return title
}

func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}

func readDocument(f discovery.SourceFile) (frontmatter.Document, error) {
	data, err := os.ReadFile(f.RealPath)
	if err != nil {
		return frontmatter.Document{}, fmt.Errorf("read %s: %w", f.RelativePath, err)
	}
	doc, err := frontmatter.Parse(data)
	if err != nil {
		return frontmatter.Document{}, fmt.Errorf("%s: %w", f.RelativePath, err)
	}
	return doc, nil
}
