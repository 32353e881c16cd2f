package generator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
)

type mapResolver map[string]string

func (m mapResolver) Resolve(rel string) (string, bool) {
	k, ok := m[rel]
	return k, ok
}

func files(rels ...string) []discovery.SourceFile {
	out := make([]discovery.SourceFile, len(rels))
	for i, r := range rels {
		out[i] = discovery.SourceFile{Path: "/s/" + r, RealPath: "/s/" + r, RelativePath: r, Root: "/s"}
	}
	return out
}

func TestAssembleDefaultGroupAlwaysFirst(t *testing.T) {
	set := Assemble(nil, mapResolver{})
	assert.Equal(t, []string{DefaultGroup}, set.Keys())
	g, ok := set.Get(DefaultGroup)
	require.True(t, ok)
	assert.Empty(t, g.Files)
}

func TestAssemblePartition(t *testing.T) {
	in := files("a.md", "img/x.png", "b.md", "notes.txt", "static/site.css")
	set := Assemble(in, mapResolver{
		"a.md":            "*.md",
		"b.md":            "*.md",
		"img/x.png":       "img/*",
		"static/site.css": "static/*",
	})

	assert.Equal(t, []string{DefaultGroup, "*.md", "img/*", "static/*"}, set.Keys())
	assert.Equal(t, len(in), set.TotalFiles())
	assert.Equal(t, 4, set.Len())

	got := map[string][]string{}
	for _, g := range set.Groups() {
		got[g.Key] = discovery.RelativePaths(g.Files)
	}
	want := map[string][]string{
		DefaultGroup: {"notes.txt"},
		"*.md":       {"a.md", "b.md"},
		"img/*":      {"img/x.png"},
		"static/*":   {"static/site.css"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}

	// Every file appears exactly once.
	seen := map[string]int{}
	for _, g := range set.Groups() {
		for _, f := range g.Files {
			seen[f.Key()]++
		}
	}
	for _, f := range in {
		assert.Equal(t, 1, seen[f.Key()], f.RelativePath)
	}
}

func TestGroupSetGetUnknown(t *testing.T) {
	_, ok := Assemble(nil, mapResolver{}).Get("nope")
	assert.False(t, ok)
}
