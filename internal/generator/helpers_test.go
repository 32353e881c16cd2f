package generator

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/observability"
)

// callLog records builder calls as "phase:builder:group".
type callLog struct{ calls []string }

func (l *callLog) add(phase, builder, group string) {
	l.calls = append(l.calls, phase+":"+builder+":"+group)
}

type fakeBuilder struct {
	name     string
	patterns []string
	log      *callLog
	data     func(files []discovery.SourceFile, bctx BuildContext) (BuildContext, error)
	build    func(files []discovery.SourceFile, bctx BuildContext) error
	seen     map[string][]string // "phase:group" -> relative paths received
}

func groupOf(ctx context.Context) string { return observability.GetContext(ctx).Group }

func newFake(name string, log *callLog, patterns ...string) *fakeBuilder {
	return &fakeBuilder{name: name, patterns: patterns, log: log, seen: map[string][]string{}}
}

func (b *fakeBuilder) Name() string              { return b.name }
func (b *fakeBuilder) HandledPatterns() []string { return b.patterns }

func (b *fakeBuilder) Data(ctx context.Context, files []discovery.SourceFile, bctx BuildContext) (BuildContext, error) {
	group := groupOf(ctx)
	b.log.add("data", b.name, group)
	b.seen["data:"+group] = discovery.RelativePaths(files)
	if b.data != nil {
		return b.data(files, bctx)
	}
	return bctx, nil
}

func (b *fakeBuilder) Build(ctx context.Context, files []discovery.SourceFile, bctx BuildContext) error {
	group := groupOf(ctx)
	b.log.add("build", b.name, group)
	b.seen["build:"+group] = discovery.RelativePaths(files)
	if b.build != nil {
		return b.build(files, bctx)
	}
	return nil
}

func writeTree(t *testing.T, base string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(base, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

// listTree returns the slash-separated relative paths of every file under dir.
func listTree(t *testing.T, dir string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func tempBase(t *testing.T) string {
	t.Helper()
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return base
}
