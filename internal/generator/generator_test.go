package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/events"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

func newGenerator(base string, sources, ignore []string, opts ...Option) *Generator {
	return New(Config{
		BaseDir:   base,
		Sources:   sources,
		Ignore:    ignore,
		OutputDir: "public",
	}, nil, opts...)
}

func TestBuildIgnoresDraftsAndGroupsMarkdown(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{
		"content/a.md":        "# a",
		"content/drafts/b.md": "# b",
	})

	log := &callLog{}
	md := newFake("md", log, "*.md")
	sink := &events.Collector{}
	g := newGenerator(base, []string{"content"}, []string{"content/drafts/*"}, WithEventSink(sink))
	require.NoError(t, g.Register(md))

	report, err := g.Build(context.Background())
	require.NoError(t, err)

	want := []GroupSummary{
		{Key: DefaultGroup, Files: []string{}, Builders: nil},
		{Key: "*.md", Files: []string{"content/a.md"}, Builders: []string{"md"}},
	}
	if diff := cmp.Diff(want, report.Groups); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, 1, report.Files)
	assert.Equal(t, 1, report.Ignored)
	assert.Equal(t, []string{"data:md:*.md", "build:md:*.md"}, log.calls)

	ignored := sink.OfType(events.FileIgnored)
	require.Len(t, ignored, 1)
	assert.Equal(t, "content/drafts/b.md", ignored[0].File)
	assert.Equal(t, report.BuildID, ignored[0].BuildID)

	completed := sink.OfType(events.BuildCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, "success", completed[0].Outcome)
}

func TestBuildSharedPatternRunsInRegistrationOrder(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{
		"posts/one.md": "1",
		"posts/two.md": "2",
	})

	log := &callLog{}
	b1 := newFake("b1", log, "posts/*")
	b1.data = func(_ []discovery.SourceFile, bctx BuildContext) (BuildContext, error) {
		next := bctx.Clone()
		next["order"] = []string{"b1"}
		return next, nil
	}
	b2 := newFake("b2", log, "posts/*")
	var b2Saw []string
	b2.data = func(_ []discovery.SourceFile, bctx BuildContext) (BuildContext, error) {
		prev, _ := bctx["order"].([]string)
		b2Saw = prev
		next := bctx.Clone()
		next["order"] = append(append([]string{}, prev...), "b2")
		return next, nil
	}
	var finalOrder []string
	b2.build = func(_ []discovery.SourceFile, bctx BuildContext) error {
		finalOrder, _ = bctx["order"].([]string)
		return nil
	}

	g := newGenerator(base, []string{"posts"}, nil)
	require.NoError(t, g.Register(b1))
	require.NoError(t, g.Register(b2))

	report, err := g.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"data:b1:posts/*", "data:b2:posts/*",
		"build:b1:posts/*", "build:b2:posts/*",
	}, log.calls)
	assert.Equal(t, []string{"b1"}, b2Saw)
	assert.Equal(t, []string{"b1", "b2"}, finalOrder)
	assert.Equal(t, []string{"posts/one.md", "posts/two.md"}, b1.seen["data:posts/*"])

	require.Len(t, report.InvocationsIn(PhaseData), 2)
	assert.Equal(t, "b1", report.InvocationsIn(PhaseData)[0].Builder)
}

func TestBuildGroupOrderAndDefaultBuilder(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{
		"site/a.md":       "a",
		"site/robots.txt": "r",
		"site/static/x":   "x",
	})

	log := &callLog{}
	assets := newFake("assets", log, "site/static/*")
	md := newFake("md", log, "*.md")
	copier := newFake("copy", log, DefaultGroup)

	g := newGenerator(base, []string{"site"}, nil)
	for _, b := range []Builder{assets, md, copier} {
		require.NoError(t, g.Register(b))
	}

	_, err := g.Build(context.Background())
	require.NoError(t, err)

	// Default group first, then groups in creation order (walk order of files).
	want := []string{
		"data:copy:" + DefaultGroup, "data:md:*.md", "data:assets:site/static/*",
		"build:copy:" + DefaultGroup, "build:md:*.md", "build:assets:site/static/*",
	}
	if diff := cmp.Diff(want, log.calls); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"site/robots.txt"}, copier.seen["data:"+DefaultGroup])
	assert.Equal(t, []string{"site/a.md"}, md.seen["build:*.md"])
}

func TestBuildIsDeterministicAcrossRuns(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{"c/a.md": "a", "c/b.txt": "b", "c/d/e.md": "e"})

	run := func() []string {
		log := &callLog{}
		g := newGenerator(base, []string{"c"}, nil)
		require.NoError(t, g.Register(newFake("md", log, "*.md")))
		require.NoError(t, g.Register(newFake("txt", log, "*.txt")))
		require.NoError(t, g.Register(newFake("md2", log, "*.md")))
		_, err := g.Build(context.Background())
		require.NoError(t, err)
		return log.calls
	}
	assert.Equal(t, run(), run())
}

func TestBuildOutputIsIdempotent(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{"content/a.md": "a", "content/b.md": "b"})
	out := filepath.Join(base, "public")
	writeTree(t, out, map[string]string{"stale.html": "old"})

	writer := newFake("writer", &callLog{}, "*.md")
	writer.build = func(files []discovery.SourceFile, _ BuildContext) error {
		for _, f := range files {
			if err := os.WriteFile(filepath.Join(out, f.Stem()+".html"), []byte(f.Name()), 0o600); err != nil {
				return err
			}
		}
		return nil
	}

	g := newGenerator(base, []string{"content"}, nil)
	require.NoError(t, g.Register(writer))

	_, err := g.Build(context.Background())
	require.NoError(t, err)
	first := listTree(t, out)

	_, err = g.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, listTree(t, out))
	assert.Equal(t, []string{"a.html", "b.html"}, first)
}

func TestBuildOverlappingRootsSelectOnce(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{"docs/guide/x.md": "x"})

	md := newFake("md", &callLog{}, "*.md")
	g := newGenerator(base, []string{"docs", "docs/guide"}, nil)
	require.NoError(t, g.Register(md))

	report, err := g.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/guide/x.md"}, md.seen["data:*.md"])
	assert.Equal(t, 1, report.Duplicates)
}

func TestBuildDataFailureAbortsBeforeOutput(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{"content/a.md": "a"})
	out := filepath.Join(base, "public")
	writeTree(t, out, map[string]string{"keep.html": "previous build"})

	log := &callLog{}
	boom := errors.New("bad front matter")
	bad := newFake("md", log, "*.md")
	bad.data = func([]discovery.SourceFile, BuildContext) (BuildContext, error) { return nil, boom }
	later := newFake("later", log, "*.md")

	rec := &countingRecorder{}
	g := newGenerator(base, []string{"content"}, nil, WithRecorder(rec))
	require.NoError(t, g.Register(bad))
	require.NoError(t, g.Register(later))

	report, err := g.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBuilderData)
	assert.ErrorIs(t, err, boom)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryBuilderData))

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	builder, _ := ce.Context().GetString(ferrors.KeyBuilder)
	group, _ := ce.Context().GetString(ferrors.KeyGroup)
	assert.Equal(t, "md", builder)
	assert.Equal(t, "*.md", group)

	assert.Equal(t, []string{"data:md:*.md"}, log.calls)
	assert.Equal(t, []string{"keep.html"}, listTree(t, out))
	assert.Equal(t, OutcomeFailed, report.Outcome)
	_, prepared := report.PhaseDuration(PhasePrepareOutput)
	assert.False(t, prepared)
	assert.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeFailed}, rec.outcomes)
}

func TestBuildMidDispatchFailureIsIncomplete(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{"content/a.md": "a", "content/b.md": "b"})

	log := &callLog{}
	first := newFake("first", log, "*.md")
	boom := errors.New("disk full")
	failing := newFake("failing", log, "*.md")
	failing.build = func([]discovery.SourceFile, BuildContext) error { return boom }
	never := newFake("never", log, "*.md")

	g := newGenerator(base, []string{"content"}, nil)
	for _, b := range []Builder{first, failing, never} {
		require.NoError(t, g.Register(b))
	}

	report, err := g.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBuilderBuild)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, OutcomeIncomplete, report.Outcome)
	assert.Equal(t, ferrors.ExitIncomplete, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	completed, _ := ce.Context().GetInt(ferrors.KeyCompleted)
	processed, _ := ce.Context().GetInt(ferrors.KeyFilesProcessed)
	builder, _ := ce.Context().GetString(ferrors.KeyBuilder)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 2, processed)
	assert.Equal(t, "failing", builder)

	assert.NotContains(t, log.calls, "build:never:*.md")
	assert.Contains(t, log.calls, "data:never:*.md")
}

func TestRegisterAfterBuildIsRejected(t *testing.T) {
	base := tempBase(t)
	g := newGenerator(base, []string{"content"}, nil)
	_, err := g.Build(context.Background())
	require.NoError(t, err)

	err = g.Register(newFake("late", &callLog{}, "*"))
	assert.ErrorIs(t, err, ErrRegistryFrozen)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestRegisterInvalidPattern(t *testing.T) {
	g := newGenerator(tempBase(t), nil, nil)
	err := g.Register(newFake("bad", &callLog{}, "/[/"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Empty(t, g.Routes())
}

func TestBuildRefusesToCleanSources(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{"content/a.md": "a"})

	log := &callLog{}
	g := New(Config{BaseDir: base, Sources: []string{"content"}, OutputDir: "content"}, nil)
	require.NoError(t, g.Register(newFake("md", log, "*.md")))

	report, err := g.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsafeOutputDirectory)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.NotContains(t, log.calls, "build:md:*.md")
	assert.FileExists(t, filepath.Join(base, "content", "a.md"))
}

func TestBuildCanceledBeforeStart(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{"content/a.md": "a"})
	log := &callLog{}
	g := newGenerator(base, []string{"content"}, nil)
	require.NoError(t, g.Register(newFake("md", log, "*.md")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := g.Build(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeCanceled, report.Outcome)
	assert.Empty(t, log.calls)
	assert.NoDirExists(t, filepath.Join(base, "public"))
}

func TestPlanDoesNotFreezeOrWrite(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{"content/a.md": "a", "content/b.png": "b"})

	log := &callLog{}
	g := newGenerator(base, []string{"content"}, nil)
	require.NoError(t, g.Register(newFake("md", log, "*.md")))

	plan, err := g.Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultGroup, "*.md"}, plan.Groups.Keys())
	assert.Len(t, plan.Discovery.Files, 2)
	assert.Empty(t, log.calls)
	assert.NoDirExists(t, filepath.Join(base, "public"))

	require.NoError(t, g.Register(newFake("png", log, "*.png")))
}

func TestBuildRecordsPhasesAndInvocations(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{"content/a.md": "a"})

	rec := &countingRecorder{}
	sink := &events.Collector{}
	g := newGenerator(base, []string{"content"}, nil,
		WithRecorder(rec), WithEventSink(sink), WithBuildIDFunc(func() string { return "fixed-id" }))
	require.NoError(t, g.Register(newFake("md", &callLog{}, "*.md")))

	report, err := g.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fixed-id", report.BuildID)
	var phases []PhaseName
	for _, p := range report.Phases {
		phases = append(phases, p.Phase)
	}
	assert.Equal(t, []PhaseName{PhaseDiscover, PhaseAssemble, PhaseData, PhasePrepareOutput, PhaseBuild}, phases)
	assert.Equal(t, []string{"discover", "assemble", "data", "prepare_output", "build"}, rec.phases)
	assert.Equal(t, []string{"md/data/success", "md/build/success"}, rec.invocations)
	assert.Equal(t, 1, rec.files)
	assert.Equal(t, 2, rec.groups)

	assert.Len(t, sink.OfType(events.PhaseStarted), 5)
	assert.Len(t, sink.OfType(events.BuilderInvoked), 2)
	assert.Len(t, sink.OfType(events.BuilderRegistered), 1)
	for _, e := range sink.OfType(events.PhaseCompleted) {
		assert.Equal(t, "fixed-id", e.BuildID)
	}
	assert.Contains(t, report.Summary(), "outcome=success")
}

func TestInitialContextReachesFirstBuilder(t *testing.T) {
	base := tempBase(t)
	writeTree(t, base, map[string]string{"content/a.md": "a"})

	var got any
	md := newFake("md", &callLog{}, "*.md")
	md.data = func(_ []discovery.SourceFile, bctx BuildContext) (BuildContext, error) {
		got = bctx["site"]
		return nil, nil
	}
	var buildSaw BuildContext
	md.build = func(_ []discovery.SourceFile, bctx BuildContext) error {
		buildSaw = bctx
		return nil
	}

	g := newGenerator(base, []string{"content"}, nil, WithInitialContext(BuildContext{"site": "demo"}))
	require.NoError(t, g.Register(md))
	_, err := g.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "demo", got)
	assert.NotNil(t, buildSaw)
	assert.Empty(t, buildSaw)
}
