package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/events"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsys"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/observability"
	"git.home.luguber.info/inful/sitegen/internal/router"
)

// Config is the input the core consumes. Relative paths resolve against BaseDir.
type Config struct {
	BaseDir    string
	Sources    []string
	Ignore     []string
	SkipHidden bool
	OutputDir  string
}

// Generator owns the builder registry and runs builds.
type Generator struct {
	mu         sync.Mutex
	cfg        Config
	fs         fsys.FS
	registry   *router.Registry[Builder]
	recorder   metrics.Recorder
	sink       events.Sink
	logger     *slog.Logger
	newBuildID func() string
	initial    BuildContext
}

// New creates a Generator. A nil fs uses the host filesystem.
func New(cfg Config, fs fsys.FS, opts ...Option) *Generator {
	if fs == nil {
		fs = fsys.OS{}
	}
	g := &Generator{
		cfg:        cfg,
		fs:         fs,
		registry:   router.NewRegistry[Builder](),
		recorder:   metrics.NoopRecorder{},
		sink:       events.NoopSink{},
		logger:     slog.Default(),
		newBuildID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = observability.ContextAware(g.logger)
	return g
}

// Register adds b under every pattern it handles. Registration fails for
// invalid patterns and once a build has started.
func (g *Generator) Register(b Builder) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.registry.Register(b); err != nil {
		return err
	}
	for _, p := range b.HandledPatterns() {
		g.sink.Emit(context.Background(), events.Event{Type: events.BuilderRegistered, Builder: b.Name(), Pattern: p})
	}
	return nil
}

// Routes lists registered patterns and their builders.
func (g *Generator) Routes() []router.Route {
	return g.registry.Routes()
}

// Plan is the result of discovery and grouping without running builders.
type Plan struct {
	Discovery *discovery.Result
	Groups    *GroupSet
}

// Plan discovers and groups files without invoking builders or touching
// the output directory. It does not freeze the registry.
func (g *Generator) Plan(ctx context.Context) (*Plan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	res, err := g.discover(ctx, g.sink)
	if err != nil {
		return nil, err
	}
	return &Plan{Discovery: res, Groups: Assemble(res.Files, g.registry)}, nil
}

// buildState is threaded through the phases of one build.
type buildState struct {
	id         string
	sink       events.Sink
	report     *Report
	discovered *discovery.Result
	groups     *GroupSet
	final      BuildContext
}

type phaseDef struct {
	name PhaseName
	fn   func(ctx context.Context, st *buildState) error
}

// Build runs discover, assemble, data, prepare_output and build in order.
// The first failing phase aborts the build. The report is returned in all
// cases; its Outcome tells a clean failure from a partially written output.
func (g *Generator) Build(ctx context.Context) (*Report, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.registry.Freeze()

	id := g.newBuildID()
	st := &buildState{
		id:     id,
		sink:   events.Stamped{Sink: g.sink, BuildID: id},
		report: &Report{BuildID: id, Start: time.Now()},
	}
	ctx = observability.WithBuildID(ctx, id)
	g.logger.LogAttrs(ctx, slog.LevelInfo, "Build started", logfields.Output(g.cfg.OutputDir))

	err := g.runPhases(ctx, st, []phaseDef{
		{PhaseDiscover, g.discoverPhase},
		{PhaseAssemble, g.assemblePhase},
		{PhaseData, g.dataPhase},
		{PhasePrepareOutput, g.preparePhase},
		{PhaseBuild, g.buildPhase},
	})
	g.finish(ctx, st, err)
	return st.report, err
}

func (g *Generator) runPhases(ctx context.Context, st *buildState, phases []phaseDef) error {
	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			g.recorder.IncPhaseResult(string(p.name), metrics.ResultCanceled)
			return ferrors.CanceledError("build canceled").
				WithCause(err).
				InPhase(string(p.name)).
				Build()
		}

		pctx, span := observability.StartPhase(ctx, string(p.name))
		st.sink.Emit(pctx, events.Event{Type: events.PhaseStarted, Phase: string(p.name)})

		err := p.fn(pctx, st)
		d := observability.EndSpan(span, err)

		st.report.Phases = append(st.report.Phases, PhaseTiming{Phase: p.name, Duration: d})
		g.recorder.ObservePhaseDuration(string(p.name), d)
		result := metrics.ResultSuccess
		ev := events.Event{Type: events.PhaseCompleted, Phase: string(p.name), DurationMS: float64(d) / float64(time.Millisecond)}
		if err != nil {
			result = metrics.ResultFailed
			ev.Error = err.Error()
		}
		ev.Outcome = string(result)
		g.recorder.IncPhaseResult(string(p.name), result)
		st.sink.Emit(pctx, ev)

		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) discover(ctx context.Context, sink events.Sink) (*discovery.Result, error) {
	d := discovery.New(discovery.Options{
		BaseDir:    g.cfg.BaseDir,
		Roots:      g.cfg.Sources,
		Ignore:     g.cfg.Ignore,
		SkipHidden: g.cfg.SkipHidden,
		FS:         g.fs,
		Sink:       sink,
	})
	res, err := d.Discover(ctx)
	if err != nil {
		return nil, wrapDiscoveryError(err)
	}
	return res, nil
}

// wrapDiscoveryError keeps the classification of err and adds ErrDiscovery
// to its cause chain.
func wrapDiscoveryError(err error) error {
	ce, ok := ferrors.AsClassified(err)
	if !ok {
		return ferrors.FileSystemError("cannot read path").
			WithCause(fmt.Errorf("%w: %w", ErrDiscovery, err)).
			InPhase(string(PhaseDiscover)).
			Build()
	}
	cause := ErrDiscovery
	if ce.Cause() != nil {
		cause = fmt.Errorf("%w: %w", ErrDiscovery, ce.Cause())
	}
	return ferrors.NewError(ce.Category(), ce.Message()).
		WithSeverity(ce.Severity()).
		WithRetry(ce.RetryStrategy()).
		WithCause(cause).
		WithContextMap(ce.Context()).
		Build()
}

func (g *Generator) discoverPhase(ctx context.Context, st *buildState) error {
	res, err := g.discover(ctx, st.sink)
	if err != nil {
		return err
	}
	st.discovered = res
	st.report.Files = len(res.Files)
	st.report.Ignored = len(res.Ignored)
	st.report.Duplicates = len(res.Duplicates)
	st.report.MissingRoots = slices.Clone(res.MissingRoots)
	g.recorder.SetDiscoveredFiles(len(res.Files))
	return nil
}

func (g *Generator) assemblePhase(ctx context.Context, st *buildState) error {
	st.groups = Assemble(st.discovered.Files, g.registry)
	if st.groups.TotalFiles() != len(st.discovered.Files) {
		return ferrors.InternalError("group partition lost files").
			InPhase(string(PhaseAssemble)).
			Build()
	}
	for _, grp := range st.groups.Groups() {
		summary := GroupSummary{Key: grp.Key, Files: discovery.RelativePaths(grp.Files)}
		for _, b := range g.registry.Builders(grp.Key) {
			summary.Builders = append(summary.Builders, b.Name())
		}
		st.report.Groups = append(st.report.Groups, summary)
		observability.DebugContext(ctx, "Group assembled", logfields.Group(grp.Key), logfields.Files(len(grp.Files)))
	}
	g.recorder.SetGroups(st.groups.Len())
	return nil
}

func (g *Generator) dataPhase(ctx context.Context, st *buildState) error {
	final, err := Aggregate(ctx, st.groups, g.registry, g.initial, g.observer(st))
	if err != nil {
		return err
	}
	st.final = final
	return nil
}

func (g *Generator) preparePhase(_ context.Context, st *buildState) error {
	return PrepareOutput(g.fs, OutputTarget{
		Dir:       g.resolve(g.cfg.OutputDir),
		BaseDir:   g.cfg.BaseDir,
		Protected: g.resolveAll(g.cfg.Sources),
	})
}

func (g *Generator) buildPhase(ctx context.Context, st *buildState) error {
	return Dispatch(ctx, st.groups, g.registry, st.final, g.observer(st))
}

func (g *Generator) observer(st *buildState) InvocationObserver {
	return func(ctx context.Context, inv Invocation) {
		st.report.Invocations = append(st.report.Invocations, inv)
		result := metrics.ResultSuccess
		if inv.Error != "" {
			result = metrics.ResultFailed
		}
		g.recorder.IncBuilderInvocation(inv.Builder, string(inv.Phase), result)
		st.sink.Emit(ctx, events.Event{
			Type:       events.BuilderInvoked,
			Phase:      string(inv.Phase),
			Builder:    inv.Builder,
			Group:      inv.Group,
			Files:      inv.Files,
			DurationMS: float64(inv.Duration) / float64(time.Millisecond),
			Outcome:    string(result),
			Error:      inv.Error,
		})
	}
}

func (g *Generator) finish(ctx context.Context, st *buildState, err error) {
	r := st.report
	r.End = time.Now()
	r.Outcome = outcomeFor(err)
	if err != nil {
		r.Error = err.Error()
	}
	g.recorder.ObserveBuildDuration(r.Duration())
	g.recorder.IncBuildOutcome(r.Outcome.label())
	st.sink.Emit(ctx, events.Event{
		Type:       events.BuildCompleted,
		Files:      r.Files,
		DurationMS: float64(r.Duration()) / float64(time.Millisecond),
		Outcome:    string(r.Outcome),
		Error:      r.Error,
	})

	attrs := []slog.Attr{
		logfields.Files(r.Files),
		slog.Int("groups", len(r.Groups)),
		slog.Int("invocations", len(r.Invocations)),
		logfields.Duration(r.Duration()),
		slog.String("outcome", string(r.Outcome)),
	}
	if err != nil {
		g.logger.LogAttrs(ctx, slog.LevelError, "Build failed", append(attrs, logfields.Error(err))...)
		return
	}
	g.logger.LogAttrs(ctx, slog.LevelInfo, "Build completed", attrs...)
}

func outcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case ferrors.HasCategory(err, ferrors.CategoryBuilderBuild):
		return OutcomeIncomplete
	case ferrors.HasCategory(err, ferrors.CategoryCanceled):
		return OutcomeCanceled
	default:
		return OutcomeFailed
	}
}

func (g *Generator) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	base := g.cfg.BaseDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, p)
}

func (g *Generator) resolveAll(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = g.resolve(p)
	}
	return out
}
