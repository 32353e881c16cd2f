package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/builders"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/events"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsys"
	"git.home.luguber.info/inful/sitegen/internal/generator"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/observability"
	"git.home.luguber.info/inful/sitegen/internal/retry"
)

// Global is shared by every subcommand.
type Global struct {
	// Out receives user-facing output. Defaults to os.Stdout.
	Out io.Writer
	// Logs receives log records. Defaults to os.Stderr.
	Logs io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) logs() io.Writer {
	if g == nil || g.Logs == nil {
		return os.Stderr
	}
	return g.Logs
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"sitegen.yaml" env:"SITEGEN_CONFIG"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogLevel  string           `name:"log-level" help:"Log level (debug|info|warn|error); overrides logging.level" env:"SITEGEN_LOG_LEVEL"`
	LogFormat string           `name:"log-format" help:"Log format (text|json); overrides logging.format" env:"SITEGEN_LOG_FORMAT"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Discover, route and build the site into the output directory"`
	Discover DiscoverCmd `cmd:"" help:"Show how files would be grouped without building"`
	Routes   RoutesCmd   `cmd:"" help:"Show registered patterns and their builders"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing and installs the flag-driven logger.
// Commands that load a configuration refine it with configureLogging.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	slog.SetDefault(c.logger(g, nil))
	return nil
}

func (c *CLI) logger(g *Global, cfg *config.Config) *slog.Logger {
	level, format := config.LogLevelInfo, config.LogFormatText
	if cfg != nil {
		level, format = cfg.Logging.Level, cfg.Logging.Format
	}
	if c.Verbose {
		level = config.LogLevelDebug
	}
	if l := config.NormalizeLogLevel(c.LogLevel); l != "" {
		level = l
	}
	if f := config.NormalizeLogFormat(c.LogFormat); f != "" {
		format = f
	}
	return observability.NewLogger(g.logs(), slogLevel(level), format == config.LogFormatJSON)
}

func slogLevel(l config.LogLevel) slog.Level {
	switch l {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig loads root.Config and reinstalls the default logger with the
// configured logging settings, flags taking precedence.
func loadConfig(g *Global, root *CLI) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, nil, err
	}
	logger := root.logger(g, cfg)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// GeneratorConfig maps the file configuration onto the core's input.
func GeneratorConfig(cfg *config.Config) generator.Config {
	return generator.Config{
		BaseDir:    cfg.BaseDir(),
		Sources:    cfg.SourceRoots(),
		Ignore:     cfg.IgnoreRules(),
		SkipHidden: cfg.SkipHidden,
		OutputDir:  cfg.OutputDir(),
	}
}

// BuilderOptions tune builder registration beyond the configuration file.
type BuilderOptions struct {
	IncludeDrafts bool
}

// RegisterBuilders registers the enabled bundled builders in a fixed order:
// markdown, index, assets, passthrough. The index shares the markdown
// patterns, so it always sees the pages markdown contributed.
func RegisterBuilders(gen *generator.Generator, cfg *config.Config, opts BuilderOptions) error {
	out := cfg.OutputDir()
	b := cfg.Builders
	var list []generator.Builder

	if config.BoolDefault(b.Markdown.Enabled, true) {
		layout := ""
		if b.Markdown.Layout != "" {
			layout = cfg.ResolvePath(b.Markdown.Layout)
		}
		md, err := builders.NewMarkdownBuilder(builders.MarkdownOptions{
			Patterns:      b.Markdown.Patterns,
			OutputDir:     out,
			StripPrefix:   b.Markdown.StripPrefix,
			Layout:        layout,
			IncludeDrafts: opts.IncludeDrafts,
		})
		if err != nil {
			return ferrors.ConfigError("invalid markdown builder configuration").
				WithCause(err).
				WithContext(ferrors.KeyBuilder, "markdown").
				Build()
		}
		list = append(list, md)
	}
	if config.BoolDefault(b.Index.Enabled, true) {
		list = append(list, builders.NewIndexBuilder(builders.IndexOptions{
			Patterns:  b.Index.Patterns,
			OutputDir: out,
			File:      b.Index.File,
		}))
	}
	if config.BoolDefault(b.Assets.Enabled, true) {
		list = append(list, builders.NewAssetBuilder(builders.AssetOptions{
			Patterns:    b.Assets.Patterns,
			OutputDir:   out,
			StripPrefix: b.Assets.StripPrefix,
		}))
	}
	if config.BoolDefault(b.Passthrough.Enabled, true) {
		list = append(list, builders.NewPassthroughBuilder(out))
	}

	for _, bl := range list {
		if err := gen.Register(bl); err != nil {
			return err
		}
	}
	return nil
}

// buildEnv bundles the collaborators a command hands to the generator.
type buildEnv struct {
	fs       fsys.FS
	recorder *metrics.PrometheusRecorder
	sink     events.Sink
	closers  []io.Closer
}

func newBuildEnv(ctx context.Context, cfg *config.Config, logger *slog.Logger) *buildEnv {
	rt := &buildEnv{
		fs:       fsys.NewRetrying(ctx, fsys.OS{}, retry.FromConfig(cfg.Retry)),
		recorder: metrics.NewPrometheusRecorder(nil),
	}
	sinks := events.Multi{events.NewLogSink(logger)}
	if cfg.Events.NATSURL != "" {
		nats, err := events.DialNATS(cfg.Events.NATSURL, cfg.Events.Subject, cfg.Events.Verbose)
		if err != nil {
			logger.Warn("NATS unavailable, build events will only be logged",
				slog.String("url", cfg.Events.NATSURL), logfields.Error(err))
		} else {
			sinks = append(sinks, nats)
			rt.closers = append(rt.closers, nats)
		}
	}
	rt.sink = sinks
	return rt
}

func (rt *buildEnv) generator(cfg *config.Config, logger *slog.Logger) *generator.Generator {
	return generator.New(GeneratorConfig(cfg), rt.fs,
		generator.WithRecorder(rt.recorder),
		generator.WithEventSink(rt.sink),
		generator.WithLogger(logger),
	)
}

func (rt *buildEnv) Close() {
	for _, c := range rt.closers {
		if err := c.Close(); err != nil {
			slog.Warn("Failed to close event sink", logfields.Error(err))
		}
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
