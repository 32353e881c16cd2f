package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output          string `short:"o" help:"Output directory; overrides output.directory"`
	Drafts          bool   `help:"Include pages marked draft: true"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this file after the build; overrides metrics.textfile"`
	JSON            bool   `name:"json" help:"Print the build report as JSON instead of a summary line"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, logger, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if b.Output != "" {
		abs, absErr := filepath.Abs(b.Output)
		if absErr != nil {
			return absErr
		}
		cfg.Output.Directory = abs
	}
	if b.MetricsTextfile != "" {
		cfg.Metrics.Textfile = b.MetricsTextfile
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunBuild(ctx, g, cfg, logger, b)
}

// RunBuild registers the configured builders and runs one build.
func RunBuild(ctx context.Context, g *Global, cfg *config.Config, logger *slog.Logger, b *BuildCmd) error {
	out := g.out()
	if !b.JSON {
		printf(out, "Starting sitegen build\n")
	}

	rt := newBuildEnv(ctx, cfg, logger)
	defer rt.Close()

	gen := rt.generator(cfg, logger)
	if err := RegisterBuilders(gen, cfg, BuilderOptions{IncludeDrafts: b.Drafts}); err != nil {
		return err
	}

	report, err := gen.Build(ctx)

	if cfg.Metrics.Textfile != "" {
		path := cfg.ResolvePath(cfg.Metrics.Textfile)
		if werr := rt.recorder.WriteTextfile(path); werr != nil {
			logger.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(werr))
		}
	}

	if report != nil {
		if b.JSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if jerr := enc.Encode(report); jerr != nil {
				return errors.Join(err, jerr)
			}
		} else {
			printf(out, "%s\n", report.Summary())
		}
	}
	if err != nil {
		return err
	}
	if !b.JSON {
		printf(out, "Site written to %s\n", cfg.OutputDir())
	}
	return nil
}
