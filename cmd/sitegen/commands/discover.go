package commands

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegen/internal/generator"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Format string `short:"f" help:"Output format" enum:"text,yaml" default:"text"`
}

// PlanView is the printable form of a build plan.
type PlanView struct {
	Files        int           `yaml:"files"`
	Ignored      []IgnoredView `yaml:"ignored,omitempty"`
	Duplicates   []string      `yaml:"duplicates,omitempty"`
	MissingRoots []string      `yaml:"missing_roots,omitempty"`
	Groups       []GroupView   `yaml:"groups"`
}

type IgnoredView struct {
	File string `yaml:"file"`
	Rule string `yaml:"rule"`
}

type GroupView struct {
	Key      string   `yaml:"key"`
	Builders []string `yaml:"builders"`
	Files    []string `yaml:"files"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, logger, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	ctx := context.Background()
	rt := newBuildEnv(ctx, cfg, logger)
	defer rt.Close()

	gen := rt.generator(cfg, logger)
	if err := RegisterBuilders(gen, cfg, BuilderOptions{}); err != nil {
		return err
	}
	view, err := RunDiscover(ctx, gen)
	if err != nil {
		return err
	}
	return writeView(g, d.Format, view)
}

// RunDiscover plans a build and summarizes it.
func RunDiscover(ctx context.Context, gen *generator.Generator) (*PlanView, error) {
	plan, err := gen.Plan(ctx)
	if err != nil {
		return nil, err
	}

	builders := make(map[string][]string)
	for _, r := range gen.Routes() {
		builders[r.Pattern] = r.Builders
	}

	res := plan.Discovery
	view := &PlanView{
		Files:        len(res.Files),
		Duplicates:   res.Duplicates,
		MissingRoots: res.MissingRoots,
	}
	for _, s := range res.Ignored {
		view.Ignored = append(view.Ignored, IgnoredView{File: s.File, Rule: s.Rule})
	}
	for _, grp := range plan.Groups.Groups() {
		gv := GroupView{Key: grp.Key, Builders: builders[grp.Key], Files: []string{}}
		if gv.Builders == nil {
			gv.Builders = []string{}
		}
		for _, f := range grp.Files {
			gv.Files = append(gv.Files, f.RelativePath)
		}
		view.Groups = append(view.Groups, gv)
	}
	return view, nil
}

func writeView(g *Global, format string, view *PlanView) error {
	out := g.out()
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	}

	printf(out, "Discovered %d files (%d ignored, %d duplicates)\n",
		view.Files, len(view.Ignored), len(view.Duplicates))
	for _, m := range view.MissingRoots {
		printf(out, "missing root: %s\n", m)
	}
	for _, grp := range view.Groups {
		printf(out, "%s %s (%d files)\n", grp.Key, builderList(grp.Builders), len(grp.Files))
		for _, f := range grp.Files {
			printf(out, "  %s\n", f)
		}
	}
	return nil
}

func builderList(names []string) string {
	if len(names) == 0 {
		return "-> (no builders)"
	}
	return fmt.Sprintf("-> %v", names)
}
