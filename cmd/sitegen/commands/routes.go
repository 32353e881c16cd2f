package commands

import (
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegen/internal/generator"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct{}

func (r *RoutesCmd) Run(g *Global, root *CLI) error {
	cfg, logger, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	gen := generator.New(GeneratorConfig(cfg), nil, generator.WithLogger(logger))
	if err := RegisterBuilders(gen, cfg, BuilderOptions{}); err != nil {
		return err
	}
	enc := yaml.NewEncoder(g.out())
	enc.SetIndent(2)
	if err := enc.Encode(gen.Routes()); err != nil {
		return err
	}
	return enc.Close()
}
