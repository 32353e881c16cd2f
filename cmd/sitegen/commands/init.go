package commands

import (
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write sitegen.yaml into (defaults to --config)"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	if i.Output != "" {
		return RunInit(g, filepath.Join(i.Output, "sitegen.yaml"), i.Force)
	}
	return RunInit(g, root.Config, i.Force)
}

func RunInit(g *Global, configPath string, force bool) error {
	out := g.out()
	printf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		printf(out, "Initialization failed\n")
		return err
	}
	printf(out, "initialized successfully\n")
	return nil
}
