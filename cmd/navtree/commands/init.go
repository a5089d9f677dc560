package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/navtree/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	// If the user specified an output directory, place the config there as "navtree.yaml".
	cfgPath := root.Config
	if i.Output != "" {
		cfgPath = filepath.Join(i.Output, "navtree.yaml")
	}
	fmt.Fprintf(g.out(), "Writing configuration to %s\n", cfgPath)
	return config.Init(cfgPath, i.Force)
}
