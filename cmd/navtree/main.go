package main

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/navtree/cmd/navtree/commands"
	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/version"
	"github.com/alecthomas/kong"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("navtree"),
		kong.Description("Build locale sidebars and mind-map trees from a documentation site's pages."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout}, cli)
	if err != nil {
		os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
	}
}
