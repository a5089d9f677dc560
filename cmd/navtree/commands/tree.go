package commands

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/metrics"
	"git.home.luguber.info/inful/navtree/internal/tree"
)

// TreeCmd implements the 'tree' command.
type TreeCmd struct {
	Locale string `arg:"" optional:"" help:"Locale to print (default: all, sorted)"`
	JSON   bool   `help:"Print the sidebar JSON instead of an outline"`
}

func (t *TreeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	locales := cfg.LocaleNames()
	if t.Locale != "" {
		if _, ok := cfg.Locales[t.Locale]; !ok {
			return errors.ValidationFailed("locale", fmt.Sprintf("unknown locale %q", t.Locale))
		}
		locales = []string{t.Locale}
	}

	pages, err := loadPages(cfg, g.Logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	policy, err := tree.ParsePolicy(cfg.Tree.MissingParent)
	if err != nil {
		return errors.ValidationFailed("tree.missing_parent", err.Error())
	}

	prefixes := make([]string, 0, len(cfg.Locales))
	for _, l := range cfg.LocaleNames() {
		prefixes = append(prefixes, cfg.Locales[l])
	}
	builder := tree.NewBuilder(prefixes, tree.WithPolicy(policy), tree.WithLogger(g.Logger))

	out := g.out()
	for _, locale := range locales {
		prefix := cfg.Locales[locale]
		root, err := builder.Build(pages, prefix)
		if err != nil {
			return err
		}
		if t.JSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(root); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(out, "# %s (%s)\n", locale, prefix)
		if err := tree.Fprint(out, root); err != nil {
			return err
		}
	}
	return nil
}
