// Package generatetree is the build plugin that turns the site's pages into a
// sidebar tree per locale prefix and, optionally, a mind-map document per
// locale. Both are delivered to the client through one enhancement script.
package generatetree

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/logfields"
	"git.home.luguber.info/inful/navtree/internal/metrics"
	"git.home.luguber.info/inful/navtree/internal/mindmap"
	"git.home.luguber.info/inful/navtree/internal/page"
	"git.home.luguber.info/inful/navtree/internal/plugin"
	"git.home.luguber.info/inful/navtree/internal/tree"
)

const (
	Name    = "generate-tree"
	Version = "v1.0.0"

	// AppFileName is the enhancement script name, without extension.
	AppFileName = "generate-tree-enhance-app"

	// StateKey is the plugin context key holding *State.
	StateKey = "generate-tree.state"
)

// Default link bases of the mind-map export.
const (
	ProductionURLBase  = "https://tlroadmap.io"
	DevelopmentURLBase = "http://localhost:8080"
)

// Options configures the plugin.
type Options struct {
	// Locales maps a locale name to its URL prefix. Required.
	Locales map[string]string
	// DumpingEnabled turns on the mind-map export.
	DumpingEnabled bool
	// URLBase overrides the mind-map link base.
	URLBase string
	// MissingParent is the tree.MissingParentPolicy name; "" means create.
	MissingParent string
	// TreesDir receives tree-<locale>.json; defaults to <OutputDir>/../trees.
	TreesDir string
}

// State is what Ready computes for one build.
type State struct {
	// Locales lists locale names in build order.
	Locales []string
	// Prefixes maps locale name to prefix.
	Prefixes map[string]string
	// Sidebars holds the navigation tree per prefix.
	Sidebars map[string]*tree.Node
	// MindMaps holds the exported document per locale; empty unless dumping.
	MindMaps map[string]*mindmap.Root
	URLBase  string
}

// Plugin implements plugin.Plugin and plugin.AppEnhancer.
type Plugin struct {
	opts     Options
	recorder metrics.Recorder
}

var (
	_ plugin.Plugin      = (*Plugin)(nil)
	_ plugin.AppEnhancer = (*Plugin)(nil)
)

// New creates the plugin.
func New(opts Options) *Plugin {
	return &Plugin{opts: opts, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder.
func (p *Plugin) WithRecorder(rec metrics.Recorder) *Plugin {
	if rec != nil {
		p.recorder = rec
	}
	return p
}

func (p *Plugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        Name,
		Version:     Version,
		Description: "Builds locale sidebars and mind-map trees from page paths",
	}
}

// Validate checks the locale map and policy name. Locale names become part of
// the dump file name, so they must not be blank or contain path separators.
func (p *Plugin) Validate() error {
	if len(p.opts.Locales) == 0 {
		return errors.ValidationFailed("locales", "at least one locale is required")
	}
	seen := make(map[string]string, len(p.opts.Locales))
	for _, locale := range p.localeNames() {
		if strings.TrimSpace(locale) == "" || strings.ContainsAny(locale, `/\`) {
			return errors.ValidationFailed("locales."+locale, "locale name must be non-empty and free of path separators")
		}
		prefix := p.opts.Locales[locale]
		if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
			return errors.ValidationFailed("locales."+locale, "prefix must start and end with '/'")
		}
		if other, dup := seen[prefix]; dup {
			return errors.ValidationFailed("locales."+locale, "prefix "+prefix+" already used by "+other)
		}
		seen[prefix] = locale
	}
	if _, err := tree.ParsePolicy(p.opts.MissingParent); err != nil {
		return errors.ValidationFailed("missing_parent", err.Error())
	}
	return nil
}

// Ready builds every locale tree and, when dumping is enabled, the mind-map
// documents and their files. The result is stored on pc under StateKey.
func (p *Plugin) Ready(ctx context.Context, pc *plugin.Context) error {
	policy, err := tree.ParsePolicy(p.opts.MissingParent)
	if err != nil {
		return errors.ValidationFailed("missing_parent", err.Error())
	}

	locales := p.localeNames()
	prefixes := make([]string, 0, len(locales))
	for _, l := range locales {
		prefixes = append(prefixes, p.opts.Locales[l])
	}

	state := &State{
		Locales:  locales,
		Prefixes: make(map[string]string, len(locales)),
		Sidebars: make(map[string]*tree.Node, len(locales)),
		MindMaps: make(map[string]*mindmap.Root),
		URLBase:  ResolveURLBase(p.opts.URLBase, pc.IsProd),
	}

	builder := tree.NewBuilder(prefixes, tree.WithPolicy(policy), tree.WithLogger(pc.Logger))
	pages := page.SortByPath(pc.Pages)

	for _, locale := range locales {
		if err := ctx.Err(); err != nil {
			return err
		}
		prefix := p.opts.Locales[locale]
		logger := pc.Logger.With(logfields.Locale(locale), logfields.Prefix(prefix))

		root, err := builder.Build(pages, prefix)
		if err != nil {
			return err
		}
		state.Prefixes[locale] = prefix
		state.Sidebars[prefix] = root
		p.recorder.SetTreeNodes(prefix, root.Count())
		logger.Info("Built sidebar tree", logfields.Count(root.Count()))

		if !p.opts.DumpingEnabled {
			continue
		}
		doc, err := mindmap.Remap(root, state.URLBase)
		if err != nil {
			if ne, ok := errors.As(err); ok {
				return ne.WithContext("locale", locale)
			}
			return err
		}
		path, err := p.dump(pc.OutputDir, locale, doc)
		if err != nil {
			return err
		}
		state.MindMaps[locale] = doc
		logger.Info("Wrote mind-map tree", logfields.Path(path))
	}

	pc.Set(StateKey, state)
	return nil
}

func (p *Plugin) dump(outputDir, locale string, doc *mindmap.Root) (string, error) {
	data, err := mindmap.Render(doc)
	if err != nil {
		return "", errors.InternalError("encode mind-map tree", err)
	}
	dir := p.treesDir(outputDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", errors.FileSystemError("create trees directory", dir, err)
	}
	path := filepath.Join(dir, "tree-"+locale+".json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", errors.FileSystemError("write mind-map tree", path, err)
	}
	return path, nil
}

func (p *Plugin) treesDir(outputDir string) string {
	if p.opts.TreesDir != "" {
		return p.opts.TreesDir
	}
	return filepath.Join(outputDir, "..", "trees")
}

// EnhanceAppFiles renders the client enhancement script from the state
// computed by Ready.
func (p *Plugin) EnhanceAppFiles(_ context.Context, pc *plugin.Context) ([]plugin.AppFile, error) {
	state, ok := StateFrom(pc)
	if !ok {
		return nil, errors.InternalError("generate-tree state missing; Ready did not run", nil)
	}
	content, err := RenderScript(state)
	if err != nil {
		return nil, err
	}
	return []plugin.AppFile{{Name: AppFileName, Content: content}}, nil
}

// StateFrom returns the state stored by Ready.
func StateFrom(pc *plugin.Context) (*State, bool) {
	return plugin.Lookup[*State](pc, StateKey)
}

// ResolveURLBase picks the override, else the production or development default.
func ResolveURLBase(override string, isProd bool) string {
	switch {
	case override != "":
		return override
	case isProd:
		return ProductionURLBase
	default:
		return DevelopmentURLBase
	}
}

func (p *Plugin) localeNames() []string {
	names := make([]string, 0, len(p.opts.Locales))
	for name := range p.opts.Locales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
