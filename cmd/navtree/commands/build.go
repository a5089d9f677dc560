package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/navtree/internal/config"
	"git.home.luguber.info/inful/navtree/internal/generatetree"
	"git.home.luguber.info/inful/navtree/internal/logfields"
	"git.home.luguber.info/inful/navtree/internal/metrics"
	"git.home.luguber.info/inful/navtree/internal/page"
	"git.home.luguber.info/inful/navtree/internal/plugin"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output     string `short:"o" help:"Override output_dir"`
	Production bool   `short:"p" help:"Production build (changes the default mind-map link base)"`
	Dump       bool   `help:"Enable the mind-map export regardless of tree.dump"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	b.apply(cfg)

	rec := newRecorder(root.MetricsFile)
	_, err = RunBuild(context.Background(), cfg, g.Logger, rec)
	if ferr := rec.flush(g.Logger); err == nil {
		err = ferr
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(g.out(), "Build completed")
	return nil
}

func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Output != "" {
		cfg.OutputDir = b.Output
	}
	if b.Production {
		cfg.Production = true
	}
	if b.Dump {
		cfg.Tree.Dump = true
	}
}

// RunBuild loads pages and runs the generate-tree plugin once. It returns
// the app files written.
func RunBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	pages, err := loadPages(cfg, logger, rec)
	if err != nil {
		rec.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	return BuildPages(ctx, cfg, pages, logger, rec)
}

// BuildPages runs the generate-tree plugin over an already loaded page set.
func BuildPages(ctx context.Context, cfg *config.Config, pages []page.Descriptor, logger *slog.Logger, rec metrics.Recorder) ([]string, error) {
	start := time.Now()
	written, err := runPlugins(ctx, cfg, pages, logger, rec)
	rec.ObserveBuildDuration(time.Since(start))
	if err != nil {
		rec.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	rec.IncBuildOutcome(metrics.OutcomeSuccess)
	logger.Info("Build completed",
		logfields.Count(len(written)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return written, nil
}

func runPlugins(ctx context.Context, cfg *config.Config, pages []page.Descriptor, logger *slog.Logger, rec metrics.Recorder) ([]string, error) {
	reg := plugin.NewRegistry()
	gt := generatetree.New(generatetree.Options{
		Locales:        cfg.Locales,
		DumpingEnabled: cfg.Tree.Dump,
		URLBase:        cfg.Tree.URLBase,
		MissingParent:  cfg.Tree.MissingParent,
		TreesDir:       cfg.TreesDir(),
	}).WithRecorder(rec)
	if err := reg.Register(gt); err != nil {
		return nil, err
	}

	pc := plugin.NewContext(ctx, logger, pages, cfg.OutputDir, cfg.Production)
	pc.Logger.Info("Starting build",
		slog.String("output", cfg.OutputDir),
		slog.Bool("production", cfg.Production),
		slog.Bool("dump", cfg.Tree.Dump))
	return plugin.NewRunner(reg).WithRecorder(rec).Run(pc)
}
