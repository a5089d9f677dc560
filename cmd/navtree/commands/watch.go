package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/logfields"
	"git.home.luguber.info/inful/navtree/internal/page"
	"git.home.luguber.info/inful/navtree/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildCmd `embed:""`

	Rescan time.Duration `help:"Also rebuild on this interval (e.g. 5m); 0 disables" default:"0s"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	w.apply(cfg)
	if cfg.Pages != "" {
		return errors.ValidationFailed("pages", "watch needs content_dir; a page manifest cannot be watched")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rec := newRecorder(root.MetricsFile)
	var last string
	build := func(ctx context.Context) error {
		pages, err := loadPages(cfg, g.Logger, rec)
		if err != nil {
			return err
		}
		fp, err := page.Fingerprint(pages)
		if err != nil {
			g.Logger.Warn("page fingerprint failed; rebuilding", logfields.Error(err))
		} else if fp == last {
			g.Logger.Info("Pages unchanged; skipping rebuild")
			return nil
		}

		_, err = BuildPages(ctx, cfg, pages, g.Logger, rec)
		if ferr := rec.flush(g.Logger); err == nil {
			err = ferr
		}
		if err == nil {
			last = fp
		}
		return err
	}

	// A failing first build is reported but does not stop watching; the
	// next change may fix it.
	if err := build(ctx); err != nil {
		g.Logger.Warn("initial build failed", logfields.Error(err))
	}
	return watch.New(cfg.ContentDir, build,
		watch.WithLogger(g.Logger),
		watch.WithRescan(w.Rescan),
	).Run(ctx)
}
