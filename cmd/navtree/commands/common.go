package commands

import (
	"io"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/navtree/internal/config"
	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/logfields"
	"git.home.luguber.info/inful/navtree/internal/metrics"
	"git.home.luguber.info/inful/navtree/internal/page"
	"github.com/alecthomas/kong"
)

// Global holds process-wide dependencies handed to every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"navtree.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this textfile after each build"`

	Build BuildCmd `cmd:"" help:"Build sidebars, the client enhancement script and mind-map trees"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild whenever the content directory changes"`
	Tree  TreeCmd  `cmd:"" help:"Print a locale's sidebar tree"`
}

// logLevel is shared by the default logger so the configured level can be
// applied once the config file has been read.
var logLevel = new(slog.LevelVar)

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logLevel.Set(config.ResolveLogLevel(c.Verbose, ""))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the config file and applies its logging level.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	logLevel.Set(config.ResolveLogLevel(c.Verbose, cfg.Logging.Level))
	return cfg, nil
}

// loadPages reads the page manifest when configured, otherwise discovers
// markdown files under the content directory.
func loadPages(cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) ([]page.Descriptor, error) {
	const stage = "load_pages"
	start := time.Now()
	var (
		pages  []page.Descriptor
		err    error
		source string
	)
	if cfg.Pages != "" {
		source = cfg.Pages
		pages, err = page.LoadManifest(cfg.Pages)
	} else {
		source = cfg.ContentDir
		pages, err = page.Discover(cfg.ContentDir)
	}
	elapsed := time.Since(start)
	rec.ObserveStageDuration(stage, elapsed)
	if err != nil {
		rec.IncStageResult(stage, metrics.ResultFailed)
		return nil, errors.FileSystemError("load pages", source, err)
	}
	rec.IncStageResult(stage, metrics.ResultSuccess)
	logger.Info("Loaded pages",
		logfields.Path(source),
		logfields.Count(len(pages)),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return pages, nil
}
