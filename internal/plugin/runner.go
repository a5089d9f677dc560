package plugin

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/logfields"
	"git.home.luguber.info/inful/navtree/internal/metrics"
)

// Runner drives the registered plugins through one build.
type Runner struct {
	registry *Registry
	recorder metrics.Recorder
}

// NewRunner creates a runner over the given registry.
func NewRunner(registry *Registry) *Runner {
	return &Runner{registry: registry, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// Run validates every plugin, runs the Ready hooks in registration order,
// then collects app files from enhancers and writes them to pc.OutputDir.
// Hooks receive pc.Context. It returns the paths written.
func (r *Runner) Run(pc *Context) ([]string, error) {
	ctx := pc.Context
	if ctx == nil {
		ctx = context.Background()
	}
	plugins := r.registry.List()
	pc.Logger.Debug("Running plugins", slog.Any("plugins", r.registry.Names()))

	for _, p := range plugins {
		name := p.Metadata().Name
		if err := p.Validate(); err != nil {
			return nil, r.fail(pc.Logger, name, HookValidate, err)
		}
	}

	for _, p := range plugins {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := p.Metadata().Name
		if err := r.timed(pc.Logger, name, HookReady, func() error { return p.Ready(ctx, pc) }); err != nil {
			return nil, err
		}
	}

	var files []AppFile
	for _, p := range plugins {
		enhancer, ok := p.(AppEnhancer)
		if !ok {
			continue
		}
		name := p.Metadata().Name
		err := r.timed(pc.Logger, name, HookEnhanceAppFiles, func() error {
			out, err := enhancer.EnhanceAppFiles(ctx, pc)
			files = append(files, out...)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	return r.writeAppFiles(pc, files)
}

func (r *Runner) timed(logger *slog.Logger, name, hook string, fn func() error) error {
	stage := stageName(name, hook)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.recorder.ObserveStageDuration(stage, elapsed)

	if err != nil {
		r.recorder.IncStageResult(stage, metrics.ResultFailed)
		return r.fail(logger, name, hook, err)
	}
	r.recorder.IncStageResult(stage, metrics.ResultSuccess)
	logger.Debug("Plugin hook completed",
		logfields.Plugin(name),
		logfields.Stage(hook),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return nil
}

// fail keeps classified errors intact so the CLI reports their category;
// anything else is attributed to the plugin.
func (r *Runner) fail(logger *slog.Logger, name, hook string, err error) error {
	logger.Error("Plugin hook failed", logfields.Plugin(name), logfields.Stage(hook), logfields.Error(err))
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.PluginFailed(name, hook, err)
}

func (r *Runner) writeAppFiles(pc *Context, files []AppFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(pc.OutputDir, 0o750); err != nil {
		return nil, errors.FileSystemError("create output directory", pc.OutputDir, err)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(pc.OutputDir, f.FileName())
		if err := os.WriteFile(path, f.Content, 0o600); err != nil {
			return written, errors.FileSystemError("write app file", path, err)
		}
		pc.Logger.Info("Wrote app file", logfields.Path(path))
		written = append(written, path)
	}
	r.recorder.IncAppFiles(len(written))
	return written, nil
}
