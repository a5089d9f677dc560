// Package watch rebuilds on content changes. Events are debounced and
// rebuilds never overlap; a change during a rebuild queues exactly one more.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/navtree/internal/logfields"
	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
)

// DefaultDebounce is the quiet period before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one build. Its error is logged; watching continues.
type BuildFunc func(ctx context.Context) error

// Watcher watches a directory tree and calls a BuildFunc on changes.
type Watcher struct {
	dir      string
	build    BuildFunc
	debounce time.Duration
	rescan   time.Duration
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithRescan requests a rebuild every interval regardless of events, for
// filesystems that do not deliver change notifications. Zero disables it.
func WithRescan(interval time.Duration) Option {
	return func(w *Watcher) { w.rescan = interval }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher over dir.
func New(dir string, build BuildFunc, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		build:    build,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is canceled or the underlying watcher fails to start.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.addDirsRecursive(fw, w.dir); err != nil {
		return err
	}

	rebuildReq := make(chan struct{}, 1)
	trigger, stop := newDebouncer(w.debounce, rebuildReq)
	defer stop()

	if w.rescan > 0 {
		scheduler, err := w.scheduleRescan(rebuildReq)
		if err != nil {
			return err
		}
		defer func() { _ = scheduler.Shutdown() }()
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.rebuildLoop(loopCtx, rebuildReq)
	}()

	w.logger.Info("Watching for changes", logfields.Path(w.dir))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopped watching", logfields.Path(w.dir))
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

// rebuildLoop serializes builds. rebuildReq holds at most one request, so
// changes arriving while a build runs collapse into a single follow-up build.
func (w *Watcher) rebuildLoop(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			w.logger.Info("Change detected; rebuilding")
			start := time.Now()
			if err := w.build(ctx); err != nil {
				w.logger.Warn("rebuild failed", logfields.Error(err))
				continue
			}
			w.logger.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		}
	}
}

// scheduleRescan starts a gocron job that queues a rebuild every w.rescan.
func (w *Watcher) scheduleRescan(rebuildReq chan<- struct{}) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.rescan),
		gocron.NewTask(func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		}),
		gocron.WithName("rescan"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create rescan job: %w", err)
	}
	s.Start()
	w.logger.Info("Periodic rescan enabled", slog.Duration("interval", w.rescan))
	return s, nil
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(fw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// newDebouncer returns a trigger that signals out once no further trigger
// has happened for d, and a stop func that cancels a pending signal.
func newDebouncer(d time.Duration, out chan<- struct{}) (trigger func(), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer

	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case out <- struct{}{}:
			default:
			}
		})
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .DS_Store and emacs lock files (.#name)
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
