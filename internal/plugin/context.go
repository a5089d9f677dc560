package plugin

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/navtree/internal/logfields"
	"git.home.luguber.info/inful/navtree/internal/page"
	"github.com/google/uuid"
)

// Context provides plugins with the build inputs and a place to keep state
// for the duration of one build.
type Context struct {
	// Context is the standard Go context for cancellation and deadlines.
	Context context.Context

	// Logger carries the build ID attribute.
	Logger *slog.Logger

	// BuildID uniquely identifies this build.
	BuildID string

	// Pages is the site's page list in the order it was discovered.
	Pages []page.Descriptor

	// OutputDir is where the site is generated.
	OutputDir string

	// IsProd is true for production builds.
	IsProd bool

	mu   sync.RWMutex
	data map[string]any
}

// NewContext creates a build context with a fresh build ID.
func NewContext(ctx context.Context, logger *slog.Logger, pages []page.Descriptor, outputDir string, isProd bool) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Context{
		Context:   ctx,
		Logger:    logger.With(logfields.BuildID(id)),
		BuildID:   id,
		Pages:     pages,
		OutputDir: outputDir,
		IsProd:    isProd,
		data:      make(map[string]any),
	}
}

// Set stores a value for the rest of the build.
func (pc *Context) Set(key string, value any) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.data == nil {
		pc.data = make(map[string]any)
	}
	pc.data[key] = value
}

// Value retrieves a value from the build store.
// Returns nil if the key doesn't exist.
func (pc *Context) Value(key string) any {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.data[key]
}

// Lookup retrieves a typed value from the build store.
func Lookup[T any](pc *Context, key string) (T, bool) {
	v, ok := pc.Value(key).(T)
	return v, ok
}
