// Package plugin hosts build plugins. A plugin computes its state in Ready and
// may contribute client enhancement scripts that are written to the output
// directory once every plugin is ready.
package plugin

import (
	"context"
	"fmt"
)

// Plugin represents a navtree build plugin with metadata and lifecycle methods.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, description).
	Metadata() Metadata

	// Validate checks the plugin's options before any hook runs.
	Validate() error

	// Ready runs once per build after pages are known.
	Ready(ctx context.Context, pc *Context) error
}

// AppEnhancer is implemented by plugins that emit client enhancement scripts.
type AppEnhancer interface {
	EnhanceAppFiles(ctx context.Context, pc *Context) ([]AppFile, error)
}

// AppFile is a generated script written to the output directory.
type AppFile struct {
	// Name is the file name without extension.
	Name    string
	Content []byte
}

// FileName returns the on-disk name of the script.
func (f AppFile) FileName() string {
	return f.Name + ".js"
}

// Metadata describes a plugin's identity.
type Metadata struct {
	// Name is the unique plugin identifier (e.g., "generate-tree").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks if the plugin metadata is valid.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	return nil
}
