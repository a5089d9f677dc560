// Package page defines the page descriptors consumed by the navigation tree
// builder and the sources that produce them: a Markdown content directory or a
// JSON manifest exported by a site generator.
package page

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Descriptor is a read-only view of one site page.
type Descriptor struct {
	// Path is the URL path of the page ("/", "/a/", "/a/c.html").
	Path string `json:"path"`
	// Title is the page title as determined by the site generator.
	Title string `json:"title"`
	// Frontmatter carries arbitrary page fields; title, direction, style and
	// color are read by the tree builder.
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	// Content is the page body with frontmatter stripped.
	Content string `json:"content,omitempty"`
	// SourceFile is the file the page came from, for diagnostics only.
	SourceFile string `json:"-"`
}

// HasContent reports whether the page body is non-empty after trimming whitespace.
func (d Descriptor) HasContent() bool {
	return strings.TrimSpace(d.Content) != ""
}

// FrontmatterString returns a scalar frontmatter field formatted as text, or ""
// when absent or not a scalar. YAML decodes `title: 2024` as an int, so numbers
// and booleans are formatted rather than dropped.
func (d Descriptor) FrontmatterString(key string) string {
	switch v := d.Frontmatter[key].(type) {
	case nil, map[string]any, []any:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// DisplayTitle is the frontmatter title if set, else the page title.
func (d Descriptor) DisplayTitle() string {
	if t := d.FrontmatterString("title"); t != "" {
		return t
	}
	return d.Title
}

// SortByPath returns a copy of pages ordered by path, ascending and stable.
func SortByPath(pages []Descriptor) []Descriptor {
	sorted := make([]Descriptor, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}

// LoadManifest reads page descriptors from a JSON array file.
func LoadManifest(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page manifest: %w", err)
	}
	var pages []Descriptor
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("decode page manifest %s: %w", path, err)
	}
	for i := range pages {
		if pages[i].Path == "" {
			return nil, fmt.Errorf("page manifest %s: entry %d has no path", path, i)
		}
		pages[i].SourceFile = fmt.Sprintf("%s#%d", path, i)
	}
	return pages, nil
}
