package page

import (
	"fmt"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// treeInput is the part of a page the navigation output depends on. Body
// text only matters through HasContent.
type treeInput struct {
	Path        string         `yaml:"path"`
	Title       string         `yaml:"title"`
	Frontmatter map[string]any `yaml:"frontmatter,omitempty"`
	HasContent  bool           `yaml:"has_content"`
}

// Fingerprint hashes everything a build reads from pages. Two page sets with
// the same fingerprint produce the same trees, so a rebuild can be skipped.
// Editing the body of a page that already had content does not change it.
func Fingerprint(pages []Descriptor) (string, error) {
	sorted := SortByPath(pages)
	inputs := make([]treeInput, 0, len(sorted))
	for _, p := range sorted {
		inputs = append(inputs, treeInput{
			Path:        p.Path,
			Title:       p.Title,
			Frontmatter: p.Frontmatter,
			HasContent:  p.HasContent(),
		})
	}
	serialized, err := yaml.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("serialize pages for fingerprint: %w", err)
	}
	return mdfp.CalculateFingerprintFromParts(string(serialized), ""), nil
}
