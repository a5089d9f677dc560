package tree

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/logfields"
	"git.home.luguber.info/inful/navtree/internal/page"
)

// DefaultPrefix is the locale prefix that every page path starts with.
const DefaultPrefix = "/"

// MissingParentPolicy decides what happens when a page's intermediate path
// segment has no node yet (a directory without an index page).
type MissingParentPolicy string

const (
	// PolicyCreate inserts a non-clickable grouping node titled with the segment.
	PolicyCreate MissingParentPolicy = "create"
	// PolicyFail aborts the build with ErrMissingParent.
	PolicyFail MissingParentPolicy = "fail"
)

// ParsePolicy validates a policy name; "" selects PolicyCreate.
func ParsePolicy(s string) (MissingParentPolicy, error) {
	switch MissingParentPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyCreate:
		return PolicyCreate, nil
	case PolicyFail:
		return PolicyFail, nil
	default:
		return "", fmt.Errorf("unknown missing parent policy %q (want create or fail)", s)
	}
}

// Builder turns sorted page descriptors into one tree per locale prefix.
type Builder struct {
	prefixes []string
	policy   MissingParentPolicy
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithPolicy sets the missing parent policy.
func WithPolicy(p MissingParentPolicy) Option {
	return func(b *Builder) { b.policy = p }
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a builder for the given set of locale prefixes. The full
// set is needed to keep pages of specific locales out of the default tree.
func NewBuilder(prefixes []string, opts ...Option) *Builder {
	b := &Builder{
		prefixes: append([]string(nil), prefixes...),
		policy:   PolicyCreate,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildAll builds the tree of every configured prefix.
func (b *Builder) BuildAll(pages []page.Descriptor) (map[string]*Node, error) {
	sorted := page.SortByPath(pages)
	trees := make(map[string]*Node, len(b.prefixes))
	for _, prefix := range b.prefixes {
		root, err := b.build(sorted, prefix)
		if err != nil {
			return nil, err
		}
		trees[prefix] = root
	}
	return trees, nil
}

// Build builds the tree for a single prefix.
func (b *Builder) Build(pages []page.Descriptor, prefix string) (*Node, error) {
	return b.build(page.SortByPath(pages), prefix)
}

func (b *Builder) build(sorted []page.Descriptor, prefix string) (*Node, error) {
	rootIdx := -1
	for i := range sorted {
		if sorted[i].Path != prefix {
			continue
		}
		if rootIdx >= 0 {
			return nil, errors.DuplicateKey(sorted[i].Path, "", sorted[rootIdx].Path)
		}
		rootIdx = i
	}
	if rootIdx < 0 {
		return nil, errors.MissingRootPage(prefix)
	}

	root := b.nodeFor(sorted[rootIdx], "")
	root.Path = ""

	for i := range sorted {
		p := sorted[i]
		if i == rootIdx || !b.belongsTo(p.Path, prefix) {
			continue
		}
		if err := b.insert(root, p, prefix); err != nil {
			return nil, err
		}
	}

	b.logger.Debug("Built navigation tree", logfields.Prefix(prefix), logfields.Count(root.Count()))
	return root, nil
}

// belongsTo reports whether a page path falls under prefix. For the default
// prefix, pages under any other configured prefix are excluded since every
// path starts with "/".
func (b *Builder) belongsTo(pagePath, prefix string) bool {
	if pagePath == prefix || !strings.HasPrefix(pagePath, prefix) {
		return false
	}
	if prefix != DefaultPrefix {
		return true
	}
	for _, other := range b.prefixes {
		if other != DefaultPrefix && strings.HasPrefix(pagePath, other) {
			return false
		}
	}
	return true
}

func (b *Builder) insert(root *Node, p page.Descriptor, prefix string) error {
	keys := Keys(p.Path, prefix)
	if len(keys) == 0 {
		return errors.EmptyPagePath(p.Path, prefix)
	}

	parent := root
	for _, key := range keys[:len(keys)-1] {
		next := parent.Child(key)
		if next != nil && next.filePage != "" {
			// "/b/c.html" cannot nest under the file page "/b.html".
			if b.policy == PolicyFail {
				return errors.MissingParent(p.Path, key)
			}
			return errors.DuplicateKey(p.Path, key, next.filePage)
		}
		if next == nil {
			if b.policy == PolicyFail {
				return errors.MissingParent(p.Path, key)
			}
			next = newNode(key, key)
			parent.Children = append(parent.Children, next)
			b.logger.Warn("Created grouping node for directory without index page",
				logfields.Page(p.Path), logfields.Key(key))
		}
		parent = next
	}

	leafKey := keys[len(keys)-1]
	if !strings.HasSuffix(p.Path, "/") {
		// Directory pages keep dotted names ("/v1.2/") intact.
		leafKey = LeafKey(leafKey)
	}
	node := b.nodeFor(p, leafKey)

	if existing := parent.Child(leafKey); existing != nil {
		return errors.DuplicateKey(p.Path, leafKey, existing.Path)
	}
	parent.Children = append(parent.Children, node)
	return nil
}

// nodeFor converts a page to a tree node. The path is only set when the page
// has content; otherwise the node is a non-clickable label.
func (b *Builder) nodeFor(p page.Descriptor, key string) *Node {
	n := newNode(key, p.DisplayTitle())
	if p.HasContent() {
		n.Path = p.Path
	}
	if !strings.HasSuffix(p.Path, "/") {
		n.filePage = p.Path
	}
	if raw := p.FrontmatterString("direction"); raw != "" {
		if d, ok := ParseDirection(raw); ok {
			n.Direction = d
		} else {
			b.logger.Warn("Ignoring unknown direction", logfields.Page(p.Path), slog.String("direction", raw))
		}
	}
	n.Style = p.FrontmatterString("style")
	n.Color = p.FrontmatterString("color")
	return n
}

// Keys splits a page path relative to prefix into non-empty segments,
// ordered from root to leaf: "/a/c.html" under "/" yields ["a", "c.html"].
func Keys(pagePath, prefix string) []string {
	rel := strings.TrimPrefix(pagePath, prefix)
	parts := strings.Split(rel, "/")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			keys = append(keys, part)
		}
	}
	return keys
}

// LeafKey strips the trailing extension of a segment ("c.html" -> "c"). A
// segment that would become empty (".hidden") is returned unchanged.
func LeafKey(segment string) string {
	if k := strings.TrimSuffix(segment, path.Ext(segment)); k != "" {
		return k
	}
	return segment
}
