package tree

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/page"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fm(kv ...string) map[string]any {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func examplePages() []page.Descriptor {
	return []page.Descriptor{
		{Path: "/a/c.html", Title: "C", Content: "text"},
		{Path: "/b/", Title: "B", Frontmatter: fm("direction", "right")},
		{Path: "/", Title: "Home"},
		{Path: "/a/", Title: "A", Frontmatter: fm("direction", "left")},
	}
}

func TestBuild_EndToEndExample(t *testing.T) {
	b := NewBuilder([]string{"/"}, WithLogger(quietLogger()))

	root, err := b.Build(examplePages(), "/")
	require.NoError(t, err)

	require.Equal(t, "", root.Key)
	require.Equal(t, "Home", root.Title)
	require.False(t, root.Clickable())
	require.Len(t, root.Children, 2)

	a := root.Children[0]
	require.Equal(t, "a", a.Key)
	require.Equal(t, DirectionLeft, a.Direction)
	require.Equal(t, "", a.Path)
	require.Len(t, a.Children, 1)
	require.Equal(t, "c", a.Children[0].Key)
	require.Equal(t, "/a/c.html", a.Children[0].Path)
	require.Empty(t, a.Children[0].Children)

	bNode := root.Children[1]
	require.Equal(t, "b", bNode.Key)
	require.Equal(t, DirectionRight, bNode.Direction)
	require.NotNil(t, bNode.Children)
	require.Empty(t, bNode.Children)
}

func TestBuild_JSONShape(t *testing.T) {
	b := NewBuilder([]string{"/"}, WithLogger(quietLogger()))
	root, err := b.Build(examplePages(), "/")
	require.NoError(t, err)

	data, err := json.Marshal(root)
	require.NoError(t, err)

	want := `{"key":"","title":"Home","children":[` +
		`{"key":"a","title":"A","children":[{"key":"c","title":"C","children":[],"collapsable":false,"path":"/a/c.html"}],"collapsable":false,"direction":"left"},` +
		`{"key":"b","title":"B","children":[],"collapsable":false,"direction":"right"}` +
		`],"collapsable":false}`
	require.JSONEq(t, want, string(data))
}

func TestBuild_MissingRootPage(t *testing.T) {
	b := NewBuilder([]string{"/docs/"}, WithLogger(quietLogger()))

	_, err := b.Build([]page.Descriptor{{Path: "/docs/a.html", Content: "x"}}, "/docs/")
	require.Error(t, err)
	require.True(t, stderrors.Is(err, errors.ErrMissingRootPage))
	require.Contains(t, err.Error(), "/docs/index.md")
	require.Contains(t, err.Error(), "/docs/README.md")
}

func TestBuild_RootForNonDefaultPrefix(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/docs/", Title: "Docs"},
		{Path: "/docs/guide.html", Title: "Guide", Content: "x"},
	}
	b := NewBuilder([]string{"/docs/"}, WithLogger(quietLogger()))

	root, err := b.Build(pages, "/docs/")
	require.NoError(t, err)
	require.Equal(t, "Docs", root.Title)
	require.Len(t, root.Children, 1)
	require.Equal(t, "guide", root.Children[0].Key)
}

func TestBuildAll_DefaultPrefixExcludesOtherLocales(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/intro.html", Title: "Intro", Content: "x"},
		{Path: "/docs/", Title: "Docs"},
		{Path: "/docs/guide.html", Title: "Guide", Content: "x"},
	}
	b := NewBuilder([]string{"/", "/docs/"}, WithLogger(quietLogger()))

	trees, err := b.BuildAll(pages)
	require.NoError(t, err)

	defaultTree := trees["/"]
	require.Len(t, defaultTree.Children, 1)
	require.Equal(t, "intro", defaultTree.Children[0].Key)
	_ = defaultTree.Walk(func(n *Node, _ int) error {
		require.NotEqual(t, "/docs/guide.html", n.Path)
		require.NotEqual(t, "docs", n.Key)
		return nil
	})

	docsTree := trees["/docs/"]
	require.Len(t, docsTree.Children, 1)
	require.Equal(t, "/docs/guide.html", docsTree.Children[0].Path)
}

func TestBuild_EveryPageOnceAtSegmentDepth(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/a/", Title: "A"},
		{Path: "/a/b/", Title: "B", Content: "x"},
		{Path: "/a/b/c.html", Title: "C", Content: "x"},
		{Path: "/a/b/d.html", Title: "D", Content: "x"},
		{Path: "/e.html", Title: "E", Content: "x"},
	}
	b := NewBuilder([]string{"/"}, WithLogger(quietLogger()))

	root, err := b.Build(pages, "/")
	require.NoError(t, err)

	seen := map[string]int{}
	depths := map[string]int{}
	_ = root.Walk(func(n *Node, depth int) error {
		if depth > 0 {
			seen[n.Title]++
			depths[n.Title] = depth
		}
		return nil
	})
	require.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1, "D": 1, "E": 1}, seen)
	for _, p := range pages[1:] {
		require.Equal(t, len(Keys(p.Path, "/")), depths[p.Title], p.Path)
	}
	require.Equal(t, 5, root.Count())
}

func TestBuild_LeafClickability(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/full.html", Title: "Full", Content: "\n body \n"},
		{Path: "/empty.html", Title: "Empty", Content: " \n\t"},
	}
	b := NewBuilder([]string{"/"}, WithLogger(quietLogger()))

	root, err := b.Build(pages, "/")
	require.NoError(t, err)

	require.Equal(t, "/full.html", root.Child("full").Path)
	require.True(t, root.Child("full").Clickable())
	require.Equal(t, "", root.Child("empty").Path)
	require.False(t, root.Child("empty").Clickable())
}

func TestBuild_FrontmatterTitleOverridesPageTitle(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home", Frontmatter: fm("title", "Roadmap")},
		{Path: "/x.html", Title: "Heading", Frontmatter: fm("title", "Override", "style", "fork", "color", "#f00")},
	}
	b := NewBuilder([]string{"/"}, WithLogger(quietLogger()))

	root, err := b.Build(pages, "/")
	require.NoError(t, err)
	require.Equal(t, "Roadmap", root.Title)
	x := root.Child("x")
	require.Equal(t, "Override", x.Title)
	require.Equal(t, "fork", x.Style)
	require.Equal(t, "#f00", x.Color)
}

func TestBuild_NumericFrontmatterTitle(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/y.html", Title: "Heading", Frontmatter: map[string]any{"title": 2024}},
		{Path: "/z.html", Title: "Fallback", Frontmatter: map[string]any{"title": []any{"a"}}},
	}
	b := NewBuilder([]string{"/"}, WithLogger(quietLogger()))

	root, err := b.Build(pages, "/")
	require.NoError(t, err)
	require.Equal(t, "2024", root.Child("y").Title)
	require.Equal(t, "Fallback", root.Child("z").Title)
}

func TestBuild_MissingParentCreatesGroupingNode(t *testing.T) {
	var logs bytes.Buffer
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/x/y.html", Title: "Y", Content: "x"},
	}
	b := NewBuilder([]string{"/"}, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	root, err := b.Build(pages, "/")
	require.NoError(t, err)

	x := root.Child("x")
	require.NotNil(t, x)
	require.Equal(t, "x", x.Title)
	require.False(t, x.Clickable())
	require.Equal(t, "/x/y.html", x.Child("y").Path)
	require.True(t, strings.Contains(logs.String(), "grouping node"))
}

func TestBuild_MissingParentFailPolicy(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/x/y.html", Title: "Y", Content: "x"},
	}
	b := NewBuilder([]string{"/"}, WithPolicy(PolicyFail), WithLogger(quietLogger()))

	_, err := b.Build(pages, "/")
	require.True(t, stderrors.Is(err, errors.ErrMissingParent))
}

func TestBuild_DuplicateSiblingKeyRejected(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/x.html", Title: "X page", Content: "x"},
		{Path: "/x/", Title: "X dir"},
	}
	b := NewBuilder([]string{"/"}, WithLogger(quietLogger()))

	_, err := b.Build(pages, "/")
	require.True(t, stderrors.Is(err, errors.ErrDuplicateKey))
}

func TestBuild_FilePageIsNotAParent(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/b.html", Title: "B", Content: "b"},
		{Path: "/b/c.html", Title: "C", Content: "c"},
	}

	_, err := NewBuilder([]string{"/"}, WithPolicy(PolicyFail), WithLogger(quietLogger())).Build(pages, "/")
	require.True(t, stderrors.Is(err, errors.ErrMissingParent))

	_, err = NewBuilder([]string{"/"}, WithLogger(quietLogger())).Build(pages, "/")
	require.True(t, stderrors.Is(err, errors.ErrDuplicateKey))
	require.Contains(t, err.Error(), "/b/c.html")
}

func TestBuild_DuplicateRootPageRejected(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/ru/", Title: "A"},
		{Path: "/ru/", Title: "B"},
	}
	b := NewBuilder([]string{"/", "/ru/"}, WithLogger(quietLogger()))

	_, err := b.Build(pages, "/ru/")
	require.True(t, stderrors.Is(err, errors.ErrDuplicateKey))
}

func TestBuild_EmptySegmentsRejected(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/docs/", Title: "Docs"},
		{Path: "/docs//", Title: "Odd"},
	}
	b := NewBuilder([]string{"/docs/"}, WithLogger(quietLogger()))

	_, err := b.Build(pages, "/docs/")
	require.True(t, stderrors.Is(err, errors.ErrEmptyPagePath))
}

func TestBuild_UnknownDirectionIgnored(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/a/", Title: "A", Frontmatter: fm("direction", "up")},
		{Path: "/b/", Title: "B", Frontmatter: fm("direction", " Right ")},
	}
	b := NewBuilder([]string{"/"}, WithLogger(quietLogger()))

	root, err := b.Build(pages, "/")
	require.NoError(t, err)
	require.Equal(t, Direction(""), root.Child("a").Direction)
	require.Equal(t, DirectionRight, root.Child("b").Direction)
}

func TestBuild_DottedDirectoryKeepsName(t *testing.T) {
	pages := []page.Descriptor{
		{Path: "/", Title: "Home"},
		{Path: "/v1.2/", Title: "v1.2"},
		{Path: "/v1.2/notes.html", Title: "Notes", Content: "x"},
	}
	b := NewBuilder([]string{"/"}, WithPolicy(PolicyFail), WithLogger(quietLogger()))

	root, err := b.Build(pages, "/")
	require.NoError(t, err)
	require.Equal(t, "/v1.2/notes.html", root.Child("v1.2").Child("notes").Path)
}

func TestBuild_DoesNotMutateInputOrder(t *testing.T) {
	pages := examplePages()
	b := NewBuilder([]string{"/"}, WithLogger(quietLogger()))

	_, err := b.Build(pages, "/")
	require.NoError(t, err)
	require.Equal(t, "/a/c.html", pages[0].Path)
}

func TestKeysAndLeafKey(t *testing.T) {
	require.Equal(t, []string{"a", "c.html"}, Keys("/a/c.html", "/"))
	require.Equal(t, []string{"abc"}, Keys("/abc/", "/"))
	require.Equal(t, []string{"a"}, Keys("/es/a/", "/es/"))
	require.Empty(t, Keys("/es/", "/es/"))

	require.Equal(t, "c", LeafKey("c.html"))
	require.Equal(t, "abc", LeafKey("abc"))
	require.Equal(t, ".hidden", LeafKey(".hidden"))
	require.Equal(t, "a.b", LeafKey("a.b.html"))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, PolicyCreate, p)

	p, err = ParsePolicy("FAIL")
	require.NoError(t, err)
	require.Equal(t, PolicyFail, p)

	_, err = ParsePolicy("merge")
	require.Error(t, err)
}

func TestFprint(t *testing.T) {
	b := NewBuilder([]string{"/"}, WithLogger(quietLogger()))
	root, err := b.Build(examplePages(), "/")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, root))
	require.Equal(t, "Home\n  A [a] (left)\n    C [c] -> /a/c.html\n  B [b] (right)\n", buf.String())
}
