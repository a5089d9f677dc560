package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	doc, err := Parse(input)
	require.NoError(t, err)
	require.Empty(t, doc.Fields)
	require.Equal(t, input, doc.Body)
}

func TestParse_YAMLFrontmatter_DecodesFields(t *testing.T) {
	input := []byte("---\ntitle: Roadmap\ndirection: left\n---\n# Title\n")

	doc, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, "Roadmap", doc.Fields["title"])
	require.Equal(t, "left", doc.Fields["direction"])
	require.Equal(t, []byte("# Title\n"), doc.Body)
}

func TestParse_CRLF(t *testing.T) {
	input := []byte("---\r\ntitle: x\r\n---\r\n# Title\r\n")

	doc, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, "x", doc.Fields["title"])
	require.Equal(t, []byte("# Title\r\n"), doc.Body)
}

func TestParse_EmptyBlock(t *testing.T) {
	doc, err := Parse([]byte("---\n---\n"))
	require.NoError(t, err)
	require.Empty(t, doc.Fields)
	require.Empty(t, doc.Body)
}

func TestParse_FrontmatterOnlyWithoutTrailingNewline(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: Only\n---"))
	require.NoError(t, err)
	require.Equal(t, "Only", doc.Fields["title"])
	require.Empty(t, doc.Body)
}

func TestParse_MissingClosingDelimiter(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: x\n# Title\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	require.Error(t, err)
}

func TestParse_KeepsScalarTypes(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: 2024\ndraft: true\n---\n"))
	require.NoError(t, err)
	require.Equal(t, 2024, doc.Fields["title"])
	require.Equal(t, true, doc.Fields["draft"])
}
