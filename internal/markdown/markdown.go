// Package markdown extracts page-level facts (title, emptiness) from Markdown
// bodies using the goldmark parser.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	md := goldmark.New()
	return md.Parser().Parse(text.NewReader(body))
}

// Title returns the plain text of the first level-1 heading, or "" if the body has none.
func Title(body []byte) string {
	root := ParseBody(body)

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok || h.Level != 1 {
			return gmast.WalkContinue, nil
		}
		var buf bytes.Buffer
		inlineText(h, body, &buf)
		title = strings.TrimSpace(buf.String())
		return gmast.WalkStop, nil
	})
	return title
}

func inlineText(n gmast.Node, src []byte, buf *bytes.Buffer) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *gmast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(node.Value)
		default:
			inlineText(c, src, buf)
		}
	}
}
