// Package mindmap converts a navigation tree into the JSON document read by the
// plantuml2freemind mind-map tool: a root with explicit left and right branches,
// text/link/style/color fields on every node.
package mindmap

import (
	"encoding/json"
	"strings"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"git.home.luguber.info/inful/navtree/internal/tree"
)

// Presentation styles understood by the mind-map tool.
const (
	StyleBubble = "bubble"
	StyleFork   = "fork"
)

// Node is a branch or leaf of the exported mind map.
type Node struct {
	Text     string  `json:"text"`
	Link     *string `json:"link"`
	Style    string  `json:"style"`
	Color    *string `json:"color"`
	Children []*Node `json:"children"`
}

// Root is the top of the exported mind map. It has no children list; its two
// branches are rendered on either side of the diagram.
type Root struct {
	Text  string  `json:"text"`
	Link  *string `json:"link"`
	Style string  `json:"style"`
	Color *string `json:"color"`
	Left  *Node   `json:"left"`
	Right *Node   `json:"right"`
}

// Remap builds the mind-map document for root. Links are the page path
// prefixed with baseURL (its trailing slash removed). The first left-tagged
// and first right-tagged direct children of root become the two branches;
// other root children are not exported. The input tree is never modified.
func Remap(root *tree.Node, baseURL string) (*Root, error) {
	if root == nil {
		return nil, errors.InternalError("mind-map export of nil tree", nil)
	}

	left := root.ChildByDirection(tree.DirectionLeft)
	right := root.ChildByDirection(tree.DirectionRight)
	var missing []string
	if left == nil {
		missing = append(missing, string(tree.DirectionLeft))
	}
	if right == nil {
		missing = append(missing, string(tree.DirectionRight))
	}
	if len(missing) > 0 {
		return nil, errors.MissingDirectionalBranch(missing...)
	}

	base := strings.TrimSuffix(baseURL, "/")
	return &Root{
		Text:  root.Title,
		Link:  link(base, root.Path),
		Style: StyleBubble,
		Color: optional(root.Color),
		Left:  convert(left, base, StyleBubble),
		Right: convert(right, base, StyleBubble),
	}, nil
}

// convert maps a subtree bottom-up. style overrides the node's own style;
// when both are empty the node falls back to StyleFork.
func convert(n *tree.Node, base, style string) *Node {
	children := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, convert(c, base, ""))
	}

	if style == "" {
		style = n.Style
	}
	if style == "" {
		style = StyleFork
	}
	return &Node{
		Text:     n.Title,
		Link:     link(base, n.Path),
		Style:    style,
		Color:    optional(n.Color),
		Children: children,
	}
}

func link(base, path string) *string {
	if path == "" {
		return nil
	}
	l := base + path
	return &l
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Render encodes the document as compact JSON.
func Render(root *Root) ([]byte, error) {
	return json.Marshal(root)
}
