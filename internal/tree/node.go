// Package tree builds the per-locale navigation tree from a flat list of page
// descriptors. The JSON form of Node is the sidebar group schema expected by
// the theme.
package tree

import (
	"fmt"
	"io"
	"strings"
)

// Direction marks one of the two root branches of the mind-map export.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection accepts "left" and "right" (case-insensitive, trimmed).
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionLeft:
		return DirectionLeft, true
	case DirectionRight:
		return DirectionRight, true
	default:
		return "", false
	}
}

// Node is one entry of the navigation tree.
type Node struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Children    []*Node   `json:"children"`
	Collapsable bool      `json:"collapsable"`
	Path        string    `json:"path,omitempty"`
	Direction   Direction `json:"direction,omitempty"`
	Style       string    `json:"style,omitempty"`
	Color       string    `json:"color,omitempty"`

	// filePage is the path of the file page ("/b.html") the node was built
	// from; empty for directory pages and grouping nodes.
	filePage string
}

func newNode(key, title string) *Node {
	return &Node{Key: key, Title: title, Children: []*Node{}}
}

// Clickable reports whether the node links to a page.
func (n *Node) Clickable() bool {
	return n.Path != ""
}

// Child returns the first direct child with the given key, or nil.
func (n *Node) Child(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// ChildByDirection returns the first direct child tagged with d, or nil.
func (n *Node) ChildByDirection(d Direction) *Node {
	for _, c := range n.Children {
		if c.Direction == d {
			return c
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first in pre-order. depth is 0 for n.
func (n *Node) Walk(fn func(node *Node, depth int) error) error {
	return n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) error, depth int) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes below n (n excluded).
func (n *Node) Count() int {
	total := 0
	_ = n.Walk(func(*Node, int) error {
		total++
		return nil
	})
	return total - 1
}

// Fprint writes an indented outline of the tree, one node per line.
func Fprint(w io.Writer, root *Node) error {
	return root.Walk(func(n *Node, depth int) error {
		label := n.Title
		if label == "" {
			label = "(untitled)"
		}
		line := strings.Repeat("  ", depth) + label
		if n.Key != "" {
			line += " [" + n.Key + "]"
		}
		if n.Path != "" {
			line += " -> " + n.Path
		}
		if n.Direction != "" {
			line += " (" + string(n.Direction) + ")"
		}
		_, err := fmt.Fprintln(w, line)
		return err
	})
}
