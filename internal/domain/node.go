// Package domain holds the types shared by the extractor, classifier, lint
// engine and message protocol: the design-tree Node, the extracted FieldSet,
// the component Kind taxonomy and LintItem diagnostics.
package domain

import (
	"sort"
	"strings"
)

// NodeType is the host's layer type.
type NodeType string

// Text-bearing and container node types.
const (
	NodeText         NodeType = "TEXT"
	NodeFrame        NodeType = "FRAME"
	NodeGroup        NodeType = "GROUP"
	NodeComponent    NodeType = "COMPONENT"
	NodeInstance     NodeType = "INSTANCE"
	NodeSection      NodeType = "SECTION"
	NodeComponentSet NodeType = "COMPONENT_SET"
	NodePage         NodeType = "PAGE"
	NodeRectangle    NodeType = "RECTANGLE"
	NodeVector       NodeType = "VECTOR"
)

// Node is one layer of the selected design subtree as serialized by the
// plugin. It is a tagged variant: TEXT nodes carry Characters and font,
// container nodes carry Children. Coordinates are absolute.
type Node struct {
	ID            string   `json:"id"`
	Type          NodeType `json:"type"`
	Name          string   `json:"name"`
	Visible       *bool    `json:"visible,omitempty"`
	Characters    string   `json:"characters,omitempty"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Width         float64  `json:"width,omitempty"`
	Height        float64  `json:"height,omitempty"`
	Fill          string   `json:"fill,omitempty"`
	FillStyleName string   `json:"fillStyleName,omitempty"`
	FontFamily    string   `json:"fontFamily,omitempty"`
	FontStyle     string   `json:"fontStyle,omitempty"`
	Children      []*Node  `json:"children,omitempty"`
}

// IsText reports whether n is a text-bearing node.
func (n *Node) IsText() bool {
	return n != nil && n.Type == NodeText
}

// IsContainer reports whether n can hold children.
func (n *Node) IsContainer() bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case NodeFrame, NodeGroup, NodeComponent, NodeInstance, NodeSection, NodeComponentSet, NodePage:
		return true
	}
	return false
}

// IsVisible reports whether n is shown. A missing flag means visible.
func (n *Node) IsVisible() bool {
	return n != nil && (n.Visible == nil || *n.Visible)
}

// FontKey identifies the font a text node needs loaded before editing.
func (n *Node) FontKey() string {
	if n == nil || n.FontFamily == "" {
		return ""
	}
	return n.FontFamily + "__" + n.FontStyle
}

// LowerName returns the trimmed, lower-cased layer name.
func (n *Node) LowerName() string {
	if n == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(n.Name))
}

// VisitFunc is called for each node with its parent (nil for the root).
// Returning false skips the node's children.
type VisitFunc func(n, parent *Node) bool

// Walk visits root and its descendants depth-first in child order.
// Hidden nodes and their subtrees are skipped.
func Walk(root *Node, fn VisitFunc) {
	type frame struct{ n, parent *Node }
	if root == nil {
		return
	}
	stack := []frame{{n: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.n == nil || !top.n.IsVisible() {
			continue
		}
		if !fn(top.n, top.parent) {
			continue
		}
		for i := len(top.n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n: top.n.Children[i], parent: top.n})
		}
	}
}

// Collect returns the visible nodes under root (inclusive) matching pred, in
// pre-order.
func Collect(root *Node, pred func(*Node) bool) []*Node {
	var out []*Node
	Walk(root, func(n, _ *Node) bool {
		if pred == nil || pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FirstText returns the first visible text descendant of root, root included.
func FirstText(root *Node) *Node {
	var found *Node
	Walk(root, func(n, _ *Node) bool {
		if found != nil {
			return false
		}
		if n.IsText() {
			found = n
			return false
		}
		return true
	})
	return found
}

// SortByY orders nodes top to bottom, then left to right. Ties keep their
// input order.
func SortByY(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Y != nodes[j].Y {
			return nodes[i].Y < nodes[j].Y
		}
		return nodes[i].X < nodes[j].X
	})
}

// SortByX orders nodes left to right. Ties keep their input order.
func SortByX(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].X < nodes[j].X
	})
}

// FindByID returns the node with the given id under root, hidden nodes included.
func FindByID(root *Node, id string) *Node {
	if root == nil || id == "" {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, c := range root.Children {
		if n := FindByID(c, id); n != nil {
			return n
		}
	}
	return nil
}
