package cst

import (
	"strings"

	"gocst/internal/diag"
	"gocst/internal/source"
	"gocst/internal/token"
)

// Node is one element of the lossless tree. Leaves have Kind == KindToken and
// a non-nil Token; inner nodes have Children in source order. Error nodes
// carry the diagnostic Code and Message they were reported with.
type Node struct {
	Kind     Kind
	Span     source.Span
	Token    *token.Token `msgpack:",omitempty"`
	Children []*Node      `msgpack:",omitempty"`
	Code     diag.Code    `msgpack:",omitempty"`
	Message  string       `msgpack:",omitempty"`
}

// IsLeaf reports whether n wraps a single token.
func (n *Node) IsLeaf() bool {
	return n.Kind == KindToken
}

// IsTrivia reports whether n is a whitespace or comment leaf.
func (n *Node) IsTrivia() bool {
	return n.IsLeaf() && n.Token.Kind.IsTrivia()
}

// TokenKind returns the token kind of a leaf, token.Invalid otherwise.
func (n *Node) TokenKind() token.Kind {
	if !n.IsLeaf() {
		return token.Invalid
	}
	return n.Token.Kind
}

// Child returns the first direct child of the given kind.
func (n *Node) Child(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// ChildrenOf returns every direct child of the given kind.
func (n *Node) ChildrenOf(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// ChildToken returns the first direct leaf child of the given token kind.
func (n *Node) ChildToken(kind token.Kind) *token.Token {
	for _, c := range n.Children {
		if c.IsLeaf() && c.Token.Kind == kind {
			return c.Token
		}
	}
	return nil
}

// Significant returns direct children that are not trivia.
func (n *Node) Significant() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if !c.IsTrivia() {
			out = append(out, c)
		}
	}
	return out
}

// Text reconstructs the source covered by n from its leaves.
func (n *Node) Text() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if n.IsLeaf() {
		b.WriteString(n.Token.Text)
		return
	}
	for _, c := range n.Children {
		c.writeText(b)
	}
}

// Text returns the exact source text of the tree rooted at root.
func Text(root *Node) string {
	if root == nil {
		return ""
	}
	return root.Text()
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the current node.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Find returns every node of kind in the tree, in source order.
func Find(root *Node, kind Kind) []*Node {
	var out []*Node
	Walk(root, func(n *Node, _ int) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Errors returns all error nodes of the tree in source order.
func Errors(root *Node) []*Node {
	return Find(root, KindError)
}

// Leaves returns every token leaf in source order.
func Leaves(root *Node) []*token.Token {
	var out []*token.Token
	Walk(root, func(n *Node, _ int) bool {
		if n.IsLeaf() {
			out = append(out, n.Token)
		}
		return true
	})
	return out
}

// NodeAt returns the innermost node whose span contains off.
func NodeAt(root *Node, off uint32) *Node {
	var best *Node
	Walk(root, func(n *Node, _ int) bool {
		if !n.Span.ContainsOffset(off) {
			return false
		}
		best = n
		return true
	})
	return best
}
