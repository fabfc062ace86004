// Package cst parses input with the syntactic productions of an EBNF
// grammar, producing concrete syntax trees.
package cst

import (
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/parsley/lex"
)

// Span represents a range in source code. End is the position just past
// the last character.
type Span struct {
	Start lex.Position
	End   lex.Position
}

// Node represents a node in the concrete syntax tree.
// Leaf nodes have a non-nil Token; interior nodes have Children.
type Node struct {
	Kind     string     // Production name or token kind
	Children []*Node    // Child nodes (nil for terminals)
	Token    *lex.Token // The token (non-nil for terminals)
	Span     Span       // Source span covering this node
}

// IsTerminal returns true if this is a leaf node (token).
func (n *Node) IsTerminal() bool {
	return n.Token != nil
}

// Text returns the literals of the leaves under n, joined without
// separators. Skipped tokens are not part of the tree, so whitespace
// between tokens is lost.
func (n *Node) Text() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	var b strings.Builder
	n.Walk(func(leaf *Node) {
		if leaf.Token != nil {
			b.WriteString(leaf.Token.Literal)
		}
	})
	return b.String()
}

// Walk calls fn for n and every node below it, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the first node of the given kind, searching depth-first.
func (n *Node) Find(kind string) *Node {
	if n.Kind == kind {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(kind); found != nil {
			return found
		}
	}
	return nil
}

// AddChild appends a child node and updates the span.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
	if len(n.Children) == 1 {
		n.Span.Start = child.Span.Start
	}
	n.Span.End = child.Span.End
}

// NewTerminal creates a terminal node from a token. The node is named
// after the token's kind.
func NewTerminal(tok lex.Token) *Node {
	return &Node{
		Kind:  tok.Kind.Name(),
		Token: &tok,
		Span:  Span{Start: tok.Position, End: endOf(tok)},
	}
}

// NewNonTerminal creates an empty non-terminal node at pos.
func NewNonTerminal(kind string, pos lex.Position) *Node {
	return &Node{
		Kind:     kind,
		Children: make([]*Node, 0),
		Span:     Span{Start: pos, End: pos},
	}
}

func endOf(tok lex.Token) lex.Position {
	end := tok.Position
	lit := tok.Literal
	if i := strings.LastIndexByte(lit, '\n'); i >= 0 {
		end.Line += strings.Count(lit, "\n")
		end.Column = 1
		lit = lit[i+1:]
	}
	end.Column += utf8.RuneCountInString(lit)
	return end
}
