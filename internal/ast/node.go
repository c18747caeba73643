// Package ast holds the tree a pattern is parsed into and the dispatch
// framework every pass over that tree is written with.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Converter turns a matched (and already decoded) capture value into the
// value reported by Params.
type Converter func(value string) any

// Node is one element of a parsed pattern. Which fields are meaningful
// depends on Kind:
//
//	Root            Children, Source
//	Separator, Char Value (one character)
//	Group, Union    Children
//	Optional        Children (exactly one)
//	Capture         Value (name), Constraint, Qualifier, Convert
//	Splat           as Capture, the name is always "splat"
//	NamedSplat      as Capture
//	Variable        as Capture, plus Prefix and Explode
//	Expression      Children (variables), Operator
//	WithLookAhead   Head, Children (tail), AtEnd, Boundary
type Node struct {
	Kind     Kind
	Children []*Node
	Value    string
	Pos      int // byte offset in the source, -1 for synthesized nodes

	// Root
	Source string

	// Capture and descendants
	Constraint string  // regex replacing the default character class
	Qualifier  *string // replaces the default repetition suffix when set
	Convert    Converter

	// Variable
	Prefix  int
	Explode bool

	// Expression
	Operator string

	// WithLookAhead
	Head     *Node
	AtEnd    bool
	Boundary string // separator character ending the run when AtEnd is false
}

// Qualify returns a qualifier for Node.Qualifier. An empty q means the
// constraint is matched exactly once.
func Qualify(q string) *string { return &q }

// NewRoot creates a root node for source.
func NewRoot(source string, children []*Node) *Node {
	return &Node{Kind: KindRoot, Source: source, Children: children}
}

// NewChar creates a literal character node.
func NewChar(char string, pos int) *Node {
	return &Node{Kind: KindChar, Value: char, Pos: pos}
}

// NewSeparator creates a separator node.
func NewSeparator(char string, pos int) *Node {
	return &Node{Kind: KindSeparator, Value: char, Pos: pos}
}

// NewCapture creates a named capture.
func NewCapture(name string, pos int) *Node {
	return &Node{Kind: KindCapture, Value: name, Pos: pos}
}

// NewSplat creates an anonymous splat.
func NewSplat(pos int) *Node {
	return &Node{Kind: KindSplat, Value: "splat", Pos: pos}
}

// NewNamedSplat creates a splat with an explicit name.
func NewNamedSplat(name string, pos int) *Node {
	return &Node{Kind: KindNamedSplat, Value: name, Pos: pos}
}

// NewGroup creates a group.
func NewGroup(children []*Node, pos int) *Node {
	return &Node{Kind: KindGroup, Children: children, Pos: pos}
}

// NewUnion creates a union of alternatives.
func NewUnion(alternatives []*Node, pos int) *Node {
	return &Node{Kind: KindUnion, Children: alternatives, Pos: pos}
}

// NewOptional wraps child.
func NewOptional(child *Node) *Node {
	return &Node{Kind: KindOptional, Children: []*Node{child}, Pos: child.Pos}
}

// NewWithLookAhead wraps a run of elements. The first element becomes the head.
func NewWithLookAhead(elements []*Node, atEnd bool, boundary string) *Node {
	tail := make([]*Node, len(elements)-1)
	copy(tail, elements[1:])
	return &Node{
		Kind:     KindWithLookAhead,
		Head:     elements[0],
		Children: tail,
		AtEnd:    atEnd,
		Boundary: boundary,
		Pos:      -1,
	}
}

// Child returns the single child of an Optional.
func (n *Node) Child() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Name returns the identifier of a capture-like node.
func (n *Node) Name() string { return n.Value }

// IsA reports whether the node's kind is kind or extends it.
func (n *Node) IsA(kind Kind) bool { return n.Kind.IsA(kind) }

// Clone returns a shallow copy of n with its own children slice.
func (n *Node) Clone() *Node {
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		copy(c.Children, n.Children)
	}
	return &c
}

// Walk calls fn for n and every node below it in source order. Walking a
// subtree stops when fn returns false for its root.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if n.Head != nil {
		n.Head.Walk(fn)
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// CaptureNames lists the names of all capture-like nodes in source order,
// duplicates included.
func (n *Node) CaptureNames() []string {
	var names []string
	n.Walk(func(e *Node) bool {
		if e.IsA(KindCapture) {
			names = append(names, e.Name())
		}
		return true
	})
	return names
}

func (n *Node) String() string {
	var sb strings.Builder
	n.render(&sb, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func (n *Node) render(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind.String())
	switch {
	case n.Kind == KindRoot:
		sb.WriteString(" " + strconv.Quote(n.Source))
	case n.IsA(KindLiteral), n.IsA(KindCapture):
		sb.WriteString(" " + strconv.Quote(n.Value))
	case n.Kind == KindExpression && n.Operator != "":
		sb.WriteString(" " + strconv.Quote(n.Operator))
	case n.Kind == KindWithLookAhead:
		if n.AtEnd {
			sb.WriteString(" at_end")
		} else {
			sb.WriteString(" " + strconv.Quote(n.Boundary))
		}
	}
	if n.Constraint != "" {
		fmt.Fprintf(sb, " constraint=%q", n.Constraint)
	}
	if n.Prefix > 0 {
		fmt.Fprintf(sb, " prefix=%d", n.Prefix)
	}
	if n.Explode {
		sb.WriteString(" explode")
	}
	sb.WriteByte('\n')
	if n.Head != nil {
		n.Head.render(sb, depth+1)
	}
	for _, c := range n.Children {
		c.render(sb, depth+1)
	}
}
