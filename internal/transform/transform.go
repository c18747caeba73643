// Package transform rewrites a parsed tree into the shape the compilers expect.
//
// It expands template expressions into variables and separators, collapses
// redundant groups and wraps runs of adjacent captures in WithLookAhead nodes
// so each capture stops before the text the rest of the run needs. The input
// tree is never modified.
package transform

import (
	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/errs"
)

type translation = ast.Translation[struct{}, *ast.Node]

var transformer = ast.NewTranslator[struct{}, *ast.Node]("transform").
	On(leaf, ast.KindNode).
	On(root, ast.KindRoot).
	On(group, ast.KindGroup).
	On(union, ast.KindUnion).
	On(optional, ast.KindOptional).
	On(expression, ast.KindExpression).
	On(sequence, ast.KindSequence)

// Transform returns the rewritten copy of root.
func Transform(root *ast.Node) (*ast.Node, error) {
	out, err := transformer.Translate(root, struct{}{})
	if err != nil {
		return nil, errs.WithPattern(err, root.Source)
	}
	return out, nil
}

func leaf(_ *translation, n *ast.Node) (*ast.Node, error) {
	return n, nil
}

func root(t *translation, n *ast.Node) (*ast.Node, error) {
	seq, err := t.TranslateSeq(n.Children)
	if err != nil {
		return nil, err
	}
	out := n.Clone()
	out.Children = seq.Children
	return out, nil
}

func group(t *translation, n *ast.Node) (*ast.Node, error) {
	seq, err := t.TranslateSeq(n.Children)
	if err != nil {
		return nil, err
	}
	if len(seq.Children) == 1 {
		return seq.Children[0], nil
	}
	out := n.Clone()
	out.Children = seq.Children
	return out, nil
}

func union(t *translation, n *ast.Node) (*ast.Node, error) {
	alternatives, err := t.TranslateEach(n.Children)
	if err != nil {
		return nil, err
	}
	out := n.Clone()
	out.Children = alternatives
	return out, nil
}

func optional(t *translation, n *ast.Node) (*ast.Node, error) {
	child, err := t.Translate(n.Child())
	if err != nil {
		return nil, err
	}
	return ast.NewOptional(child), nil
}

func expression(t *translation, n *ast.Node) (*ast.Node, error) {
	op, ok := ast.LookupOperator(n.Operator)
	if !ok {
		return nil, errs.Compilef("%s operator not supported", n.Operator)
	}
	children := make([]*ast.Node, 0, 2*len(n.Children)+1)
	if op.Prefix != "" {
		children = append(children, ast.NewSeparator(op.Prefix, -1))
	}
	for i, v := range n.Children {
		if i > 0 {
			children = append(children, ast.NewSeparator(op.Separator, -1))
		}
		tv, err := t.Translate(v)
		if err != nil {
			return nil, err
		}
		children = append(children, tv)
	}
	out := n.Clone()
	out.Children = children
	return out, nil
}

// sequence translates siblings and groups the runs that need a shared
// lookahead. A run starts at an element that expects a lookahead, grows
// while elements can contribute to one, and ends at the first element that
// cannot. Runs of a single element are left alone.
func sequence(t *translation, n *ast.Node) (*ast.Node, error) {
	var payload, buffer []*ast.Node
	for _, c := range n.Children {
		e, err := t.Translate(c)
		if err != nil {
			return nil, err
		}
		switch {
		case len(buffer) == 0:
			if expectLookahead(e) {
				buffer = append(buffer, e)
			} else {
				payload = append(payload, e)
			}
		case lookahead(e, false):
			buffer = append(buffer, e)
		default:
			run := buffer
			if e.Kind == ast.KindSeparator && len(run) > 1 {
				run = []*ast.Node{ast.NewWithLookAhead(run, false, e.Value)}
			}
			buffer = nil
			payload = append(payload, run...)
			payload = append(payload, e)
		}
	}
	if len(buffer) > 1 {
		buffer = []*ast.Node{ast.NewWithLookAhead(buffer, true, "")}
	}
	payload = append(payload, buffer...)
	return &ast.Node{Kind: ast.KindSequence, Children: payload, Pos: n.Pos}, nil
}

// lookahead reports whether e can extend a run. Characters only do so
// inside an optional part.
func lookahead(e *ast.Node, inLookahead bool) bool {
	switch {
	case e.Kind == ast.KindChar:
		return inLookahead
	case e.IsA(ast.KindGroup):
		return lookaheadPayload(e.Children, inLookahead)
	case e.Kind == ast.KindOptional:
		return lookahead(e.Child(), true) || expectLookahead(e.Child())
	}
	return false
}

func lookaheadPayload(payload []*ast.Node, inLookahead bool) bool {
	if len(payload) == 0 {
		return false
	}
	for _, e := range payload[:len(payload)-1] {
		if !lookahead(e, inLookahead) {
			return false
		}
	}
	last := payload[len(payload)-1]
	return expectLookahead(last) || lookahead(last, inLookahead)
}

// expectLookahead reports whether e is a plain capture, or a group made of
// plain captures only, whose match must be bounded by what follows.
func expectLookahead(e *ast.Node) bool {
	if !e.IsA(ast.KindGroup) {
		return e.Kind == ast.KindCapture
	}
	for _, c := range e.Children {
		if !expectLookahead(c) {
			return false
		}
	}
	return true
}
