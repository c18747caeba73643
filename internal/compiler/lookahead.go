package compiler

import "github.com/gnolang/pathpat/internal/ast"

// The lookahead pass folds the tail of a WithLookAhead into the expression
// that must not follow its head. Each step receives what was accumulated so
// far in state.lookahead and returns the extended expression.
var lookaheads = ast.NewTranslator[state, string]("lookahead").
	On(aheadChar, ast.KindChar).
	On(aheadGroup, ast.KindGroup, ast.KindSequence).
	On(aheadOptional, ast.KindOptional).
	On(aheadCapture, ast.KindCapture)

func lookaheadFor(tail []*ast.Node, st state) (string, error) {
	st.lookahead, st.hasLookahead = "", true
	return lookaheads.Translate(&ast.Node{Kind: ast.KindSequence, Children: tail, Pos: -1}, st)
}

func aheadChar(t *translation, n *ast.Node) (string, error) {
	return t.State.lookahead + encoded(n.Value, t.State), nil
}

func aheadGroup(t *translation, n *ast.Node) (string, error) {
	ahead := t.State.lookahead
	for _, c := range n.Children {
		st := t.State
		st.lookahead = ahead
		next, err := t.With(st).Translate(c)
		if err != nil {
			return "", err
		}
		ahead = next
	}
	return ahead, nil
}

func aheadOptional(t *translation, n *ast.Node) (string, error) {
	return t.Translate(n.Child())
}

// aheadCapture appends the capture's lazy pattern, itself bounded by what was
// accumulated before it.
func aheadCapture(t *translation, n *ast.Node) (string, error) {
	st := t.State
	st.greedy = false
	p, err := pattern(n, st)
	if err != nil {
		return "", err
	}
	return st.lookahead + p, nil
}
