package ast

import (
	"fmt"

	"github.com/gnolang/pathpat/internal/errs"
)

// Handler translates one node. It recurses through t.
type Handler[S, R any] func(t *Translation[S, R], n *Node) (R, error)

// Translator is a pass over the tree that dispatches on node kind.
// S is the state threaded through one translation, R the per-node result.
//
// A handler registered for a kind also serves every kind extending it, unless
// a more specific kind has its own handler. Registering KindSequence lets a
// pass translate a plain list of siblings with TranslateSeq.
type Translator[S, R any] struct {
	name     string
	handlers map[Kind]Handler[S, R]
}

// NewTranslator creates an empty pass. The name shows up in internal errors.
func NewTranslator[S, R any](name string) *Translator[S, R] {
	return &Translator[S, R]{name: name, handlers: make(map[Kind]Handler[S, R])}
}

// On registers h for every kind given and returns the translator for chaining.
func (tr *Translator[S, R]) On(h Handler[S, R], kinds ...Kind) *Translator[S, R] {
	for _, k := range kinds {
		tr.handlers[k] = h
	}
	return tr
}

// Handles reports whether a handler would be found for kind.
func (tr *Translator[S, R]) Handles(kind Kind) bool {
	_, ok := tr.lookup(kind)
	return ok
}

func (tr *Translator[S, R]) lookup(kind Kind) (Handler[S, R], bool) {
	for _, k := range kind.Ancestry() {
		if h, ok := tr.handlers[k]; ok {
			return h, true
		}
	}
	return nil, false
}

// Translate runs the pass over n starting with state.
func (tr *Translator[S, R]) Translate(n *Node, state S) (R, error) {
	t := &Translation[S, R]{tr: tr, State: state}
	return t.Translate(n)
}

// Translation is one invocation of a Translator. Its State is shared by every
// handler called during that invocation, unless replaced with With.
type Translation[S, R any] struct {
	tr    *Translator[S, R]
	State S
}

// Translate dispatches n to the most specific handler for its kind.
func (t *Translation[S, R]) Translate(n *Node) (R, error) {
	h, ok := t.tr.lookup(n.Kind)
	if !ok {
		var zero R
		return zero, fmt.Errorf("%s: %s: %w", t.tr.name, n.Kind, errs.ErrNoHandler)
	}
	return h(t, n)
}

// TranslateSeq translates a list of siblings through the KindSequence handler.
func (t *Translation[S, R]) TranslateSeq(nodes []*Node) (R, error) {
	return t.Translate(&Node{Kind: KindSequence, Children: nodes, Pos: -1})
}

// TranslateEach translates every node on its own and collects the results.
func (t *Translation[S, R]) TranslateEach(nodes []*Node) ([]R, error) {
	out := make([]R, 0, len(nodes))
	for _, n := range nodes {
		r, err := t.Translate(n)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// With returns a translation of the same pass that carries state instead.
// The receiver is left untouched.
func (t *Translation[S, R]) With(state S) *Translation[S, R] {
	return &Translation[S, R]{tr: t.tr, State: state}
}
