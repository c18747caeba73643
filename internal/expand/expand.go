// Package expand builds the table that turns a set of named values back into
// a string matching the pattern they came from.
package expand

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/compiler"
	"github.com/gnolang/pathpat/internal/errs"
	"github.com/gnolang/pathpat/internal/escape"
)

var reWordOnly = regexp.MustCompile(`^\w*$`)

// part is a piece of an expansion: literal text, or the value of key.
type part struct {
	literal string
	key     string
}

// record is one way of expanding a subtree: the keys it needs, the parts it
// writes and the filter deciding which characters of each value to escape.
type record struct {
	keys    []string
	parts   []part
	filters map[string]*regexp2.Regexp
}

// emptyRecord is the expansion that writes nothing.
func emptyRecord() []record { return []record{{}} }

// addTo is the product of two record lists: every way of expanding a
// followed by every way of expanding b.
func addTo(a, b []record) []record {
	if len(a) == 0 {
		a = emptyRecord()
	}
	out := make([]record, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			r := record{
				keys:    append(append([]string{}, x.keys...), y.keys...),
				parts:   append(append([]part{}, x.parts...), y.parts...),
				filters: make(map[string]*regexp2.Regexp, len(x.filters)+len(y.filters)),
			}
			for k, f := range x.filters {
				r.filters[k] = f
			}
			for k, f := range y.filters {
				r.filters[k] = f
			}
			out = append(out, r)
		}
	}
	return out
}

type state struct {
	allowReserved bool
	parametric    bool
	separator     string
}

type translation = ast.Translation[state, []record]

var expander = ast.NewTranslator[state, []record]("expand").
	On(sequence, ast.KindSequence).
	On(payload, ast.KindRoot, ast.KindGroup).
	On(expression, ast.KindExpression).
	On(char, ast.KindChar).
	On(separator, ast.KindSeparator).
	On(capture, ast.KindCapture).
	On(splat, ast.KindSplat).
	On(optional, ast.KindOptional).
	On(union, ast.KindUnion).
	On(withLookAhead, ast.KindWithLookAhead)

func sequence(t *translation, n *ast.Node) ([]record, error) {
	acc := emptyRecord()
	for _, c := range n.Children {
		rs, err := t.Translate(c)
		if err != nil {
			return nil, err
		}
		acc = addTo(acc, rs)
	}
	return acc, nil
}

func payload(t *translation, n *ast.Node) ([]record, error) {
	return t.TranslateSeq(n.Children)
}

func expression(t *translation, n *ast.Node) ([]record, error) {
	op, ok := ast.LookupOperator(n.Operator)
	if !ok {
		return nil, errs.Compilef("%s operator not supported", n.Operator)
	}
	return t.With(state{
		allowReserved: op.AllowReserved,
		parametric:    op.Parametric,
		separator:     op.Separator,
	}).TranslateSeq(n.Children)
}

func char(_ *translation, n *ast.Node) ([]record, error) {
	lit := escape.Escape(n.Value, func(int) bool { return strings.ContainsAny(n.Value, `/?#&=%`) })
	return []record{{parts: []part{{literal: lit}}}}, nil
}

func separator(_ *translation, n *ast.Node) ([]record, error) {
	return []record{{parts: []part{{literal: n.Value}}}}, nil
}

func capture(t *translation, n *ast.Node) ([]record, error) {
	p, err := compiler.CapturePattern(n, t.State.allowReserved, t.State.separator)
	if err != nil {
		return nil, err
	}
	filter, err := regexp2.Compile(`\A(?:`+p+`)`, regexp2.None)
	if err != nil {
		return nil, errs.Compilef("invalid pattern for %s: %v", n.Name(), err)
	}
	var parts []part
	if n.Kind == ast.KindVariable && t.State.parametric {
		parts = append(parts, part{literal: n.Name() + "="})
	}
	parts = append(parts, part{key: n.Name()})
	return []record{{
		keys:    []string{n.Name()},
		parts:   parts,
		filters: map[string]*regexp2.Regexp{n.Name(): filter},
	}}, nil
}

// splat may also be left out entirely.
func splat(t *translation, n *ast.Node) ([]record, error) {
	rs, err := capture(t, n)
	if err != nil {
		return nil, err
	}
	return append(emptyRecord(), rs...), nil
}

func optional(t *translation, n *ast.Node) ([]record, error) {
	rs, err := t.Translate(n.Child())
	if err != nil {
		return nil, err
	}
	for _, r := range rs {
		if len(r.keys) == 0 {
			return rs, nil
		}
	}
	return append(rs, emptyRecord()...), nil
}

func union(t *translation, n *ast.Node) ([]record, error) {
	var out []record
	for _, alt := range n.Children {
		rs, err := t.Translate(alt)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}

func withLookAhead(t *translation, n *ast.Node) ([]record, error) {
	head, err := t.Translate(n.Head)
	if err != nil {
		return nil, err
	}
	tail, err := t.TranslateSeq(n.Children)
	if err != nil {
		return nil, err
	}
	return addTo(head, tail), nil
}

// Table maps each expandable set of keys to the way of expanding it.
type Table struct {
	source  string
	order   []string // mapping keys in insertion order
	entries map[string]record
	keys    []string
}

// Build derives the expansion table of a transformed tree.
func Build(root *ast.Node) (*Table, error) {
	rs, err := expander.Translate(root, state{})
	if err != nil {
		return nil, errs.WithPattern(err, root.Source)
	}
	t := &Table{source: root.Source, entries: make(map[string]record)}
	t.add(rs...)
	return t, nil
}

// add registers records, keeping the first one for each key set.
func (t *Table) add(rs ...record) {
	seen := make(map[string]bool, len(t.keys))
	for _, k := range t.keys {
		seen[k] = true
	}
	for _, r := range rs {
		for _, k := range r.keys {
			if !seen[k] {
				seen[k] = true
				t.keys = append(t.keys, k)
			}
		}
		id := mappingKey(r.keys)
		if _, ok := t.entries[id]; ok {
			continue
		}
		t.entries[id] = r
		t.order = append(t.order, id)
	}
}

// Keys lists every key any expansion uses, in the order first seen.
func (t *Table) Keys() []string { return append([]string(nil), t.keys...) }

// Combinations lists the expandable key sets, each sorted, in table order.
func (t *Table) Combinations() [][]string {
	out := make([][]string, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, splitKey(id))
	}
	return out
}

// Expandable reports whether exactly the given keys can be expanded.
func (t *Table) Expandable(keys []string) bool {
	_, ok := t.entries[mappingKey(keys)]
	return ok
}

// ExpandableKeys returns the largest expandable subset of keys, or keys
// itself if no subset is expandable.
func (t *Table) ExpandableKeys(keys []string) []string {
	have := make(map[string]bool, len(keys))
	for _, k := range keys {
		have[k] = true
	}
	var best []string
	found := false
	for _, id := range t.order {
		combo := splitKey(id)
		ok := true
		for _, k := range combo {
			if !have[k] {
				ok = false
				break
			}
		}
		if ok && (!found || len(combo) > len(best)) {
			best, found = combo, true
		}
	}
	if !found {
		return keys
	}
	return best
}

// Expand substitutes values into the expansion for exactly their key set.
// Characters a value's capture would not match are percent-encoded.
func (t *Table) Expand(values map[string]string) (string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	r, ok := t.entries[mappingKey(keys)]
	if !ok {
		return "", t.missError(keys)
	}
	var sb strings.Builder
	for _, p := range r.parts {
		if p.key == "" {
			sb.WriteString(p.literal)
			continue
		}
		sb.WriteString(escapeValue(values[p.key], r.filters[p.key]))
	}
	return sb.String(), nil
}

func (t *Table) missError(keys []string) error {
	given := uniqueSorted(keys)
	combos := make([]string, 0, len(t.order))
	for _, id := range t.order {
		combos = append(combos, fmt.Sprint(splitKey(id)))
	}
	return &errs.ExpandError{
		Pattern: t.source,
		Msg:     fmt.Sprintf("cannot expand with keys %v, possible expansions: %s", given, strings.Join(combos, " or ")),
	}
}

func escapeValue(value string, filter *regexp2.Regexp) string {
	if reWordOnly.MatchString(value) {
		return value
	}
	return escape.Escape(value, func(i int) bool {
		if filter == nil {
			return false
		}
		ok, err := filter.MatchString(value[i:])
		return err != nil || !ok
	})
}

func mappingKey(keys []string) string {
	return strings.Join(uniqueSorted(keys), "\x00")
}

func splitKey(id string) []string {
	if id == "" {
		return []string{}
	}
	return strings.Split(id, "\x00")
}

func uniqueSorted(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
