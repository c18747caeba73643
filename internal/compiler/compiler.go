// Package compiler turns a transformed pattern tree into a regular expression
// for github.com/dlclark/regexp2.
package compiler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/errs"
	"github.com/gnolang/pathpat/internal/escape"
)

const (
	defaultClass  = `[^/\?#]`
	splatPattern  = `.*?`
	variableClass = `[\w\-\.~%]`
	reservedClass = `[\w\-\.~%\:/\?#\[\]@\!\$\&\'\(\)\*\+,;=]`
)

var reGroupName = regexp.MustCompile(`^\w+$`)

// Options controls how a tree is compiled.
type Options struct {
	Capture          Constraint
	Except           *ast.Node // transformed tree of paths to reject, or nil
	Greedy           bool
	SpaceMatchesPlus bool
	URIDecode        bool
}

// SplitParam describes an exploded template variable whose matched value
// holds several values joined by Separator.
type SplitParam struct {
	Separator  string
	Parametric bool // each value is written as name=value
}

// Result is a compiled pattern.
type Result struct {
	Expr string
	// Groups maps each capture name to the group holding its value in Expr.
	Groups map[string]string
	// SplitParams lists exploded variables by name.
	SplitParams map[string]SplitParam
}

type state struct {
	opts          *Options
	result        *Result
	lookahead     string
	hasLookahead  bool
	greedy        bool
	noCaptures    bool
	allowReserved bool
	parametric    bool
	separator     string
}

type translation = ast.Translation[state, string]

var compiler = ast.NewTranslator[state, string]("compile").
	On(concat, ast.KindSequence, ast.KindGroup).
	On(root, ast.KindRoot).
	On(separator, ast.KindSeparator).
	On(char, ast.KindChar).
	On(union, ast.KindUnion).
	On(optional, ast.KindOptional).
	On(capture, ast.KindCapture).
	On(variable, ast.KindVariable).
	On(expression, ast.KindExpression).
	On(withLookAhead, ast.KindWithLookAhead)

// Compile turns root into a regular expression anchored at both ends.
func Compile(root *ast.Node, opts Options) (*Result, error) {
	res := &Result{Groups: make(map[string]string), SplitParams: make(map[string]SplitParam)}
	st := state{opts: &opts, result: res, greedy: opts.Greedy}
	expr, err := compiler.Translate(root, st)
	if err != nil {
		return nil, errs.WithPattern(err, root.Source)
	}
	res.Expr = expr
	return res, nil
}

// CapturePattern returns the expression a capture-like node matches on its
// own, without group or lookahead. For template variables, allowReserved and
// separator come from the operator of the enclosing expression.
func CapturePattern(n *ast.Node, allowReserved bool, separator string) (string, error) {
	st := state{
		opts:          &Options{Greedy: true, URIDecode: true, SpaceMatchesPlus: true},
		result:        &Result{Groups: map[string]string{}, SplitParams: map[string]SplitParam{}},
		greedy:        true,
		allowReserved: allowReserved,
		separator:     separator,
	}
	return pattern(n, st)
}

func root(t *translation, n *ast.Node) (string, error) {
	body, err := t.TranslateSeq(n.Children)
	if err != nil {
		return "", err
	}
	var except string
	if ex := t.State.opts.Except; ex != nil {
		st := t.State
		st.noCaptures = true
		e, err := t.With(st).TranslateSeq(ex.Children)
		if err != nil {
			return "", err
		}
		except = `(?!` + e + `\z)`
	}
	return `\A` + except + body + `\z`, nil
}

func concat(t *translation, n *ast.Node) (string, error) {
	parts, err := t.TranslateEach(n.Children)
	if err != nil {
		return "", err
	}
	return strings.Join(parts, ""), nil
}

func separator(_ *translation, n *ast.Node) (string, error) {
	return regexp2.Escape(n.Value), nil
}

func char(t *translation, n *ast.Node) (string, error) {
	return encoded(n.Value, t.State), nil
}

func union(t *translation, n *ast.Node) (string, error) {
	parts, err := t.TranslateEach(n.Children)
	if err != nil {
		return "", err
	}
	return `(?:` + strings.Join(parts, "|") + `)`, nil
}

func optional(t *translation, n *ast.Node) (string, error) {
	s, err := t.Translate(n.Child())
	if err != nil {
		return "", err
	}
	return `(?:` + s + `)?`, nil
}

func capture(t *translation, n *ast.Node) (string, error) {
	p, err := pattern(n, t.State)
	if err != nil {
		return "", err
	}
	return named(n, p, t.State)
}

// variable compiles a template variable. Parametric variables that are not
// exploded match name=value and capture only the value.
func variable(t *translation, n *ast.Node) (string, error) {
	if n.Explode || !t.State.parametric {
		return capture(t, n)
	}
	st := t.State
	st.parametric = false
	p, err := pattern(n, st)
	if err != nil {
		return "", err
	}
	g, err := named(n, p, st)
	if err != nil {
		return "", err
	}
	return regexp2.Escape(n.Name()) + `(?:=` + g + `)?`, nil
}

func expression(t *translation, n *ast.Node) (string, error) {
	op, ok := ast.LookupOperator(n.Operator)
	if !ok {
		return "", errs.Compilef("%s operator not supported", n.Operator)
	}
	st := t.State
	st.allowReserved = op.AllowReserved
	st.greedy = st.greedy && !op.AllowReserved
	st.parametric = op.Parametric
	st.separator = op.Separator
	return concat(t.With(st), n)
}

func withLookAhead(t *translation, n *ast.Node) (string, error) {
	la, err := lookaheadFor(n.Children, t.State)
	if err != nil {
		return "", err
	}
	if n.AtEnd {
		la += `\z`
	} else {
		la += regexp2.Escape(n.Boundary)
	}
	st := t.State
	st.lookahead, st.hasLookahead = la, true
	head, err := t.With(st).Translate(n.Head)
	if err != nil {
		return "", err
	}
	tail, err := t.TranslateSeq(n.Children)
	if err != nil {
		return "", err
	}
	return head + tail, nil
}

// named wraps p in the group reporting n's value.
func named(n *ast.Node, p string, st state) (string, error) {
	if st.noCaptures {
		return p, nil
	}
	name := n.Name()
	group, ok := st.result.Groups[name]
	if !ok {
		group = name
		if !reGroupName.MatchString(name) {
			group = "__g" + strconv.Itoa(len(st.result.Groups))
		}
		st.result.Groups[name] = group
	}
	return `(?<` + group + `>` + p + `)`, nil
}

// pattern is the expression matched by a capture-like node.
func pattern(n *ast.Node, st state) (string, error) {
	if n.IsA(ast.KindSplat) {
		if n.Constraint != "" {
			return `(?:` + n.Constraint + `)`, nil
		}
		return splatPattern, nil
	}
	p, err := constrained(n, st.opts.Capture, st)
	if err != nil || n.Kind != ast.KindVariable {
		return p, err
	}
	if n.Explode {
		st.result.SplitParams[n.Name()] = SplitParam{Separator: st.separator, Parametric: st.parametric}
	}
	if st.parametric {
		p = regexp2.Escape(n.Name()) + `(?:=` + p + `)?`
	}
	if n.Explode {
		p = p + `(?:` + regexp2.Escape(st.separator) + p + `)*`
	}
	return p, nil
}

func constrained(n *ast.Node, c Constraint, st state) (string, error) {
	switch c.kind {
	case constraintLiteral:
		var sb strings.Builder
		for _, r := range c.value {
			sb.WriteString(encoded(string(r), st))
		}
		return sb.String(), nil
	case constraintClass:
		class, ok := classes[c.value]
		if !ok {
			return "", errs.Compilef("unknown character class %q", c.value)
		}
		return qualified(n, withLookahead(class, st), st), nil
	case constraintList:
		parts := make([]string, len(c.list))
		for i, e := range c.list {
			p, err := constrained(n, e, st)
			if err != nil {
				return "", err
			}
			parts[i] = p
		}
		return `(?:` + strings.Join(parts, "|") + `)`, nil
	case constraintByName:
		return constrained(n, c.names[n.Name()], st)
	case constraintRegexp:
		return `(?:` + c.value + `)`, nil
	}
	return qualified(n, withLookahead(defaultPattern(n, st), st), st), nil
}

func defaultPattern(n *ast.Node, st state) string {
	switch {
	case n.Kind == ast.KindVariable && st.allowReserved:
		return reservedClass
	case n.Kind == ast.KindVariable:
		return variableClass
	case n.Constraint != "":
		return `(?:` + n.Constraint + `)`
	}
	return defaultClass
}

// withLookahead guards s against st.lookahead. An empty lookahead is still a
// guard: (?!) never matches, so whatever it bounds is left unbounded.
func withLookahead(s string, st state) string {
	if !st.hasLookahead {
		return s
	}
	return `(?:(?!` + st.lookahead + `)` + s + `)`
}

func qualified(n *ast.Node, s string, st state) string {
	switch {
	case n.Kind == ast.KindVariable && n.Prefix > 0:
		return s + `{1,` + strconv.Itoa(n.Prefix) + `}`
	case n.Qualifier != nil:
		return s + *n.Qualifier
	case st.greedy:
		return s + `+`
	}
	return s + `+?`
}

// encoded matches char and, when URI decoding is on, its percent-encoded forms.
func encoded(char string, st state) string {
	if !st.opts.URIDecode {
		return regexp2.Escape(char)
	}
	forms := []string{char, escape.Unsafe(char)}
	pct := escape.Percent(char)
	forms = append(forms, strings.ToLower(pct), pct)

	seen := make(map[string]bool, len(forms))
	list := make([]string, 0, len(forms)+1)
	for _, f := range forms {
		if seen[f] {
			continue
		}
		seen[f] = true
		list = append(list, regexp2.Escape(f))
	}
	if char == " " && st.opts.SpaceMatchesPlus {
		list = append(list, encoded("+", st))
	}
	return `(?:` + strings.Join(list, "|") + `)`
}
