package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/errs"
	"github.com/gnolang/pathpat/internal/parser"
)

// Flask is the Werkzeug routing syntax: `<name>` and `<converter(args):name>`.
var Flask = register(newFlask())

func newFlask() *parser.Grammar {
	g := parser.NewGrammar("flask")
	g.On(unexpected, parser.EOS, ">", ":")
	g.On(flaskPlaceholder, "<")
	return g
}

// converter describes the node a Werkzeug converter turns into.
type converter struct {
	kind       ast.Kind
	constraint string
	qualifier  *string
	convert    ast.Converter
}

type converterArgs struct {
	list []string
	kw   map[string]string
}

// get returns the argument given by keyword or at position i.
func (a converterArgs) get(name string, i int) (string, bool) {
	if v, ok := a.kw[name]; ok {
		return v, true
	}
	if i < len(a.list) {
		return a.list[i], true
	}
	return "", false
}

func (a converterArgs) int(name string, i int) (int, bool, error) {
	s, ok := a.get(name, i)
	if !ok || s == "None" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q", name, s)
	}
	return n, true, nil
}

func (a converterArgs) float(name string, i int) (float64, bool, error) {
	s, ok := a.get(name, i)
	if !ok || s == "None" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q", name, s)
	}
	return f, true, nil
}

var converters = map[string]func(converterArgs) (converter, error){
	"default": stringConverter,
	"string":  stringConverter,
	"int":     intConverter,
	"float":   floatConverter,
	"path": func(converterArgs) (converter, error) {
		return converter{kind: ast.KindNamedSplat}, nil
	},
	"any": anyConverter,
}

// stringConverter matches a single segment, string(minlength=1, maxlength=None, length=None).
func stringConverter(a converterArgs) (converter, error) {
	c := converter{kind: ast.KindCapture, constraint: `[^/]`}
	minLen, hasMin, err := a.int("minlength", 0)
	if err != nil {
		return c, err
	}
	maxLen, hasMax, err := a.int("maxlength", 1)
	if err != nil {
		return c, err
	}
	length, hasLength, err := a.int("length", 2)
	if err != nil {
		return c, err
	}
	switch {
	case hasLength:
		c.qualifier = ast.Qualify("{" + strconv.Itoa(length) + "}")
	case hasMin || hasMax:
		if !hasMin {
			minLen = 1
		}
		q := "{" + strconv.Itoa(minLen) + ","
		if hasMax {
			q += strconv.Itoa(maxLen)
		}
		c.qualifier = ast.Qualify(q + "}")
	}
	return c, nil
}

// intConverter matches digits, int(fixed_digits=0, min=None, max=None).
// Values outside min and max are clamped.
func intConverter(a converterArgs) (converter, error) {
	c := converter{kind: ast.KindCapture, constraint: `\d`}
	digits, hasDigits, err := a.int("fixed_digits", 0)
	if err != nil {
		return c, err
	}
	lo, hasLo, err := a.int("min", 1)
	if err != nil {
		return c, err
	}
	hi, hasHi, err := a.int("max", 2)
	if err != nil {
		return c, err
	}
	if hasDigits && digits > 0 {
		c.qualifier = ast.Qualify("{" + strconv.Itoa(digits) + "}")
	}
	c.convert = func(value string) any {
		n, err := strconv.Atoi(value)
		if err != nil {
			return value
		}
		if hasLo && n < lo {
			n = lo
		}
		if hasHi && n > hi {
			n = hi
		}
		return n
	}
	return c, nil
}

// floatConverter matches a decimal number, float(min=None, max=None).
func floatConverter(a converterArgs) (converter, error) {
	c := converter{kind: ast.KindCapture, constraint: `\d*\.?\d+`, qualifier: ast.Qualify("")}
	lo, hasLo, err := a.float("min", 0)
	if err != nil {
		return c, err
	}
	hi, hasHi, err := a.float("max", 1)
	if err != nil {
		return c, err
	}
	c.convert = func(value string) any {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value
		}
		if hasLo && f < lo {
			f = lo
		}
		if hasHi && f > hi {
			f = hi
		}
		return f
	}
	return c, nil
}

// anyConverter matches one of its arguments. A single argument is split on commas.
func anyConverter(a converterArgs) (converter, error) {
	items := a.list
	if len(items) == 1 {
		items = strings.Split(items[0], ",")
	}
	if len(items) == 0 {
		return converter{}, fmt.Errorf("any needs at least one item")
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = regexp2.Escape(strings.TrimSpace(s))
	}
	return converter{
		kind:       ast.KindCapture,
		constraint: strings.Join(quoted, "|"),
		qualifier:  ast.Qualify(""),
	}, nil
}

func flaskPlaceholder(p *parser.Parser, _ string) (*ast.Node, error) {
	start := p.Mark()
	convName, err := p.Expect(reName)
	if err != nil {
		return nil, err
	}
	args := converterArgs{kw: map[string]string{}}
	if p.ScanString("(") {
		args.list, args.kw, err = p.ReadArgs(")")
		if err != nil {
			return nil, err
		}
	}
	var name string
	if p.ScanString(":") {
		if name, err = p.ReadBrackets("<", ">"); err != nil {
			return nil, err
		}
	} else {
		convName, name = "default", convName
		if err := p.ExpectString(">"); err != nil {
			return nil, err
		}
	}
	build, ok := converters[convName]
	if !ok {
		return nil, errs.Unexpected(p.Source(), start, "converter "+strconv.Quote(convName))
	}
	c, err := build(args)
	if err != nil {
		return nil, &errs.ParseError{Pattern: p.Source(), Pos: start, Msg: convName + ": " + err.Error()}
	}
	return &ast.Node{
		Kind:       c.kind,
		Value:      name,
		Constraint: c.constraint,
		Qualifier:  c.qualifier,
		Convert:    c.convert,
		Pos:        start,
	}, nil
}
