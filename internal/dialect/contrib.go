package dialect

import (
	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/parser"
)

var (
	// Express is the path-to-regexp syntax: `:name` with `?`, `*`, `+` and
	// `(regex)` modifiers, and bare `(regex)` splats.
	Express = register(newExpress())
	// Pyramid uses `{name}`, `{name:regex}` and a trailing `*name`.
	Pyramid = register(newPyramid())
	// Cake uses `:name`, `*` for segments and `**` for the whole rest.
	Cake = register(newCake())
	// Grape is Sinatra syntax where captures stop at dots and groups are optional.
	Grape = register(newGrape())
)

func newExpress() *parser.Grammar {
	g := parser.NewGrammar("express")
	g.On(unexpected, parser.EOS, "?", "+", "*", ")")
	g.On(capture, ":")
	g.On(func(p *parser.Parser, _ string) (*ast.Node, error) {
		start := p.Mark()
		re, err := p.ReadBrackets("(", ")")
		if err != nil {
			return nil, err
		}
		n := ast.NewSplat(start)
		n.Constraint = re
		return n, nil
	}, "(")
	g.Suffix(`\(`, ast.KindCapture, func(p *parser.Parser, _ string, el *ast.Node) (*ast.Node, error) {
		re, err := p.ReadBrackets("(", ")")
		if err != nil {
			return nil, err
		}
		el.Constraint = re
		el.Qualifier = ast.Qualify("")
		return el, nil
	})
	g.Suffix(`\?`, ast.KindCapture, optionalSuffix)
	g.Suffix(`\*`, ast.KindCapture, func(_ *parser.Parser, _ string, el *ast.Node) (*ast.Node, error) {
		return ast.NewNamedSplat(el.Name(), el.Pos), nil
	})
	g.Suffix(`\+`, ast.KindCapture, func(_ *parser.Parser, _ string, el *ast.Node) (*ast.Node, error) {
		n := ast.NewNamedSplat(el.Name(), el.Pos)
		n.Constraint = `.+`
		return n, nil
	})
	return g
}

func newPyramid() *parser.Grammar {
	g := parser.NewGrammar("pyramid")
	g.On(unexpected, parser.EOS, "}")
	g.On(func(p *parser.Parser, _ string) (*ast.Node, error) {
		start := p.Mark()
		name, err := p.Expect(reName)
		if err != nil {
			return nil, err
		}
		n := ast.NewCapture(name, start)
		if p.ScanString(":") {
			if n.Constraint, err = p.ReadBrackets("{", "}"); err != nil {
				return nil, err
			}
			n.Qualifier = ast.Qualify("")
			return n, nil
		}
		if err := p.ExpectString("}"); err != nil {
			return nil, err
		}
		return n, nil
	}, "{")
	g.On(func(p *parser.Parser, _ string) (*ast.Node, error) {
		start := p.Mark()
		name, err := p.Expect(reTrailing)
		if err != nil {
			return nil, err
		}
		n := ast.NewNamedSplat(name, start)
		n.Convert = splitPath
		return n, nil
	}, "*")
	return g
}

func newCake() *parser.Grammar {
	g := parser.NewGrammar("cake")
	g.On(capture, ":")
	g.On(func(p *parser.Parser, _ string) (*ast.Node, error) {
		n := ast.NewSplat(p.Mark())
		if !p.ScanString("*") {
			n.Convert = splitPath
		}
		return n, nil
	}, "*")
	return g
}

func newGrape() *parser.Grammar {
	g := parser.NewGrammar("grape")
	g.On(unexpected, parser.EOS, "?", ")")
	g.On(sinatraSplat, "*")
	g.On(func(p *parser.Parser, c string) (*ast.Node, error) {
		n, err := capture(p, c)
		if err != nil {
			return nil, err
		}
		n.Constraint = `[^/\?#\.]`
		return n, nil
	}, ":")
	g.On(escaped, `\`)
	g.On(optionalGroup, "(")
	g.On(parser.Alternative, "|")
	g.On(sinatraBraces, "{")
	g.Suffix(`\?`, ast.KindNode, optionalSuffix)
	return g
}
