package dialect

import (
	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/parser"
)

// Sinatra is the default syntax:
//
//	/:name        capture
//	/*  /*name    splat, named splat
//	/{name}       capture
//	/{+name}      named splat ({+splat} is a plain splat)
//	(a|b)         group with alternatives
//	x?            optional element
//	\?            escaped character
var Sinatra = register(newSinatra())

func newSinatra() *parser.Grammar {
	g := parser.NewGrammar("sinatra")
	g.On(unexpected, parser.EOS, "?", ")")
	g.On(sinatraSplat, "*")
	g.On(capture, ":")
	g.On(escaped, `\`)
	g.On(group, "(")
	g.On(parser.Alternative, "|")
	g.On(sinatraBraces, "{")
	g.Suffix(`\?`, ast.KindNode, optionalSuffix)
	return g
}

func sinatraSplat(p *parser.Parser, _ string) (*ast.Node, error) {
	start := p.Mark()
	if name, ok := p.Scan(reName); ok {
		return ast.NewNamedSplat(name, start), nil
	}
	return ast.NewSplat(start), nil
}

func sinatraBraces(p *parser.Parser, _ string) (*ast.Node, error) {
	start := p.Mark()
	splat := p.ScanString("+")
	name, err := p.Expect(reDottedName)
	if err != nil {
		return nil, err
	}
	if err := p.ExpectString("}"); err != nil {
		return nil, err
	}
	switch {
	case splat && name == "splat":
		return ast.NewSplat(start), nil
	case splat:
		return ast.NewNamedSplat(name, start), nil
	}
	return ast.NewCapture(name, start), nil
}
