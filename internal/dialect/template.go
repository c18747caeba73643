package dialect

import (
	"strconv"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/parser"
)

// Template is RFC 6570 URI Template syntax, levels 1 to 4. Operators that are
// reserved by the RFC parse, but compiling them fails.
var Template = register(newTemplate())

var (
	reOperator = parser.Pattern(`[\+#\./;\?&=,!@\|]`)
	reVariable = parser.Pattern(`(\w+)(?::(\d{1,4})|(\*))?`)
)

func newTemplate() *parser.Grammar {
	g := parser.NewGrammar("template")
	g.On(unexpected, parser.EOS, "}")
	g.On(expression, "{")
	return g
}

func expression(p *parser.Parser, _ string) (*ast.Node, error) {
	start := p.Mark()
	op, _ := p.Scan(reOperator)
	var vars []*ast.Node
	for {
		v, err := variable(p)
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
		if !p.ScanString(",") {
			break
		}
	}
	if err := p.ExpectString("}"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindExpression, Operator: op, Children: vars, Pos: start}, nil
}

func variable(p *parser.Parser) (*ast.Node, error) {
	start := p.Pos()
	m, err := p.ExpectSubmatch(reVariable)
	if err != nil {
		return nil, err
	}
	v := &ast.Node{Kind: ast.KindVariable, Value: m[1], Explode: m[3] != "", Pos: start}
	if m[2] != "" {
		// \d{1,4} always fits.
		v.Prefix, _ = strconv.Atoi(m[2])
	}
	return v, nil
}
