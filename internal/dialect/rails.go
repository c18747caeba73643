package dialect

import (
	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/parser"
)

// Rails follows the routing syntax of Rails 5: `:name`, `*name`, optional
// `(...)` groups, `|` alternatives and backslash escapes.
var Rails = register(newRails())

func newRails() *parser.Grammar {
	g := parser.NewGrammar("rails")
	g.On(unexpected, parser.EOS, ")")
	g.On(func(p *parser.Parser, _ string) (*ast.Node, error) {
		start := p.Mark()
		name, _ := p.Scan(reName)
		return ast.NewNamedSplat(name, start), nil
	}, "*")
	g.On(capture, ":")
	g.On(escaped, `\`)
	g.On(optionalGroup, "(")
	g.On(parser.Alternative, "|")
	return g
}
