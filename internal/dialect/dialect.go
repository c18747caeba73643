// Package dialect defines the pattern syntaxes understood by the engine. Each
// dialect is a parser.Grammar built once at init and shared by every parse.
package dialect

import (
	"sort"
	"strings"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/parser"
)

// Default is the dialect used when none is named.
const Default = "sinatra"

var registry = map[string]*parser.Grammar{}

func register(g *parser.Grammar) *parser.Grammar {
	registry[g.Name()] = g
	return g
}

// Lookup returns the grammar of the named dialect.
func Lookup(name string) (*parser.Grammar, bool) {
	g, ok := registry[name]
	return g, ok
}

// Names lists the registered dialects in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var (
	reName       = parser.Pattern(`\w+`)
	reAnyChar    = parser.Pattern(`(?s:.)`)
	reTrailing   = parser.Pattern(`\w+$`)
	reDottedName = parser.Pattern(`[\w\.]+`)
)

// unexpected is the rule for characters a dialect rejects outright.
func unexpected(p *parser.Parser, char string) (*ast.Node, error) {
	return nil, p.Unexpected(char)
}

// capture reads a `\w+` name after the character that introduced it. An
// empty name is left for validation to report.
func capture(p *parser.Parser, _ string) (*ast.Node, error) {
	start := p.Mark()
	name, _ := p.Scan(reName)
	return ast.NewCapture(name, start), nil
}

// escaped reads the character following a backslash as a literal.
func escaped(p *parser.Parser, _ string) (*ast.Node, error) {
	start := p.Mark()
	c, err := p.Expect(reAnyChar)
	if err != nil {
		return nil, err
	}
	return ast.NewChar(c, start), nil
}

// group reads up to the matching ')'.
func group(p *parser.Parser, _ string) (*ast.Node, error) {
	return p.ReadGroup(")")
}

// optionalGroup reads up to the matching ')' and makes the result optional.
func optionalGroup(p *parser.Parser, _ string) (*ast.Node, error) {
	g, err := p.ReadGroup(")")
	if err != nil {
		return nil, err
	}
	return ast.NewOptional(g), nil
}

// optionalSuffix makes the preceding element optional.
func optionalSuffix(_ *parser.Parser, _ string, el *ast.Node) (*ast.Node, error) {
	return ast.NewOptional(el), nil
}

// splitPath converts a matched path into its segments.
func splitPath(value string) any {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, "/")
}
