// Package parser is the recursive-descent engine every dialect is configured on.
//
// A dialect is a Grammar: a table of primary rules keyed by the next character
// plus an ordered list of suffix rules tried after each element. Parsing never
// backtracks; rules move a cursor forward over the source.
package parser

import (
	"regexp"

	"github.com/gnolang/pathpat/internal/ast"
)

// EOS is the key of the rule invoked when the end of the input is reached
// while an element was required.
const EOS = ""

// Rule consumes the element starting with char (already read) and returns its node.
type Rule func(p *Parser, char string) (*ast.Node, error)

// SuffixRule gets the text matched by its pattern and the element read so far,
// and returns the element that replaces it.
type SuffixRule func(p *Parser, match string, element *ast.Node) (*ast.Node, error)

type suffix struct {
	pattern *regexp.Regexp
	after   ast.Kind
	rule    SuffixRule
}

// Grammar holds the rule table of one dialect. It is built once and is safe
// for concurrent use by any number of parses afterwards.
type Grammar struct {
	name     string
	rules    map[string]Rule
	suffixes []suffix
}

// NewGrammar creates an empty grammar. Characters without a rule become
// Separator nodes for '/' and Char nodes otherwise.
func NewGrammar(name string) *Grammar {
	return &Grammar{name: name, rules: make(map[string]Rule)}
}

// Name returns the dialect name the grammar was created with.
func (g *Grammar) Name() string { return g.name }

// On binds rule to each of chars, replacing any earlier binding.
// Use EOS to bind the end of input.
func (g *Grammar) On(rule Rule, chars ...string) *Grammar {
	for _, c := range chars {
		g.rules[c] = rule
	}
	return g
}

// Suffix appends a suffix rule. After every element, suffix rules are tried
// once each in the order they were added: a rule fires when the element is of
// kind after (or extends it) and pattern matches at the cursor.
func (g *Grammar) Suffix(pattern string, after ast.Kind, rule SuffixRule) *Grammar {
	g.suffixes = append(g.suffixes, suffix{pattern: Pattern(pattern), after: after, rule: rule})
	return g
}

// Clone returns a copy of g under a new name that can be extended without
// affecting g.
func (g *Grammar) Clone(name string) *Grammar {
	c := NewGrammar(name)
	for k, r := range g.rules {
		c.rules[k] = r
	}
	c.suffixes = append(c.suffixes, g.suffixes...)
	return c
}

// Parse turns source into a Root node.
func (g *Grammar) Parse(source string) (*ast.Node, error) {
	p := &Parser{grammar: g, src: source}
	children, err := p.readUntil(func() bool { return p.EOS() })
	if err != nil {
		return nil, err
	}
	return ast.NewRoot(source, children), nil
}

// Pattern compiles expr anchored at the cursor, for use with Scan and Expect.
func Pattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + expr + `)`)
}
