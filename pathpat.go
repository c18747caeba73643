// Package pathpat compiles path patterns, such as "/users/:id" or
// "/search{?q,page}", into matchers that extract named values from strings
// and expanders that build strings back from values.
//
// Several syntaxes are supported, see Dialects. Compiled patterns are
// immutable, safe for concurrent use and shared through a process-wide cache.
package pathpat

import (
	"fmt"
	"sync"

	"github.com/dlclark/regexp2"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/compiler"
	"github.com/gnolang/pathpat/internal/dialect"
	"github.com/gnolang/pathpat/internal/errs"
	"github.com/gnolang/pathpat/internal/expand"
	"github.com/gnolang/pathpat/internal/parser"
	"github.com/gnolang/pathpat/internal/transform"
	"github.com/gnolang/pathpat/internal/validate"
)

// DefaultDialect is used when Compile is given an empty dialect.
const DefaultDialect = dialect.Default

// Dialects lists the names Compile accepts.
func Dialects() []string { return dialect.Names() }

// Pattern is a compiled pattern.
type Pattern struct {
	source  string
	dialect string
	opts    Options

	tree   *ast.Node
	result *compiler.Result
	re     *regexp2.Regexp

	names       []string
	converters  map[string]ast.Converter
	alwaysArray map[string]bool

	table func() (*expand.Table, error)
}

// Compile compiles source in the named dialect. An empty dialect means
// DefaultDialect. Equal requests return the same *Pattern while it is cached.
func Compile(source, dialectName string, opts ...Option) (*Pattern, error) {
	if dialectName == "" {
		dialectName = DefaultDialect
	}
	g, ok := dialect.Lookup(dialectName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialectName)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	compile := func() (*Pattern, error) { return build(g, source, o) }
	c := DefaultCache()
	if c == nil {
		return compile()
	}
	return c.Fetch(dialectName+"\x00"+source+"\x00"+o.key(), compile)
}

// MustCompile is like Compile but panics on error.
func MustCompile(source, dialectName string, opts ...Option) *Pattern {
	p, err := Compile(source, dialectName, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func build(g *parser.Grammar, source string, o Options) (*Pattern, error) {
	tree, err := parse(g, source)
	if err != nil {
		return nil, err
	}
	if err := validate.Validate(tree); err != nil {
		return nil, err
	}

	copts := compiler.Options{
		Capture:          o.Capture,
		Greedy:           o.Greedy,
		SpaceMatchesPlus: o.SpaceMatchesPlus,
		URIDecode:        o.URIDecode,
	}
	if o.Except != "" {
		except, err := parse(g, o.Except)
		if err != nil {
			return nil, &errs.CompileError{Pattern: source, Msg: fmt.Sprintf("invalid except pattern: %v", err)}
		}
		copts.Except = except
	}
	res, err := compiler.Compile(tree, copts)
	if err != nil {
		return nil, err
	}
	re, err := regexp2.Compile(res.Expr, regexp2.None)
	if err != nil {
		return nil, &errs.CompileError{Pattern: source, Msg: fmt.Sprintf("invalid expression: %v", err)}
	}
	if o.MatchTimeout > 0 {
		re.MatchTimeout = o.MatchTimeout
	}

	p := &Pattern{
		source:      source,
		dialect:     g.Name(),
		opts:        o,
		tree:        tree,
		result:      res,
		re:          re,
		converters:  make(map[string]ast.Converter),
		alwaysArray: make(map[string]bool),
	}
	p.inspect()
	p.table = sync.OnceValues(func() (*expand.Table, error) { return expand.Build(p.tree) })
	return p, nil
}

func parse(g *parser.Grammar, source string) (*ast.Node, error) {
	root, err := g.Parse(source)
	if err != nil {
		return nil, err
	}
	return transform.Transform(root)
}

// inspect collects capture names and how their values are reported.
func (p *Pattern) inspect() {
	seen := make(map[string]bool)
	p.tree.Walk(func(n *ast.Node) bool {
		if !n.IsA(ast.KindCapture) {
			return true
		}
		name := n.Name()
		if seen[name] {
			p.alwaysArray[name] = true
		} else {
			seen[name] = true
			p.names = append(p.names, name)
		}
		if n.Kind == ast.KindSplat || n.Explode {
			p.alwaysArray[name] = true
		}
		if n.Convert != nil {
			p.converters[name] = n.Convert
		}
		return true
	})
}

// String returns the source the pattern was compiled from.
func (p *Pattern) String() string { return p.source }

// Dialect returns the name of the dialect the pattern was compiled in.
func (p *Pattern) Dialect() string { return p.dialect }

// Options returns the options the pattern was compiled with.
func (p *Pattern) Options() Options { return p.opts }

// Names lists the capture names in order of first appearance.
func (p *Pattern) Names() []string { return append([]string(nil), p.names...) }

// Regexp returns the regular expression the pattern compiled to, in the
// syntax of github.com/dlclark/regexp2.
func (p *Pattern) Regexp() string { return p.result.Expr }

// Tree renders the transformed syntax tree, for debugging.
func (p *Pattern) Tree() string { return p.tree.String() }

// Match reports whether s matches the whole pattern. A match that exceeds
// the match timeout reports false; use Params to see the error.
func (p *Pattern) Match(s string) bool {
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}

// CanExpand reports whether Expand accepts exactly the given keys.
func (p *Pattern) CanExpand(keys ...string) bool {
	t, err := p.table()
	return err == nil && t.Expandable(keys)
}

// Expand builds a string the pattern matches, with values substituted for
// the captures of the same name. The keys of values must be exactly one of
// the combinations the pattern supports.
func (p *Pattern) Expand(values map[string]string) (string, error) {
	t, err := p.table()
	if err != nil {
		return "", err
	}
	return t.Expand(values)
}

// Expansions lists the key combinations Expand accepts, each sorted.
func (p *Pattern) Expansions() ([][]string, error) {
	t, err := p.table()
	if err != nil {
		return nil, err
	}
	return t.Combinations(), nil
}
