package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/errs"
)

// alternative marks a '|' between the elements of a group. It never leaves
// the parser: readUntil folds the elements around it into a Union.
var alternative = &ast.Node{Kind: ast.KindNode, Value: "|", Pos: -1}

// Parser is the cursor of one parse. Rules drive it through its methods.
type Parser struct {
	grammar *Grammar
	src     string
	pos     int // next byte to read
	last    int // offset of the most recently consumed text
	mark    int // offset where the element being read starts
}

// Source returns the full input.
func (p *Parser) Source() string { return p.src }

// Pos returns the cursor offset.
func (p *Parser) Pos() int { return p.pos }

// Mark returns the offset at which the element currently being read started.
func (p *Parser) Mark() int { return p.mark }

// EOS reports whether the whole input has been consumed.
func (p *Parser) EOS() bool { return p.pos >= len(p.src) }

// Getch consumes one character. It returns "" at the end of the input.
func (p *Parser) Getch() string {
	if p.EOS() {
		p.last = len(p.src)
		return ""
	}
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.last = p.pos
	p.pos += size
	return p.src[p.last:p.pos]
}

// Peek returns the next character without consuming it.
func (p *Parser) Peek() string {
	if p.EOS() {
		return ""
	}
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	return p.src[p.pos : p.pos+size]
}

// Scan consumes the text matched by re at the cursor. re must come from Pattern.
func (p *Parser) Scan(re *regexp.Regexp) (string, bool) {
	m := p.ScanSubmatch(re)
	if m == nil {
		return "", false
	}
	return m[0], true
}

// ScanSubmatch is Scan returning the submatches too. Groups that did not
// participate are empty strings.
func (p *Parser) ScanSubmatch(re *regexp.Regexp) []string {
	rest := p.src[p.pos:]
	loc := re.FindStringSubmatchIndex(rest)
	if loc == nil || loc[0] != 0 {
		return nil
	}
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = rest[loc[2*i]:loc[2*i+1]]
		}
	}
	p.last = p.pos
	p.pos += loc[1]
	return out
}

// ScanString consumes lit if the input continues with it.
func (p *Parser) ScanString(lit string) bool {
	if lit == "" || !strings.HasPrefix(p.src[p.pos:], lit) {
		return false
	}
	p.last = p.pos
	p.pos += len(lit)
	return true
}

// Expect is Scan that fails with a ParseError naming the next character.
func (p *Parser) Expect(re *regexp.Regexp) (string, error) {
	if s, ok := p.Scan(re); ok {
		return s, nil
	}
	return "", p.UnexpectedNext()
}

// ExpectSubmatch is ScanSubmatch that fails like Expect.
func (p *Parser) ExpectSubmatch(re *regexp.Regexp) ([]string, error) {
	if m := p.ScanSubmatch(re); m != nil {
		return m, nil
	}
	return nil, p.UnexpectedNext()
}

// ExpectString is ScanString that fails like Expect.
func (p *Parser) ExpectString(lit string) error {
	if p.ScanString(lit) {
		return nil
	}
	return p.UnexpectedNext()
}

// Unexpected reports char, the most recently consumed text, as an error.
func (p *Parser) Unexpected(char string) error {
	pos := p.last
	if char == "" {
		pos = len(p.src)
	}
	return errs.Unexpected(p.src, pos, char)
}

// UnexpectedNext consumes the next character and reports it as an error.
func (p *Parser) UnexpectedNext() error {
	return p.Unexpected(p.Getch())
}

// Read consumes one element, applying the primary rule for its first
// character and then the grammar's suffix rules.
func (p *Parser) Read() (*ast.Node, error) {
	p.mark = p.pos
	char := p.Getch()
	rule, ok := p.grammar.rules[char]
	var (
		el  *ast.Node
		err error
	)
	switch {
	case ok:
		el, err = rule(p, char)
	case char == EOS:
		err = p.Unexpected(char)
	default:
		el = p.DefaultNode(char)
	}
	if err != nil || el == alternative {
		return el, err
	}
	return p.readSuffix(el)
}

// DefaultNode creates the node for a character without a rule of its own.
func (p *Parser) DefaultNode(char string) *ast.Node {
	if char == "/" {
		return ast.NewSeparator(char, p.last)
	}
	return ast.NewChar(char, p.last)
}

// Alternative is the rule for a '|' that separates the alternatives of the
// enclosing group.
func Alternative(_ *Parser, _ string) (*ast.Node, error) {
	return alternative, nil
}

func (p *Parser) readSuffix(el *ast.Node) (*ast.Node, error) {
	for _, s := range p.grammar.suffixes {
		if !el.IsA(s.after) {
			continue
		}
		match, ok := p.Scan(s.pattern)
		if !ok {
			continue
		}
		next, err := s.rule(p, match, el)
		if err != nil {
			return nil, err
		}
		el = next
	}
	return el, nil
}

// ReadGroup reads elements up to and including close and returns them as a
// Group, or as a Union when they contain alternatives.
func (p *Parser) ReadGroup(close string) (*ast.Node, error) {
	start := p.mark
	children, err := p.readUntil(func() bool { return p.ScanString(close) })
	if err != nil {
		return nil, err
	}
	if len(children) == 1 && children[0].Kind == ast.KindUnion {
		children[0].Pos = start
		return children[0], nil
	}
	return ast.NewGroup(children, start), nil
}

// readUntil reads elements until done reports true. Alternatives split the
// elements into groups that are returned as a single Union.
func (p *Parser) readUntil(done func() bool) ([]*ast.Node, error) {
	start := p.pos
	var (
		current      []*ast.Node
		alternatives [][]*ast.Node
	)
	for !done() {
		el, err := p.Read()
		if err != nil {
			return nil, err
		}
		if el == alternative {
			alternatives = append(alternatives, current)
			current = nil
			continue
		}
		current = append(current, el)
	}
	if alternatives == nil {
		return current, nil
	}
	alternatives = append(alternatives, current)
	groups := make([]*ast.Node, len(alternatives))
	for i, alt := range alternatives {
		groups[i] = ast.NewGroup(alt, start)
	}
	return []*ast.Node{ast.NewUnion(groups, start)}, nil
}
