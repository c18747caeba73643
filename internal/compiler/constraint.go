package compiler

import (
	"sort"
	"strconv"
	"strings"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintLiteral
	constraintClass
	constraintList
	constraintByName
	constraintRegexp
)

// Constraint restricts what a capture matches. The zero value leaves every
// capture to its default pattern.
type Constraint struct {
	kind  constraintKind
	value string // literal text, class name or regular expression
	list  []Constraint
	names map[string]Constraint
}

// Literal matches exactly s, in any of its percent-encoded forms when URI
// decoding is enabled.
func Literal(s string) Constraint { return Constraint{kind: constraintLiteral, value: s} }

// Class matches one or more characters of a named class such as "alpha" or "digit".
func Class(name string) Constraint { return Constraint{kind: constraintClass, value: name} }

// OneOf matches any of cs, preferring earlier ones.
func OneOf(cs ...Constraint) Constraint { return Constraint{kind: constraintList, list: cs} }

// ByName applies a different constraint per capture name. Captures missing
// from m keep their default.
func ByName(m map[string]Constraint) Constraint { return Constraint{kind: constraintByName, names: m} }

// Regexp matches expr, a regular expression in the matcher's syntax, as is.
func Regexp(expr string) Constraint { return Constraint{kind: constraintRegexp, value: expr} }

// IsZero reports whether c constrains nothing.
func (c Constraint) IsZero() bool { return c.kind == constraintNone }

// String renders c deterministically. Equal constraints render equally, which
// makes the result usable as a cache key.
func (c Constraint) String() string {
	switch c.kind {
	case constraintLiteral:
		return "literal(" + strconv.Quote(c.value) + ")"
	case constraintClass:
		return "class(" + c.value + ")"
	case constraintRegexp:
		return "regexp(" + strconv.Quote(c.value) + ")"
	case constraintList:
		parts := make([]string, len(c.list))
		for i, e := range c.list {
			parts[i] = e.String()
		}
		return "one_of(" + strings.Join(parts, ", ") + ")"
	case constraintByName:
		keys := make([]string, 0, len(c.names))
		for k := range c.names {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + c.names[k].String()
		}
		return "names(" + strings.Join(parts, ", ") + ")"
	}
	return "none"
}

// classes maps class names to expressions the matcher understands.
var classes = map[string]string{
	"alnum":  `[a-zA-Z0-9]`,
	"alpha":  `[a-zA-Z]`,
	"blank":  `[ \t]`,
	"cntrl":  `[\x00-\x1f\x7f]`,
	"digit":  `[0-9]`,
	"graph":  `[\x21-\x7e]`,
	"lower":  `[a-z]`,
	"print":  `[\x20-\x7e]`,
	"punct":  `[\x21-\x2f\x3a-\x40\x5b-\x60\x7b-\x7e]`,
	"space":  `\s`,
	"upper":  `[A-Z]`,
	"word":   `\w`,
	"xdigit": `[0-9a-fA-F]`,
}
