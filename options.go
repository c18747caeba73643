package pathpat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gnolang/pathpat/internal/compiler"
)

// Constraint restricts what captures match. See Literal, Class, OneOf,
// ByName and Regexp.
type Constraint = compiler.Constraint

var (
	// Literal matches exactly the given text.
	Literal = compiler.Literal
	// Class matches one or more characters of a POSIX class name such as
	// "alpha", "digit" or "alnum".
	Class = compiler.Class
	// OneOf matches any of the given constraints, trying them in order.
	OneOf = compiler.OneOf
	// ByName applies a constraint per capture name.
	ByName = compiler.ByName
	// Regexp matches a regular expression in .NET syntax as is.
	Regexp = compiler.Regexp
)

// Options controls how a pattern is compiled.
type Options struct {
	// Capture constrains what captures match. The zero value keeps the
	// default of each capture kind.
	Capture Constraint
	// Except is a pattern, in the same dialect, whose matches are rejected.
	Except string
	// Greedy makes captures take as much as possible. Non greedy captures
	// take as little as possible.
	Greedy bool
	// SpaceMatchesPlus lets a literal space match '+' and its encodings.
	SpaceMatchesPlus bool
	// URIDecode lets literal characters match their percent-encoded forms
	// and decodes captured values.
	URIDecode bool
	// MatchTimeout bounds the time of a single match. Zero means no limit.
	MatchTimeout time.Duration
}

// DefaultOptions returns the options Compile starts from.
func DefaultOptions() Options {
	return Options{Greedy: true, SpaceMatchesPlus: true, URIDecode: true}
}

// Option modifies Options.
type Option func(*Options)

// WithOptions replaces all options at once.
func WithOptions(o Options) Option {
	return func(opts *Options) { *opts = o }
}

func WithCapture(c Constraint) Option {
	return func(o *Options) { o.Capture = c }
}

func WithExcept(pattern string) Option {
	return func(o *Options) { o.Except = pattern }
}

func WithGreedy(greedy bool) Option {
	return func(o *Options) { o.Greedy = greedy }
}

func WithSpaceMatchesPlus(enabled bool) Option {
	return func(o *Options) { o.SpaceMatchesPlus = enabled }
}

func WithURIDecode(enabled bool) Option {
	return func(o *Options) { o.URIDecode = enabled }
}

func WithMatchTimeout(d time.Duration) Option {
	return func(o *Options) { o.MatchTimeout = d }
}

// Validate reports options that cannot be compiled with.
func (o Options) Validate() error {
	if o.MatchTimeout < 0 {
		return fmt.Errorf("match timeout must not be negative, got %s", o.MatchTimeout)
	}
	return nil
}

// key renders o so that equal options give equal keys.
func (o Options) key() string {
	return strings.Join([]string{
		o.Capture.String(),
		strconv.Quote(o.Except),
		strconv.FormatBool(o.Greedy),
		strconv.FormatBool(o.SpaceMatchesPlus),
		strconv.FormatBool(o.URIDecode),
		o.MatchTimeout.String(),
	}, "|")
}
