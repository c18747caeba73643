package pathpat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/pathpat/internal/errs"
	"github.com/gnolang/pathpat/internal/escape"
	"github.com/gnolang/pathpat/internal/expand"
)

// Behavior decides what an Expander does with values no pattern uses.
type Behavior int

const (
	// Raise fails unless a pattern uses exactly the given keys.
	Raise Behavior = iota
	// Ignore drops keys until a pattern can use the rest.
	Ignore
	// Append expands what a pattern can use and appends the rest as a
	// query string.
	Append
)

var behaviorNames = map[Behavior]string{Raise: "raise", Ignore: "ignore", Append: "append"}

func (b Behavior) String() string {
	if s, ok := behaviorNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Behavior(%d)", int(b))
}

// ParseBehavior returns the behavior named s.
func ParseBehavior(s string) (Behavior, error) {
	for b, name := range behaviorNames {
		if name == s {
			return b, nil
		}
	}
	return Raise, fmt.Errorf("unknown behavior %q, want raise, ignore or append", s)
}

// Expander expands values with the first of several patterns that accepts them.
type Expander struct {
	patterns []*Pattern
	behavior Behavior
}

// NewExpander creates an expander over patterns.
func NewExpander(behavior Behavior, patterns ...*Pattern) *Expander {
	return &Expander{patterns: patterns, behavior: behavior}
}

// Add appends patterns, which are tried after the ones already added.
func (e *Expander) Add(patterns ...*Pattern) *Expander {
	e.patterns = append(e.patterns, patterns...)
	return e
}

// Patterns returns the patterns in the order they are tried.
func (e *Expander) Patterns() []*Pattern { return append([]*Pattern(nil), e.patterns...) }

// CanExpand reports whether some pattern accepts exactly keys.
func (e *Expander) CanExpand(keys ...string) bool {
	for _, p := range e.patterns {
		if p.CanExpand(keys...) {
			return true
		}
	}
	return false
}

// Expand expands values with the expander's behavior.
func (e *Expander) Expand(values map[string]string) (string, error) {
	return e.ExpandWith(e.behavior, values)
}

// ExpandWith expands values with behavior b.
func (e *Expander) ExpandWith(b Behavior, values map[string]string) (string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, p := range e.patterns {
		if p.CanExpand(keys...) {
			return p.Expand(values)
		}
	}
	if b == Raise {
		return "", e.missError(keys)
	}

	// no exact match: the largest expandable subset of the keys wins, earlier
	// patterns first on ties
	var (
		best     *expand.Table
		bestKeys []string
	)
	for _, p := range e.patterns {
		t, err := p.table()
		if err != nil {
			return "", err
		}
		used := t.ExpandableKeys(keys)
		if !t.Expandable(used) {
			continue
		}
		if best == nil || len(used) > len(bestKeys) {
			best, bestKeys = t, used
		}
	}
	if best == nil {
		return "", e.missError(keys)
	}

	subset := make(map[string]string, len(bestKeys))
	for _, k := range bestKeys {
		subset[k] = values[k]
	}
	s, err := best.Expand(subset)
	if err != nil {
		return "", err
	}
	if b == Append {
		s = appendQuery(s, keys, values, subset)
	}
	return s, nil
}

func (e *Expander) missError(keys []string) error {
	var combos []string
	for _, p := range e.patterns {
		t, err := p.table()
		if err != nil {
			continue
		}
		for _, c := range t.Combinations() {
			combos = append(combos, fmt.Sprint(c))
		}
	}
	return &errs.ExpandError{
		Msg: fmt.Sprintf("cannot expand with keys %v, possible expansions: %s", keys, strings.Join(combos, " or ")),
	}
}

// appendQuery adds the values not in used as key=value pairs, sorted by key.
func appendQuery(s string, keys []string, values, used map[string]string) string {
	var pairs []string
	for _, k := range keys {
		if _, ok := used[k]; ok {
			continue
		}
		pairs = append(pairs, queryEscape(k)+"="+queryEscape(values[k]))
	}
	if len(pairs) == 0 {
		return s
	}
	sep := "?"
	if strings.Contains(s, "?") {
		sep = "&"
	}
	return s + sep + strings.Join(pairs, "&")
}

func queryEscape(s string) string {
	return escape.Escape(s, func(i int) bool { return strings.IndexByte("&=+#?/", s[i]) >= 0 })
}
