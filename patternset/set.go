// Package patternset groups named patterns, usually loaded from a YAML file,
// and matches candidates against all of them.
package patternset

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gnolang/pathpat"
)

// Entry is a named pattern.
type Entry struct {
	Name    string
	Pattern *pathpat.Pattern
}

// Result is a pattern that matched a candidate.
type Result struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// Set is an ordered collection of uniquely named patterns.
type Set struct {
	entries []Entry
	index   map[string]int
}

// New creates a set from entries. Names must be unique.
func New(entries ...Entry) (*Set, error) {
	s := &Set{entries: entries, index: make(map[string]int, len(entries))}
	for i, e := range entries {
		if _, dup := s.index[e.Name]; dup {
			return nil, fmt.Errorf("duplicate pattern name %q", e.Name)
		}
		s.index[e.Name] = i
	}
	return s, nil
}

func (s *Set) Len() int { return len(s.entries) }

// Entries returns the entries in order.
func (s *Set) Entries() []Entry { return append([]Entry(nil), s.entries...) }

// Lookup returns the pattern named name.
func (s *Set) Lookup(name string) (*pathpat.Pattern, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.entries[i].Pattern, true
}

// Match returns every entry matching candidate, in set order.
func (s *Set) Match(candidate string) ([]Result, error) {
	var results []Result
	for _, e := range s.entries {
		params, err := e.Pattern.Params(candidate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		if params != nil {
			results = append(results, Result{Name: e.Name, Params: params})
		}
	}
	return results, nil
}

// Progress is notified as candidates are processed, such as a
// *progressbar.ProgressBar.
type Progress interface {
	Add(n int) error
}

// MatchAll matches candidates concurrently on up to workers goroutines
// (GOMAXPROCS when workers < 1). The i-th result belongs to the i-th
// candidate. The first error cancels the remaining work. progress may be nil.
func (s *Set) MatchAll(ctx context.Context, candidates []string, workers int, progress Progress) ([][]Result, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([][]Result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := s.Match(c)
			if err != nil {
				return fmt.Errorf("candidate %q: %w", c, err)
			}
			results[i] = r
			if progress != nil {
				_ = progress.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// gctx is always done after Wait; only the caller's context counts
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Expand expands values with the pattern named name.
func (s *Set) Expand(name string, values map[string]string) (string, error) {
	p, ok := s.Lookup(name)
	if !ok {
		return "", fmt.Errorf("no pattern named %q", name)
	}
	return p.Expand(values)
}

// Expander returns an expander trying the patterns in set order.
func (s *Set) Expander(b pathpat.Behavior) *pathpat.Expander {
	patterns := make([]*pathpat.Pattern, len(s.entries))
	for i, e := range s.entries {
		patterns[i] = e.Pattern
	}
	return pathpat.NewExpander(b, patterns...)
}
