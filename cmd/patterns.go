package cmd

import (
	"go.uber.org/zap"

	"github.com/gnolang/pathpat"
	"github.com/gnolang/pathpat/patternset"
)

// patternSource is either a pattern set file or a single pattern given on
// the command line.
type patternSource struct {
	set    *patternset.Set
	single *pathpat.Pattern
}

func (s *patternSource) Set() *patternset.Set {
	if s.set != nil {
		return s.set
	}
	set, _ := patternset.New(patternset.Entry{Name: s.single.String(), Pattern: s.single})
	return set
}

func (s *patternSource) Expander(b pathpat.Behavior) *pathpat.Expander {
	if s.set != nil {
		return s.set.Expander(b)
	}
	return pathpat.NewExpander(b, s.single)
}

func loadSet(path string) (*patternset.Set, error) {
	set, err := patternset.Load(path)
	if err != nil {
		return nil, label(path, err)
	}
	logger.Debug("loaded pattern set", zap.String("path", path), zap.Int("patterns", set.Len()))
	return set, nil
}
