package patternset

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/pathpat"
)

// Config is the layout of a pattern set file:
//
//	defaults:
//	  dialect: sinatra
//	  options:
//	    greedy: true
//	patterns:
//	  - name: user
//	    pattern: /users/:id
//	    options:
//	      capture: {class: digit}
//	  - name: search
//	    dialect: template
//	    pattern: /search{?q,page}
type Config struct {
	Defaults Defaults      `yaml:"defaults"`
	Patterns []PatternSpec `yaml:"patterns,omitempty"`
}

type Defaults struct {
	Dialect string       `yaml:"dialect,omitempty"`
	Options *OptionsSpec `yaml:"options,omitempty"`
}

type PatternSpec struct {
	Name    string       `yaml:"name"`
	Pattern string       `yaml:"pattern"`
	Dialect string       `yaml:"dialect,omitempty"`
	Options *OptionsSpec `yaml:"options,omitempty"`
}

// OptionsSpec mirrors pathpat.Options. Unset fields keep the value they
// inherit.
type OptionsSpec struct {
	Capture          *ConstraintSpec `yaml:"capture,omitempty"`
	Except           *string         `yaml:"except,omitempty"`
	Greedy           *bool           `yaml:"greedy,omitempty"`
	SpaceMatchesPlus *bool           `yaml:"space_matches_plus,omitempty"`
	URIDecode        *bool           `yaml:"uri_decode,omitempty"`
	MatchTimeout     *time.Duration  `yaml:"match_timeout,omitempty"`
}

// ConstraintSpec describes a pathpat.Constraint. Exactly one field is set.
type ConstraintSpec struct {
	Class   string                    `yaml:"class,omitempty"`
	Literal string                    `yaml:"literal,omitempty"`
	Regexp  string                    `yaml:"regexp,omitempty"`
	OneOf   []ConstraintSpec          `yaml:"one_of,omitempty"`
	Names   map[string]ConstraintSpec `yaml:"names,omitempty"`
}

// Constraint converts c.
func (c ConstraintSpec) Constraint() (pathpat.Constraint, error) {
	set := 0
	for _, ok := range []bool{c.Class != "", c.Literal != "", c.Regexp != "", c.OneOf != nil, c.Names != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return pathpat.Constraint{}, errors.New("constraint needs exactly one of class, literal, regexp, one_of or names")
	}

	switch {
	case c.Class != "":
		return pathpat.Class(c.Class), nil
	case c.Literal != "":
		return pathpat.Literal(c.Literal), nil
	case c.Regexp != "":
		return pathpat.Regexp(c.Regexp), nil
	case c.OneOf != nil:
		list := make([]pathpat.Constraint, len(c.OneOf))
		for i, e := range c.OneOf {
			cc, err := e.Constraint()
			if err != nil {
				return pathpat.Constraint{}, fmt.Errorf("one_of[%d]: %w", i, err)
			}
			list[i] = cc
		}
		return pathpat.OneOf(list...), nil
	}
	names := make(map[string]pathpat.Constraint, len(c.Names))
	for k, e := range c.Names {
		cc, err := e.Constraint()
		if err != nil {
			return pathpat.Constraint{}, fmt.Errorf("names.%s: %w", k, err)
		}
		names[k] = cc
	}
	return pathpat.ByName(names), nil
}

// apply sets the options given in s on o.
func (s *OptionsSpec) apply(o *pathpat.Options) error {
	if s == nil {
		return nil
	}
	if s.Capture != nil {
		c, err := s.Capture.Constraint()
		if err != nil {
			return fmt.Errorf("capture: %w", err)
		}
		o.Capture = c
	}
	if s.Except != nil {
		o.Except = *s.Except
	}
	if s.Greedy != nil {
		o.Greedy = *s.Greedy
	}
	if s.SpaceMatchesPlus != nil {
		o.SpaceMatchesPlus = *s.SpaceMatchesPlus
	}
	if s.URIDecode != nil {
		o.URIDecode = *s.URIDecode
	}
	if s.MatchTimeout != nil {
		o.MatchTimeout = *s.MatchTimeout
	}
	return nil
}

// Load reads and compiles the pattern set file at path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse compiles a pattern set from YAML.
func Parse(data []byte) (*Set, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return FromConfig(cfg)
}

// FromConfig compiles every pattern of cfg, in order.
func FromConfig(cfg Config) (*Set, error) {
	base := pathpat.DefaultOptions()
	if err := cfg.Defaults.Options.apply(&base); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	entries := make([]Entry, 0, len(cfg.Patterns))
	for i, spec := range cfg.Patterns {
		if spec.Name == "" {
			return nil, fmt.Errorf("pattern #%d has no name", i+1)
		}
		opts := base
		if err := spec.Options.apply(&opts); err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Name, err)
		}
		dialect := spec.Dialect
		if dialect == "" {
			dialect = cfg.Defaults.Dialect
		}
		p, err := pathpat.Compile(spec.Pattern, dialect, pathpat.WithOptions(opts))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Name, err)
		}
		entries = append(entries, Entry{Name: spec.Name, Pattern: p})
	}
	return New(entries...)
}
