package pathpat

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/gnolang/pathpat/internal/escape"
)

// Params matches s and returns the value of every capture, or nil if s does
// not match. Values are decoded unless URI decoding is disabled, then passed
// through the capture's converter if it has one.
//
// A capture that did not take part in the match is nil. Splats, exploded
// template variables and names used more than once always report a
// []string (or []any if a converter returns something else). The only
// error is a match exceeding the match timeout.
func (p *Pattern) Params(s string) (map[string]any, error) {
	m, err := p.re.FindStringMatch(s)
	if err != nil || m == nil {
		return nil, err
	}
	params := make(map[string]any, len(p.names))
	for _, name := range p.names {
		params[name] = p.param(name, m.GroupByName(p.result.Groups[name]))
	}
	return params, nil
}

func (p *Pattern) param(name string, g *regexp2.Group) any {
	var raw []string
	if g != nil {
		for _, c := range g.Captures {
			raw = append(raw, p.split(name, c.String())...)
		}
	}

	values := make([]any, 0, len(raw))
	convert := p.converters[name]
	for _, r := range raw {
		v := r
		if p.opts.URIDecode {
			v = escape.Unescape(v)
		}
		if convert == nil {
			values = append(values, v)
			continue
		}
		converted := convert(v)
		if list, ok := converted.([]string); ok && p.alwaysArray[name] {
			for _, e := range list {
				values = append(values, e)
			}
			continue
		}
		values = append(values, converted)
	}

	if !p.alwaysArray[name] {
		switch len(values) {
		case 0:
			return nil
		case 1:
			return values[0]
		}
	}
	strs := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return values
		}
		strs = append(strs, s)
	}
	return strs
}

// split breaks the value of an exploded variable into its elements.
func (p *Pattern) split(name, value string) []string {
	sp, ok := p.result.SplitParams[name]
	if !ok {
		return []string{value}
	}
	parts := strings.Split(value, sp.Separator)
	if sp.Parametric {
		for i, part := range parts {
			parts[i] = strings.TrimPrefix(part, name+"=")
		}
	}
	return parts
}
