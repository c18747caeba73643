package parser

import "strings"

const escapeChar = `\`

var (
	reSpaces = Pattern(`\s*`)
	reArgKey = Pattern(`(\w+)\s*=`)
)

// ReadBrackets reads up to the close matching an open that was already
// consumed. Nested pairs and escaped characters are kept verbatim, the
// final close is consumed but not returned.
func (p *Parser) ReadBrackets(open, close string) (string, error) {
	var sb strings.Builder
	for {
		c := p.Getch()
		switch c {
		case EOS:
			return "", p.Unexpected(c)
		case close:
			return sb.String(), nil
		case open:
			inner, err := p.ReadBrackets(open, close)
			if err != nil {
				return "", err
			}
			sb.WriteString(open + inner + close)
		case escapeChar:
			sb.WriteString(c + p.Getch())
		default:
			sb.WriteString(c)
		}
	}
}

// ReadEscaped reads up to close, dropping the escape character in front of
// escaped characters. close is consumed but not returned.
func (p *Parser) ReadEscaped(close string) (string, error) {
	var sb strings.Builder
	for {
		c := p.Getch()
		switch c {
		case EOS:
			return "", p.Unexpected(c)
		case close:
			return sb.String(), nil
		case escapeChar:
			sb.WriteString(p.Getch())
		default:
			sb.WriteString(c)
		}
	}
}

// ReadList reads a comma separated list up to close. Spaces are ignored
// unless quoted; single and double quotes delimit literal elements.
func (p *Parser) ReadList(close string) ([]string, error) {
	var result []string
	appendLast := func(s string) {
		if len(result) == 0 {
			result = append(result, s)
			return
		}
		result[len(result)-1] += s
	}
	for {
		c := p.Getch()
		switch c {
		case EOS:
			return nil, p.Unexpected(c)
		case close:
			return result, nil
		case " ":
		case ",":
			result = append(result, "")
		case escapeChar:
			appendLast(p.Getch())
		case `"`, `'`:
			s, err := p.ReadEscaped(c)
			if err != nil {
				return nil, err
			}
			appendLast(s)
		default:
			appendLast(c)
		}
	}
}

// ReadArgs reads an argument list up to close, such as
// `1, 'x', min=2, max = 3`. Positional arguments are returned in order,
// keyword arguments in a map keyed by name.
func (p *Parser) ReadArgs(close string) ([]string, map[string]string, error) {
	var (
		list []string
		kw   = make(map[string]string)
	)
	for {
		p.Scan(reSpaces)
		if p.ScanString(close) {
			return list, kw, nil
		}
		var key string
		if m := p.ScanSubmatch(reArgKey); m != nil {
			key = m[1]
			p.Scan(reSpaces)
		}
		value, err := p.readArg(close)
		if err != nil {
			return nil, nil, err
		}
		if key != "" {
			kw[key] = value
		} else {
			list = append(list, value)
		}
		p.Scan(reSpaces)
		if p.ScanString(",") {
			continue
		}
		if err := p.ExpectString(close); err != nil {
			return nil, nil, err
		}
		return list, kw, nil
	}
}

// readArg reads one argument value, leaving the following separator or close unread.
func (p *Parser) readArg(close string) (string, error) {
	if q := p.Peek(); q == `"` || q == `'` {
		p.Getch()
		return p.ReadEscaped(q)
	}
	var sb strings.Builder
	for {
		c := p.Peek()
		switch c {
		case EOS:
			return "", p.UnexpectedNext()
		case ",", close:
			return strings.TrimSpace(sb.String()), nil
		case escapeChar:
			p.Getch()
			sb.WriteString(p.Getch())
		default:
			sb.WriteString(p.Getch())
		}
	}
}
