package formatter

import (
	"fmt"
	"strings"

	"github.com/gnolang/pathpat"
)

// Inspect describes a compiled pattern: its names, the expression it
// compiled to, the key combinations it expands and its syntax tree.
func Inspect(p *pathpat.Pattern) string {
	var b strings.Builder

	field := func(name, value string) {
		b.WriteString(ruleStyle.Sprintf("%-9s", name+":"))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	field("pattern", fileStyle.Sprint(p.String()))
	field("dialect", p.Dialect())
	field("names", strings.Join(p.Names(), ", "))
	field("regexp", p.Regexp())

	expansions, err := p.Expansions()
	if err != nil {
		field("expands", messageStyle.Sprint(err.Error()))
	} else {
		combos := make([]string, len(expansions))
		for i, c := range expansions {
			combos[i] = fmt.Sprint(c)
		}
		field("expands", strings.Join(combos, " or "))
	}

	b.WriteString(ruleStyle.Sprint("tree:"))
	b.WriteByte('\n')
	for _, line := range strings.Split(p.Tree(), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}
