package formatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/gnolang/pathpat/patternset"
)

const matchTemplate = `{{candidate .Candidate}}
{{- range .Results}}
{{row .Name $.Width .Params}}
{{- else}}
{{miss}}
{{- end}}
`

type matchData struct {
	Candidate string
	Width     int
	Results   []patternset.Result
}

// Matches renders which patterns matched candidate and the values they
// extracted, one pattern per line.
func Matches(candidate string, results []patternset.Result) string {
	data := matchData{Candidate: candidate, Results: results}
	for _, r := range results {
		data.Width = max(data.Width, len(r.Name))
	}

	funcMap := template.FuncMap{
		"candidate": func(s string) string { return fileStyle.Sprint(s) },
		"row":       row,
		"miss":      func() string { return "  " + messageStyle.Sprint("no match") },
	}
	tmpl := template.Must(template.New("matches").Funcs(funcMap).Parse(matchTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting matches: %v", err)
	}
	return buf.String()
}

func row(name string, width int, params map[string]any) string {
	s := "  " + ruleStyle.Sprintf("%-*s", width, name)
	if p := FormatParams(params); p != "" {
		s += "  " + valueStyle.Sprint(p)
	}
	return strings.TrimRight(s, " ")
}

// FormatParams renders params as space separated key=value pairs sorted by
// key. Missing values render as "-".
func FormatParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		v := params[k]
		if v == nil {
			pairs[i] = k + "=-"
			continue
		}
		pairs[i] = fmt.Sprintf("%s=%v", k, v)
	}
	return strings.Join(pairs, " ")
}
