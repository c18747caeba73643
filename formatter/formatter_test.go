package formatter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/pathpat"
	"github.com/gnolang/pathpat/patternset"
)

func init() {
	color.NoColor = true
}

func compileErr(t *testing.T, source string) error {
	t.Helper()
	_, err := pathpat.Compile(source, "")
	require.Error(t, err)
	return err
}

func TestDiagnostic(t *testing.T) {
	_, expandErr := pathpat.MustCompile("/:foo.:ext", "").Expand(map[string]string{"foo": "x"})
	require.Error(t, expandErr)

	tests := []struct {
		name     string
		label    string
		err      error
		expected string
	}{
		{
			name:  "parse error at end of string",
			label: "sinatra",
			err:   compileErr(t, "/(:a"),
			expected: `error: parse-error
 --> sinatra:1:5
  |
1 | /(:a
  |     ^
  = unexpected end of string
`,
		},
		{
			name:  "parse error after a tab",
			label: "sinatra",
			err:   compileErr(t, "\t)"),
			expected: "error: parse-error\n" +
				" --> sinatra:1:2\n" +
				"  |\n" +
				"1 | \t)\n" +
				"  |         ^\n" +
				"  = unexpected )\n",
		},
		{
			name: "compile error",
			err:  compileErr(t, "/:foo/:foo"),
			expected: `error: compile-error
  |
1 | /:foo/:foo
  | ~~~~~~~~~~
  = can't use the same capture name twice
`,
		},
		{
			name:  "wrapped expand error",
			label: "routes.yaml",
			err:   fmt.Errorf("asset: %w", expandErr),
			expected: `error: expand-error
 --> routes.yaml
  |
1 | /:foo.:ext
  | ~~~~~~~~~~
  = cannot expand with keys [foo], possible expansions: [ext foo]
`,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			expected: `error: error
  = boom
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Diagnostic(tt.label, tt.err))
		})
	}
}

func TestMatches(t *testing.T) {
	results := []patternset.Result{
		{Name: "user", Params: map[string]any{"id": "42"}},
		{Name: "any user", Params: map[string]any{"splat": []string{"42"}, "format": nil}},
		{Name: "root"},
	}

	expected := `/users/42
  user      id=42
  any user  format=- splat=[42]
  root
`
	assert.Equal(t, expected, Matches("/users/42", results))
	assert.Equal(t, "/nothing\n  no match\n", Matches("/nothing", nil))
}

func TestInspect(t *testing.T) {
	expected := `pattern: /:foo
dialect: sinatra
names:   foo
regexp:  \A/(?<foo>[^/\?#]+)\z
expands: [foo]
tree:
  root "/:foo"
    separator "/"
    capture "foo"
`
	assert.Equal(t, expected, Inspect(pathpat.MustCompile("/:foo", "")))
}

func TestCalculateVisualColumn(t *testing.T) {
	tests := []struct {
		line   string
		column int
		want   int
	}{
		{"/abc", 1, 0},
		{"/abc", 3, 2},
		{"\t/a", 2, 8},
		{"a\tb", 3, 8},
		{"/äb", 4, 2},
		{"/abc", 10, 4},
		{"/abc", -1, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q@%d", tt.line, tt.column), func(t *testing.T) {
			assert.Equal(t, tt.want, calculateVisualColumn(tt.line, tt.column))
		})
	}
}
