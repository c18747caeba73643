package dialect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/errs"
)

// shape renders the kinds and names of a tree in a compact form.
func shape(n *ast.Node) string {
	var s string
	switch {
	case n.Kind == ast.KindRoot:
	case n.IsA(ast.KindCapture):
		s = n.Kind.String() + ":" + n.Name()
	case n.IsA(ast.KindLiteral):
		s = n.Value
	case n.Kind == ast.KindExpression:
		s = "expression" + n.Operator
	default:
		s = n.Kind.String()
	}
	if len(n.Children) == 0 {
		return s
	}
	s += "("
	for i, c := range n.Children {
		if i > 0 {
			s += " "
		}
		s += shape(c)
	}
	return s + ")"
}

func TestRegistry(t *testing.T) {
	assert.Equal(t,
		[]string{"cake", "express", "flask", "grape", "pyramid", "rails", "sinatra", "template"},
		Names())

	g, ok := Lookup(Default)
	require.True(t, ok)
	assert.Same(t, Sinatra, g)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	tests := []struct {
		dialect string
		input   string
		want    string
	}{
		{"sinatra", "/:foo", "(/ capture:foo)"},
		{"sinatra", "/*", "(/ splat:splat)"},
		{"sinatra", "/*rest", "(/ named_splat:rest)"},
		{"sinatra", "/:foo?", "(/ optional(capture:foo))"},
		{"sinatra", "/(a|b)", "(/ union(group(a) group(b)))"},
		{"sinatra", `/\:x`, "(/ : x)"},
		{"sinatra", "/{foo}", "(/ capture:foo)"},
		{"sinatra", "/{+path}", "(/ named_splat:path)"},
		{"sinatra", "/{+splat}", "(/ splat:splat)"},
		{"sinatra", "/:", "(/ capture:)"},

		{"rails", "/:foo(.:format)", "(/ capture:foo optional(group(. capture:format)))"},
		{"rails", "/*path", "(/ named_splat:path)"},
		{"rails", "/a|b", "(union(group(/ a) group(b)))"},

		{"template", "/{foo}", "(/ expression(variable:foo))"},
		{"template", "{+a,b}", "(expression+(variable:a variable:b))"},
		{"template", "{?q*}", "(expression?(variable:q))"},

		{"flask", "/<name>", "(/ capture:name)"},
		{"flask", "/<path:rest>", "(/ named_splat:rest)"},

		{"express", "/:id?", "(/ optional(capture:id))"},
		{"express", "/:path*", "(/ named_splat:path)"},
		{"express", "/:path+", "(/ named_splat:path)"},
		{"express", `/(\d+)`, "(/ splat:splat)"},

		{"pyramid", "/{id}", "(/ capture:id)"},
		{"pyramid", "/a/*rest", "(/ a / named_splat:rest)"},

		{"cake", "/:id/*", "(/ capture:id / splat:splat)"},
		{"cake", "/**", "(/ splat:splat)"},

		{"grape", "/:id(.:format)", "(/ capture:id optional(group(. capture:format)))"},
		{"grape", "/*", "(/ splat:splat)"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect+" "+tt.input, func(t *testing.T) {
			g, ok := Lookup(tt.dialect)
			require.True(t, ok)
			root, err := g.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, shape(root))
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		dialect string
		input   string
		msg     string
		pos     int
	}{
		{"sinatra", "?", "unexpected ?", 0},
		{"sinatra", "/a)", "unexpected )", 2},
		{"sinatra", "/(a", "unexpected end of string", 3},
		{"sinatra", `/\`, "unexpected end of string", 2},
		{"sinatra", "/{foo", "unexpected end of string", 5},
		{"rails", "/a)", "unexpected )", 2},
		{"template", "/}", "unexpected }", 1},
		{"template", "/{foo", "unexpected end of string", 5},
		{"template", "/{}", "unexpected }", 2},
		{"flask", "/<foo", "unexpected end of string", 5},
		{"flask", "/<bar:foo>", `unexpected converter "bar"`, 1},
		{"flask", "/>", "unexpected >", 1},
		{"express", "/?", "unexpected ?", 1},
		{"pyramid", "/*a/b", "unexpected a", 2},
		{"pyramid", "/{a", "unexpected end of string", 3},
	}

	for _, tt := range tests {
		t.Run(tt.dialect+" "+tt.input, func(t *testing.T) {
			g, _ := Lookup(tt.dialect)
			_, err := g.Parse(tt.input)
			var pe *errs.ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.msg, pe.Msg)
			assert.Equal(t, tt.pos, pe.Pos)
			assert.Equal(t, tt.input, pe.Pattern)
		})
	}
}

func TestExpressConstraints(t *testing.T) {
	root, err := Express.Parse(`/:id(\d+)`)
	require.NoError(t, err)
	id := root.Children[1]
	assert.Equal(t, ast.KindCapture, id.Kind)
	assert.Equal(t, `\d+`, id.Constraint)
	require.NotNil(t, id.Qualifier)
	assert.Equal(t, "", *id.Qualifier)

	root, err = Express.Parse(`/:path+`)
	require.NoError(t, err)
	assert.Equal(t, `.+`, root.Children[1].Constraint)
}

func TestPyramidAndCakeConvert(t *testing.T) {
	root, err := Pyramid.Parse("/{id:[a-z]+}/*rest")
	require.NoError(t, err)
	assert.Equal(t, "[a-z]+", root.Children[1].Constraint)
	rest := root.Children[3]
	require.NotNil(t, rest.Convert)
	assert.Equal(t, []string{"a", "b"}, rest.Convert("a/b"))

	root, err = Cake.Parse("/*/**")
	require.NoError(t, err)
	assert.NotNil(t, root.Children[1].Convert)
	assert.Nil(t, root.Children[3].Convert)
}

func TestTemplateVariables(t *testing.T) {
	root, err := Template.Parse("{/path*,id:3}")
	require.NoError(t, err)
	expr := root.Children[0]
	assert.Equal(t, "/", expr.Operator)
	require.Len(t, expr.Children, 2)
	assert.True(t, expr.Children[0].Explode)
	assert.Equal(t, 0, expr.Children[0].Prefix)
	assert.False(t, expr.Children[1].Explode)
	assert.Equal(t, 3, expr.Children[1].Prefix)

	// reserved operators parse; compiling rejects them
	root, err = Template.Parse("{=a}")
	require.NoError(t, err)
	assert.Equal(t, "=", root.Children[0].Operator)
}

func TestFlaskConverters(t *testing.T) {
	tests := []struct {
		input      string
		kind       ast.Kind
		constraint string
		qualifier  string // "-" for none
		convert    string
		want       any
	}{
		{"/<name>", ast.KindCapture, `[^/]`, "-", "", nil},
		{"/<string(length=2):name>", ast.KindCapture, `[^/]`, "{2}", "", nil},
		{"/<string(minlength=2):name>", ast.KindCapture, `[^/]`, "{2,}", "", nil},
		{"/<string(maxlength=4):name>", ast.KindCapture, `[^/]`, "{1,4}", "", nil},
		{"/<int:id>", ast.KindCapture, `\d`, "-", "42", 42},
		{"/<int(fixed_digits=4):id>", ast.KindCapture, `\d`, "{4}", "0042", 42},
		{"/<int(min=10, max=20):id>", ast.KindCapture, `\d`, "-", "5", 10},
		{"/<int(max=20):id>", ast.KindCapture, `\d`, "-", "25", 20},
		{"/<float:x>", ast.KindCapture, `\d*\.?\d+`, "", "1.5", 1.5},
		{"/<path:p>", ast.KindNamedSplat, "", "-", "", nil},
		{"/<any(a, 'b.c'):x>", ast.KindCapture, `a|b\.c`, "", "", nil},
		{"/<any('a,b'):x>", ast.KindCapture, `a|b`, "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, err := Flask.Parse(tt.input)
			require.NoError(t, err)
			n := root.Children[1]
			assert.Equal(t, tt.kind, n.Kind)
			assert.Equal(t, tt.constraint, n.Constraint)
			if tt.qualifier == "-" {
				assert.Nil(t, n.Qualifier)
			} else {
				require.NotNil(t, n.Qualifier)
				assert.Equal(t, tt.qualifier, *n.Qualifier)
			}
			if tt.convert != "" {
				require.NotNil(t, n.Convert)
				assert.Equal(t, tt.want, n.Convert(tt.convert))
			}
		})
	}
}

func TestFlaskInvalidArgument(t *testing.T) {
	_, err := Flask.Parse("/<int(min=x):id>")
	var pe *errs.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Pos)
	assert.Contains(t, pe.Msg, "int")
}
