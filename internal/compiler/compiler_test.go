package compiler

import (
	"errors"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/dialect"
	"github.com/gnolang/pathpat/internal/errs"
	"github.com/gnolang/pathpat/internal/transform"
)

func defaults() Options {
	return Options{Greedy: true, SpaceMatchesPlus: true, URIDecode: true}
}

func tree(t *testing.T, name, source string) *ast.Node {
	t.Helper()
	g, ok := dialect.Lookup(name)
	require.True(t, ok, "dialect %s", name)
	root, err := g.Parse(source)
	require.NoError(t, err)
	out, err := transform.Transform(root)
	require.NoError(t, err)
	return out
}

func compile(t *testing.T, name, source string, opts Options) *Result {
	t.Helper()
	res, err := Compile(tree(t, name, source), opts)
	require.NoError(t, err)
	return res
}

// captures matches input and returns every capture of every named group.
// A nil map means no match.
func captures(t *testing.T, res *Result, input string) map[string][]string {
	t.Helper()
	re, err := regexp2.Compile(res.Expr, regexp2.None)
	require.NoError(t, err, res.Expr)
	m, err := re.FindStringMatch(input)
	require.NoError(t, err)
	if m == nil {
		return nil
	}
	out := make(map[string][]string)
	for name, group := range res.Groups {
		g := m.GroupByName(group)
		require.NotNil(t, g, "group %s", group)
		values := []string{}
		for _, c := range g.Captures {
			values = append(values, c.String())
		}
		out[name] = values
	}
	return out
}

func TestCompileExpr(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		source  string
		opts    Options
		want    string
	}{
		{
			name:    "capture",
			dialect: "sinatra",
			source:  "/:foo",
			opts:    defaults(),
			want:    `\A/(?<foo>[^/\?#]+)\z`,
		},
		{
			name:    "splat",
			dialect: "sinatra",
			source:  "/*",
			opts:    defaults(),
			want:    `\A/(?<splat>.*?)\z`,
		},
		{
			name:    "lazy capture",
			dialect: "sinatra",
			source:  "/:foo",
			opts:    Options{},
			want:    `\A/(?<foo>[^/\?#]+?)\z`,
		},
		{
			name:    "char without decoding",
			dialect: "sinatra",
			source:  "/a.b",
			opts:    Options{Greedy: true},
			want:    `\A/a\.b\z`,
		},
		{
			name:    "char with decoding",
			dialect: "sinatra",
			source:  "/.",
			opts:    defaults(),
			want:    `\A/(?:\.|%2e|%2E)\z`,
		},
		{
			name:    "optional",
			dialect: "sinatra",
			source:  "/a?",
			opts:    Options{Greedy: true},
			want:    `\A/(?:a)?\z`,
		},
		{
			name:    "union",
			dialect: "sinatra",
			source:  "/(a|b)",
			opts:    Options{Greedy: true},
			want:    `\A/(?:a|b)\z`,
		},
		{
			name:    "optional capture after a capture leaves the head unbounded",
			dialect: "sinatra",
			source:  "/:a:b?",
			opts:    defaults(),
			want:    `\A/(?<a>(?:(?!(?:(?!)[^/\?#])+?\z)[^/\?#])+)(?:(?<b>[^/\?#]+))?\z`,
		},
		{
			name:    "regexp constraint is not quantified again",
			dialect: "express",
			source:  `/:id(\d+)`,
			opts:    defaults(),
			want:    `\A/(?<id>(?:\d+))\z`,
		},
		{
			name:    "template variable",
			dialect: "template",
			source:  "/{foo}",
			opts:    defaults(),
			want:    `\A/(?<foo>[\w\-\.~%]+)\z`,
		},
		{
			name:    "template prefix",
			dialect: "template",
			source:  "{foo:3}",
			opts:    defaults(),
			want:    `\A(?<foo>[\w\-\.~%]{1,3})\z`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compile(t, tt.dialect, tt.source, tt.opts)
			assert.Equal(t, tt.want, res.Expr)
		})
	}
}

func TestCompileMatch(t *testing.T) {
	digits := Regexp(`\d+`)
	exts := OneOf(Literal(".jpg"), Literal(".png"), Literal(".tar.gz"))

	tests := []struct {
		name    string
		dialect string
		source  string
		opts    func(*Options)
		input   string
		want    map[string][]string
	}{
		{
			name:    "dots inside captures",
			dialect: "sinatra",
			source:  "/:foo/:bar",
			input:   "/foo.bar/bar.foo",
			want:    map[string][]string{"foo": {"foo.bar"}, "bar": {"bar.foo"}},
		},
		{
			name:    "several splats",
			dialect: "sinatra",
			source:  "/*/:foo/*/*",
			input:   "/bar/foo/bling/baz/boom",
			want:    map[string][]string{"foo": {"foo"}, "splat": {"bar", "bling", "baz/boom"}},
		},
		{
			name:    "greedy capture before literal",
			dialect: "sinatra",
			source:  "/:file.:ext",
			input:   "/pony正..jpg",
			want:    map[string][]string{"file": {"pony正."}, "ext": {"jpg"}},
		},
		{
			name:    "optional char after capture",
			dialect: "sinatra",
			source:  "/(:a)x?",
			input:   "/ax",
			want:    map[string][]string{"a": {"a"}},
		},
		{
			name:    "optional char after capture keeps inner x",
			dialect: "sinatra",
			source:  "/(:a)x?",
			input:   "/axax",
			want:    map[string][]string{"a": {"axa"}},
		},
		{
			name:    "optional char after capture drops one x",
			dialect: "sinatra",
			source:  "/(:a)x?",
			input:   "/axaxx",
			want:    map[string][]string{"a": {"axax"}},
		},
		{
			name:    "optional extension",
			dialect: "sinatra",
			source:  "/:file(.:ext)?",
			input:   "/pony.png.jpg",
			want:    map[string][]string{"file": {"pony.png"}, "ext": {"jpg"}},
		},
		{
			name:    "optional extension missing",
			dialect: "sinatra",
			source:  "/:file(.:ext)?",
			input:   "/pony",
			want:    map[string][]string{"file": {"pony"}, "ext": {}},
		},
		{
			name:    "non greedy optional extension",
			dialect: "sinatra",
			source:  "/:file(.:ext)?",
			opts:    func(o *Options) { o.Greedy = false },
			input:   "/pony.png.jpg",
			want:    map[string][]string{"file": {"pony"}, "ext": {"png.jpg"}},
		},
		{
			name:    "constraints by name",
			dialect: "sinatra",
			source:  "/:foo:bar:baz",
			opts: func(o *Options) {
				o.Capture = ByName(map[string]Constraint{"foo": Class("alpha"), "bar": digits})
			},
			input: "/ab123",
			want:  map[string][]string{"foo": {"ab"}, "bar": {"12"}, "baz": {"3"}},
		},
		{
			name:    "list constraint",
			dialect: "sinatra",
			source:  "/:file:ext?",
			opts:    func(o *Options) { o.Capture = ByName(map[string]Constraint{"ext": exts}) },
			input:   "/pony.tar.gz",
			want:    map[string][]string{"file": {"pony"}, "ext": {".tar.gz"}},
		},
		{
			name:    "list constraint single",
			dialect: "sinatra",
			source:  "/:file:ext?",
			opts:    func(o *Options) { o.Capture = ByName(map[string]Constraint{"ext": exts}) },
			input:   "/pony.jpg",
			want:    map[string][]string{"file": {"pony"}, "ext": {".jpg"}},
		},
		{
			name:    "list constraint absent",
			dialect: "sinatra",
			source:  "/:file:ext?",
			opts:    func(o *Options) { o.Capture = ByName(map[string]Constraint{"ext": exts}) },
			input:   "/pony",
			want:    map[string][]string{"file": {"pony"}, "ext": {}},
		},
		{
			name:    "encoded input stays encoded",
			dialect: "sinatra",
			source:  "/:foo/*",
			input:   "/bar/foo/f%20o",
			want:    map[string][]string{"foo": {"bar"}, "splat": {"foo/f%20o"}},
		},
		{
			name:    "encoded separator char",
			dialect: "sinatra",
			source:  "/a b",
			input:   "/a%20b",
			want:    map[string][]string{},
		},
		{
			name:    "plus for space",
			dialect: "sinatra",
			source:  "/a b",
			input:   "/a+b",
			want:    map[string][]string{},
		},
		{
			name:    "plus for space disabled",
			dialect: "sinatra",
			source:  "/a b",
			opts:    func(o *Options) { o.SpaceMatchesPlus = false },
			input:   "/a+b",
			want:    nil,
		},
		{
			name:    "no decoding",
			dialect: "sinatra",
			source:  "/a b",
			opts:    func(o *Options) { o.URIDecode = false },
			input:   "/a%20b",
			want:    nil,
		},
		{
			name:    "alternatives",
			dialect: "sinatra",
			source:  "/:a|/b/:c",
			input:   "/b/x",
			want:    map[string][]string{"a": {}, "c": {"x"}},
		},
		{
			name:    "reserved expansion is lazy",
			dialect: "template",
			source:  "/{+foo}/{bar}",
			input:   "/a/b/c",
			want:    map[string][]string{"foo": {"a/b"}, "bar": {"c"}},
		},
		{
			name:    "query parameters",
			dialect: "template",
			source:  "/x{?q,r}",
			input:   "/x?q=1&r=2",
			want:    map[string][]string{"q": {"1"}, "r": {"2"}},
		},
		{
			name:    "exploded path",
			dialect: "template",
			source:  "{/path*}",
			input:   "/a/b",
			want:    map[string][]string{"path": {"a/b"}},
		},
		{
			name:    "flask int",
			dialect: "flask",
			source:  "/<int:id>",
			input:   "/x",
			want:    nil,
		},
		{
			name:    "grape capture stops at dot",
			dialect: "grape",
			source:  "/:id(.:format)",
			input:   "/10.json",
			want:    map[string][]string{"id": {"10"}, "format": {"json"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaults()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			res := compile(t, tt.dialect, tt.source, opts)
			assert.Equal(t, tt.want, captures(t, res, tt.input), res.Expr)
		})
	}
}

func TestCompileExcept(t *testing.T) {
	opts := defaults()
	opts.Except = tree(t, "sinatra", "/auth/login")
	res := compile(t, "sinatra", "/*", opts)

	assert.Nil(t, captures(t, res, "/auth/login"))
	assert.Equal(t, map[string][]string{"splat": {"auth/logout"}}, captures(t, res, "/auth/logout"))
	assert.Equal(t, map[string][]string{"splat": {"auth/login/x"}}, captures(t, res, "/auth/login/x"))
}

func TestCompileSplitParams(t *testing.T) {
	res := compile(t, "template", "{/path*}{?q*}", defaults())
	assert.Equal(t, map[string]SplitParam{
		"path": {Separator: "/"},
		"q":    {Separator: "&", Parametric: true},
	}, res.SplitParams)
}

func TestCompileGroupNames(t *testing.T) {
	res := compile(t, "sinatra", "/{a.b}/:c", defaults())
	assert.Equal(t, map[string]string{"a.b": "__g0", "c": "c"}, res.Groups)
	assert.Equal(t, map[string][]string{"a.b": {"x"}, "c": {"y"}}, captures(t, res, "/x/y"))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		source  string
		capture Constraint
		want    string
	}{
		{"unknown class", "sinatra", "/:a", Class("nope"), `unknown character class "nope": "/:a"`},
		{"unsupported operator", "template", "{!a}", Constraint{}, `! operator not supported: "{!a}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := dialect.Lookup(tt.dialect)
			root, err := g.Parse(tt.source)
			require.NoError(t, err)
			// the transformer rejects unsupported operators before compilation
			if tr, err := transform.Transform(root); err == nil {
				root = tr
			} else {
				var ce *errs.CompileError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, tt.want, err.Error())
				return
			}
			opts := defaults()
			opts.Capture = tt.capture
			_, err = Compile(root, opts)
			var ce *errs.CompileError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestCapturePattern(t *testing.T) {
	p, err := CapturePattern(ast.NewCapture("a", 0), false, "")
	require.NoError(t, err)
	assert.Equal(t, `[^/\?#]+`, p)

	p, err = CapturePattern(&ast.Node{Kind: ast.KindVariable, Value: "a"}, true, ",")
	require.NoError(t, err)
	assert.Equal(t, `[\w\-\.~%\:/\?#\[\]@\!\$\&\'\(\)\*\+,;=]+`, p)

	p, err = CapturePattern(ast.NewSplat(0), false, "")
	require.NoError(t, err)
	assert.Equal(t, `.*?`, p)
}

func TestConstraintString(t *testing.T) {
	c := ByName(map[string]Constraint{
		"b": OneOf(Literal("x"), Class("digit")),
		"a": Regexp(`\d+`),
	})
	assert.Equal(t, `names(a: regexp("\\d+"), b: one_of(literal("x"), class(digit)))`, c.String())
	assert.True(t, Constraint{}.IsZero())
	assert.Equal(t, "none", Constraint{}.String())
}
