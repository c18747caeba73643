package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/errs"
)

func TestValidate(t *testing.T) {
	sep := func() *ast.Node { return ast.NewSeparator("/", 0) }
	capture := func(name string) *ast.Node { return ast.NewCapture(name, 0) }

	tests := []struct {
		name    string
		source  string
		nodes   []*ast.Node
		wantErr string
	}{
		{
			name:   "valid",
			source: "/:foo/:_bar",
			nodes:  []*ast.Node{sep(), capture("foo"), sep(), capture("_bar")},
		},
		{
			name:   "repeated splats",
			source: "/*/*",
			nodes:  []*ast.Node{sep(), ast.NewSplat(1), sep(), ast.NewSplat(3)},
		},
		{
			name:    "empty",
			source:  "/:",
			nodes:   []*ast.Node{sep(), capture("")},
			wantErr: `capture name can't be empty: "/:"`,
		},
		{
			name:    "upper case",
			source:  "/:Foo",
			nodes:   []*ast.Node{sep(), capture("Foo")},
			wantErr: `capture name must start with underscore or lower case letter: "/:Foo"`,
		},
		{
			name:    "digit",
			source:  "/:1a",
			nodes:   []*ast.Node{sep(), capture("1a")},
			wantErr: `capture name must start with underscore or lower case letter: "/:1a"`,
		},
		{
			name:    "reserved splat",
			source:  "/:splat",
			nodes:   []*ast.Node{sep(), capture("splat")},
			wantErr: `capture name can't be splat: "/:splat"`,
		},
		{
			name:    "reserved captures",
			source:  "/:captures",
			nodes:   []*ast.Node{sep(), capture("captures")},
			wantErr: `capture name can't be captures: "/:captures"`,
		},
		{
			name:    "duplicate",
			source:  "/:foo/:foo",
			nodes:   []*ast.Node{sep(), capture("foo"), sep(), capture("foo")},
			wantErr: `can't use the same capture name twice: "/:foo/:foo"`,
		},
		{
			name:   "duplicate inside optional",
			source: "/:foo(/:foo)?",
			nodes: []*ast.Node{
				sep(), capture("foo"),
				ast.NewOptional(ast.NewGroup([]*ast.Node{sep(), capture("foo")}, 5)),
			},
			wantErr: `can't use the same capture name twice: "/:foo(/:foo)?"`,
		},
		{
			name:    "duplicate named splat",
			source:  "/*foo/:foo",
			nodes:   []*ast.Node{sep(), ast.NewNamedSplat("foo", 1), sep(), capture("foo")},
			wantErr: `can't use the same capture name twice: "/*foo/:foo"`,
		},
		{
			name:    "inside lookahead head",
			source:  "/:A:b?",
			nodes:   []*ast.Node{sep(), ast.NewWithLookAhead([]*ast.Node{capture("A"), ast.NewOptional(capture("b"))}, true, "")},
			wantErr: `capture name must start with underscore or lower case letter: "/:A:b?"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ast.NewRoot(tt.source, tt.nodes))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ce *errs.CompileError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
