// Package validate checks the capture names of a pattern.
package validate

import (
	"regexp"

	"github.com/gnolang/pathpat/internal/ast"
	"github.com/gnolang/pathpat/internal/errs"
)

var reNameStart = regexp.MustCompile(`^[a-z_]`)

// seen collects the names checked so far in one validation.
type seen map[string]struct{}

type translation = ast.Translation[seen, struct{}]

var validator = ast.NewTranslator[seen, struct{}]("validate").
	On(children, ast.KindNode).
	On(func(*translation, *ast.Node) (struct{}, error) { return struct{}{}, nil }, ast.KindSplat).
	On(checkName, ast.KindCapture, ast.KindNamedSplat)

// Validate returns a CompileError if a capture name is empty, does not start
// with a lower case letter or underscore, is reserved, or is used twice.
// Anonymous splats are exempt: they may repeat and share the name "splat".
func Validate(root *ast.Node) error {
	if _, err := validator.Translate(root, seen{}); err != nil {
		return errs.WithPattern(err, root.Source)
	}
	return nil
}

func children(t *translation, n *ast.Node) (struct{}, error) {
	if n.Head != nil {
		if _, err := t.Translate(n.Head); err != nil {
			return struct{}{}, err
		}
	}
	_, err := t.TranslateEach(n.Children)
	return struct{}{}, err
}

func checkName(t *translation, n *ast.Node) (struct{}, error) {
	name := n.Name()
	switch {
	case name == "":
		return struct{}{}, errs.Compilef("capture name can't be empty")
	case !reNameStart.MatchString(name):
		return struct{}{}, errs.Compilef("capture name must start with underscore or lower case letter")
	case name == "splat" || name == "captures":
		return struct{}{}, errs.Compilef("capture name can't be %s", name)
	}
	if _, dup := t.State[name]; dup {
		return struct{}{}, errs.Compilef("can't use the same capture name twice")
	}
	t.State[name] = struct{}{}
	return struct{}{}, nil
}
