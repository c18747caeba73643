package pathpat

import (
	"errors"

	"github.com/gnolang/pathpat/internal/errs"
)

type (
	// ParseError reports a pattern that is malformed. Pos is the byte offset
	// of the offending character.
	ParseError = errs.ParseError
	// CompileError reports a pattern that parsed but cannot be compiled,
	// such as one with an invalid or duplicate capture name.
	CompileError = errs.CompileError
	// ExpandError reports values no expansion of a pattern accepts.
	ExpandError = errs.ExpandError
)

// ErrUnknownDialect is returned by Compile for a dialect that is not registered.
var ErrUnknownDialect = errors.New("unknown dialect")
