// Package errs defines the error kinds shared by every stage of the pattern pipeline.
package errs

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNoHandler is returned by a translation pass that has no handler for a node kind.
// It indicates a bug in the pass, not in the pattern.
var ErrNoHandler = errors.New("no translation handler")

// ParseError reports malformed input at the lexical or grammatical level.
type ParseError struct {
	Pattern string
	Pos     int // byte offset of the offending character, len(Pattern) at end of string
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s while parsing %s", e.Msg, strconv.Quote(e.Pattern))
}

// Unexpected builds the ParseError raised when the parser meets a character no rule accepts.
// An empty char means the end of the input was reached.
func Unexpected(pattern string, pos int, char string) *ParseError {
	switch char {
	case "":
		char = "end of string"
	case " ":
		char = "space"
	}
	return &ParseError{Pattern: pattern, Pos: pos, Msg: "unexpected " + char}
}

// CompileError reports a pattern that parsed but is semantically invalid.
type CompileError struct {
	Pattern string
	Msg     string
}

func (e *CompileError) Error() string {
	if e.Pattern == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, strconv.Quote(e.Pattern))
}

// Compilef creates a CompileError that does not know its source yet.
// WithPattern attaches it once the error reaches the root compiler.
func Compilef(format string, args ...any) *CompileError {
	return &CompileError{Msg: fmt.Sprintf(format, args...)}
}

// WithPattern returns err with the pattern source attached if err is a
// CompileError or ParseError that is still missing it. Other errors are returned as is.
func WithPattern(err error, pattern string) error {
	var ce *CompileError
	if errors.As(err, &ce) && ce.Pattern == "" {
		ce.Pattern = pattern
		return err
	}
	var pe *ParseError
	if errors.As(err, &pe) && pe.Pattern == "" {
		pe.Pattern = pattern
	}
	return err
}

// ExpandError reports a value set that no expansion of the pattern accepts.
type ExpandError struct {
	Pattern string
	Msg     string
}

func (e *ExpandError) Error() string {
	if e.Pattern == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s (pattern %s)", e.Msg, strconv.Quote(e.Pattern))
}
