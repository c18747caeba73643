// Package formatter renders pattern errors, match results and pattern
// details for terminals.
package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnolang/pathpat"
)

const tabWidth = 8

// diagnostic kinds
const (
	ParseErrorKind   = "parse-error"
	CompileErrorKind = "compile-error"
	ExpandErrorKind  = "expand-error"
	GeneralErrorKind = "error"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	valueStyle   = color.New(color.FgGreen, color.Bold)
)

// diagnosticFormatter is implemented by the renderers of each error kind.
type diagnosticFormatter interface {
	DiagnosticTemplate() string
}

// pointFormatter points at a single offending character.
type pointFormatter struct{}

func (f *pointFormatter) DiagnosticTemplate() string {
	return `{{header .Kind .Label .Column}}
{{snippet .Source .Padding}}
{{caret .Source .Pos .Padding}}
{{message .Message .Padding}}
`
}

// spanFormatter underlines the whole pattern.
type spanFormatter struct{}

func (f *spanFormatter) DiagnosticTemplate() string {
	return `{{header .Kind .Label 0}}
{{snippet .Source .Padding}}
{{underline .Source .Padding}}
{{message .Message .Padding}}
`
}

// generalFormatter is used when the error carries no pattern.
type generalFormatter struct{}

func (f *generalFormatter) DiagnosticTemplate() string {
	return `{{header .Kind .Label 0}}
{{message .Message .Padding}}
`
}

type DiagnosticData struct {
	Kind    string
	Label   string
	Source  string
	Pos     int
	Column  int
	Message string
	Padding string
}

// diagnose extracts what the templates show from err.
func diagnose(label string, err error) (DiagnosticData, diagnosticFormatter) {
	data := DiagnosticData{Kind: GeneralErrorKind, Label: label, Message: err.Error(), Padding: "  "}

	var (
		pe *pathpat.ParseError
		ce *pathpat.CompileError
		ee *pathpat.ExpandError
	)
	switch {
	case errors.As(err, &pe):
		data.Kind = ParseErrorKind
		data.Source = pe.Pattern
		data.Pos = pe.Pos
		data.Column = pe.Pos + 1
		data.Message = pe.Msg
		return data, &pointFormatter{}
	case errors.As(err, &ce):
		data.Kind = CompileErrorKind
		data.Message = ce.Msg
		if ce.Pattern == "" {
			return data, &generalFormatter{}
		}
		data.Source = ce.Pattern
		return data, &spanFormatter{}
	case errors.As(err, &ee):
		data.Kind = ExpandErrorKind
		data.Message = ee.Msg
		if ee.Pattern == "" {
			return data, &generalFormatter{}
		}
		data.Source = ee.Pattern
		return data, &spanFormatter{}
	}
	return data, &generalFormatter{}
}

// Diagnostic renders err like a compiler message, pointing into the pattern
// when err carries one. label names where the pattern came from, such as a
// dialect or a file, and may be empty.
func Diagnostic(label string, err error) string {
	data, f := diagnose(label, err)

	funcMap := template.FuncMap{
		"header":    header,
		"snippet":   snippet,
		"caret":     caret,
		"underline": underline,
		"message":   message,
	}
	tmpl := template.Must(template.New("diagnostic").Funcs(funcMap).Parse(f.DiagnosticTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting diagnostic: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(kind, label string, column int) string {
	s := errorStyle.Sprint("error: ") + ruleStyle.Sprint(kind)
	switch {
	case label == "":
	case column > 0:
		s += "\n" + lineStyle.Sprint(" --> ") + fileStyle.Sprintf("%s:1:%d", label, column)
	default:
		s += "\n" + lineStyle.Sprint(" --> ") + fileStyle.Sprint(label)
	}
	return s
}

func snippet(source, padding string) string {
	return lineStyle.Sprintf("%s|\n", padding) + lineStyle.Sprintf("%*d | ", len(padding)-1, 1) + source
}

func caret(source string, pos int, padding string) string {
	col := calculateVisualColumn(source, pos+1)
	return lineStyle.Sprintf("%s| ", padding) + strings.Repeat(" ", col) + messageStyle.Sprint("^")
}

func underline(source, padding string) string {
	width := calculateVisualColumn(source, len(source)+1)
	if width == 0 {
		width = 1
	}
	return lineStyle.Sprintf("%s| ", padding) + messageStyle.Sprint(strings.Repeat("~", width))
}

func message(msg, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprint(msg)
}

// calculateVisualColumn calculates the visual column position
// in a string. taking into account tab characters.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}
