// Package ast holds the concrete syntax tree produced by the parser: lines,
// words, comments, expressions, and the diagnostics attached to them.
package ast

import "fmt"

// Location is a 1-based line/column pair identifying where a construct
// appeared in the source text.
type Location struct {
	Line   int
	Column int
}

// String returns the location in "line:column" form.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Equal returns whether the two locations refer to the same line/column.
func (l Location) Equal(o Location) bool {
	return l.Line == o.Line && l.Column == o.Column
}

// Severity classifies a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single syntax or semantic finding attached to a location in
// the source. Every diagnostic attached to a syntactically recognizable
// construct carries that construct's location; generic listener-origin
// diagnostics carry the offending token's line/column.
type Diagnostic struct {
	Severity Severity
	Message  string
	Loc      Location
}

// NewError builds an Error-severity Diagnostic at loc.
func NewError(loc Location, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: Error, Message: fmt.Sprintf(format, args...), Loc: loc}
}

// NewWarning builds a Warning-severity Diagnostic at loc.
func NewWarning(loc Location, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: Warning, Message: fmt.Sprintf(format, args...), Loc: loc}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s %s] %s", d.Severity, d.Loc, d.Message)
}

// Equal reports whether two diagnostics carry the same severity, message and
// location.
func (d Diagnostic) Equal(o Diagnostic) bool {
	return d.Severity == o.Severity && d.Message == o.Message && d.Loc.Equal(o.Loc)
}

// AnyErrors reports whether diags contains at least one Error-severity entry.
func AnyErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// ErrorsAtLine returns the subsequence of diags whose location line equals
// lineIndex and whose severity is Error.
func ErrorsAtLine(diags []Diagnostic, lineIndex int) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity == Error && d.Loc.Line == lineIndex {
			out = append(out, d)
		}
	}
	return out
}
