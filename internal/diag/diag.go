// Package diag implements the two-severity diagnostics log shared by every
// compilation phase: lexer, parser, compiler, and validator.
package diag

import "fmt"

// Pos is a one-based source location.
type Pos struct {
	Line   int
	Column int
}

// Span covers a half-open range of source text, [Start, End), plus the
// filename it was taken from.
type Span struct {
	Filename string
	Start    Pos
	End      Pos
}

func (s Span) String() string {
	if s.Start == s.End {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Start.Line, s.Start.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.Filename, s.Start.Line, s.Start.Column)
}

// Severity distinguishes errors (which fail the pipeline) from info notes
// (which annotate the preceding error with a related location).
type Severity int

const (
	SeverityError Severity = iota
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category groups diagnostics by the phase/kind of check that raised them.
type Category int

const (
	CategoryLexical Category = iota
	CategorySyntactic
	CategoryResolution
	CategoryBinding
	CategorySemantic
	CategoryIO
)

// Diagnostic is a single error or info note.
type Diagnostic struct {
	Severity Severity
	Category Category
	Message  string
	Span     Span
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
}

// Log accumulates diagnostics across a phase. An info diagnostic is expected
// to immediately follow the error it annotates.
type Log struct {
	diags []*Diagnostic
}

func (l *Log) Error(cat Category, span Span, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Severity: SeverityError,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
	l.diags = append(l.diags, d)
	return d
}

func (l *Log) Info(cat Category, span Span, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Severity: SeverityInfo,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
	l.diags = append(l.diags, d)
	return d
}

// Add appends a diagnostic already constructed elsewhere (e.g. a sentinel
// error value returned from a parsing routine).
func (l *Log) Add(d *Diagnostic) {
	l.diags = append(l.diags, d)
}

// Diagnostics returns every diagnostic logged so far, in emission order.
func (l *Log) Diagnostics() []*Diagnostic {
	return l.diags
}

// HasErrors reports whether any SeverityError diagnostic has been logged.
func (l *Log) HasErrors() bool {
	for _, d := range l.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of SeverityError diagnostics logged.
func (l *Log) ErrorCount() int {
	n := 0
	for _, d := range l.diags {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Merge appends every diagnostic from other onto l, preserving order.
func (l *Log) Merge(other *Log) {
	if other == nil {
		return
	}
	l.diags = append(l.diags, other.diags...)
}
