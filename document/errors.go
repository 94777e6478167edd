package document

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrSyntax indicates malformed YAML.
	ErrSyntax = errors.New("syntax error")

	// ErrSchema indicates missing, unknown or conflicting fields.
	ErrSchema = errors.New("schema error")

	// ErrReference indicates an input reference that does not resolve.
	ErrReference = errors.New("reference error")
)

// SourceError is a document error with source location information.
// Graph errors raised while building keep their ir kind through Err.
type SourceError struct {
	Message string
	Line    int
	Column  int
	Source  string // Original document (for context display)
	Err     error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Unwrap returns the underlying sentinel or graph error.
func (e *SourceError) Unwrap() error { return e.Err }

// FormatWithContext returns the error message with source context.
// Shows the problematic line with a caret pointing to the error location.
func (e *SourceError) FormatWithContext() string {
	if e.Source == "" || e.Line == 0 {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line < 1 || e.Line > len(lines) {
		return e.Error()
	}

	line := lines[e.Line-1]
	col := max(e.Column, 1)
	col = min(col, len(line)+1)

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", e.Line, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", e.Line, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))

	return sb.String()
}

// errorf creates a SourceError at a position.
func errorf(cause error, line, column int, format string, args ...any) *SourceError {
	return &SourceError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
		Err:     cause,
	}
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// syntaxError wraps a yaml decode error, keeping the line it reports.
func syntaxError(err error) *SourceError {
	e := &SourceError{Message: err.Error(), Err: errors.Join(ErrSyntax, err)}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		e.Line, _ = strconv.Atoi(m[1])
		e.Column = 1
	}
	return e
}
