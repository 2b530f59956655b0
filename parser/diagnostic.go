package parser

import (
	"fmt"
	"strings"

	"github.com/sarchlab/iloc/instr"
)

// DiagnosticKind categorizes a parse diagnostic.
type DiagnosticKind int

// Diagnostic kinds.
const (
	Syntax  DiagnosticKind = iota // wrong token for the grammar position
	Lexical                       // the offending token is an ERROR token
	Literal                       // numeric literal out of range (strict mode only)
)

func (k DiagnosticKind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Lexical:
		return "lexical"
	case Literal:
		return "literal"
	default:
		return "unknown"
	}
}

// Diagnostic is one problem found while parsing, tied to a source line.
type Diagnostic struct {
	Line    int
	Kind    DiagnosticKind
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}

// ErrorList is the error form of a non-empty diagnostic list.
type ErrorList []Diagnostic

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, d := range l {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// Outcome is the result of parsing a whole source: the instructions that
// parsed, in order, and every diagnostic produced along the way.
type Outcome struct {
	Instructions instr.List
	Diagnostics  []Diagnostic
}

// OK reports whether every line parsed without a diagnostic.
func (o Outcome) OK() bool {
	return len(o.Diagnostics) == 0
}

// Err returns the diagnostics as an ErrorList, or nil when there are none.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return ErrorList(o.Diagnostics)
}
