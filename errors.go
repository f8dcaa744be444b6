// errors.go — typed engine errors and user-facing snippet rendering.
//
// Two error families cover the whole pipeline:
//
//   - *ParseError: syntactic failures. The parser rejects programs whose
//     expression shapes cannot type-check (a numeric operator applied to a
//     boolean-shaped operand, and so on). Each carries a ParseErrKind, the
//     1-based line of the offending token and a message.
//   - *RuntimeError: semantic failures the parser cannot see, such as an
//     identifier reference whose bound value has the wrong tag, or a canvas
//     draw failure (carried as a wrapped cause).
//
// Enclosing constructs add context by wrapping with fmt.Errorf("...: %w"),
// so a failure deep inside a WHILE condition surfaces as a readable chain
// ending in the typed root cause; errors.As still reaches the root.
//
// WrapErrorWithSource renders lex and parse errors as a plain-text snippet
// with one line of context on either side and a marker under the offending
// line. Runtime errors pass through untouched — their chain already reads
// well on its own.
package rslogo

import (
	"errors"
	"fmt"
	"strings"
)

// ParseErrKind classifies syntactic failures.
type ParseErrKind int

const (
	ErrUnexpectedEnd    ParseErrKind = iota // token queue ran out mid-production
	ErrNonNumericExpr                       // numeric-shaped operand required
	ErrNonBooleanExpr                       // boolean-shaped operand required
	ErrIncorrectArgType                     // operand shape unacceptable for the construct
	ErrMissingBracket                       // expected [ or ] absent
	ErrBadAssignTarget                      // ADDASSIGN target is not an identifier
	ErrBadProcName                          // procedure name collides with a keyword
	ErrMissingProcEnd                       // TO body never terminated by END
	ErrUnknownProc                          // call site names an undeclared procedure
	ErrExtraArg                             // trailing token that no production governs
)

// ParseError is a syntactic error attributed to a source position. Line and
// Col are 1-based; both are 0 when the input ended unexpectedly, and Col may
// be 0 alone when no single token is to blame.
type ParseError struct {
	Kind ParseErrKind
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("[line %d]: %s", e.Line, e.Msg)
}

// RuntimeErrKind classifies evaluation failures.
type RuntimeErrKind int

const (
	ErrTypeMismatch     RuntimeErrKind = iota // value tag differs from the required tag
	ErrUnboundVariable                        // reference to a name with no binding
	ErrDrawLine                               // canvas failure while drawing a segment
	ErrPenColor                               // SETPENCOLOR argument not an integer in [0,15]
	ErrUnknownProcedure                       // call of a procedure with no stored body
)

// RuntimeError is a semantic error attributed to a source line. For
// ErrDrawLine the canvas failure is retained as the wrapped cause.
type RuntimeError struct {
	Kind  RuntimeErrKind
	Line  int
	Msg   string
	cause error
}

func (e *RuntimeError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("[line %d]: %s", e.Line, e.Msg)
}

func (e *RuntimeError) Unwrap() error { return e.cause }

// WrapErrorWithSource augments lex/parse errors with a snippet of the source
// around the offending line. Other errors are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	var le *LexError
	if errors.As(err, &le) {
		return fmt.Errorf("%s", snippet(src, "LEX ERROR", le.Line, le.Col, fmt.Sprintf("%q is not a valid token", le.Word)))
	}
	var pe *ParseError
	if errors.As(err, &pe) && pe.Line > 0 {
		return fmt.Errorf("%s\n%s", err.Error(), snippet(src, "PARSE ERROR", pe.Line, pe.Col, pe.Msg))
	}
	return err
}

// snippet builds the rendered block: header, up to one line of context before
// and after, and a marker row under the offending column. Positions are
// clamped so malformed ones never panic the renderer; a zero column falls
// back to the line's first non-space character.
func snippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	txt := lines[line-1]

	pad := col - 1
	if pad < 0 || pad > len(txt) {
		pad = len(txt) - len(strings.TrimLeft(txt, " \t"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at line %d: %s\n\n", header, line, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, txt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", pad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
