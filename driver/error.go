package driver

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Error reports a fatal assembly failure anchored to one line of source.
// Architecture-specific code generators need not construct this type
// themselves; they just return a plain error describing the problem, and
// the pass loop wraps it here with line/source context.
type Error struct {
	LineNo int
	Line   string
	Why    string
	cause  error
}

func newError(lineNo int, line, why string) *Error {
	return &Error{LineNo: lineNo, Line: line, Why: why}
}

func (e *Error) Error() string {
	why := strings.ReplaceAll(e.Why, "\n", "\n### ")
	return fmt.Sprintf("### Fatal error on line %d:\n###   %s\n### %s", e.LineNo, e.Line, why)
}

// Unwrap lets errors.Is/errors.As reach the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// internalErr marks an error as one of the driver's own invariant
// violations (bad argument counts on built-in pseudo-ops, an unrecognized
// opcode, a failed architecture switch) rather than something reported by
// an architecture code generator. It is wrapped one level deeper than a
// plain codegen error, mirroring how the original assembler let these
// cases escape as its own internal exception type rather than the
// ValueError code generators raise for ordinary user mistakes.
type internalErr struct {
	cause error
}

func (e *internalErr) Error() string { return e.cause.Error() }
func (e *internalErr) Unwrap() error { return e.cause }

func wrapInternal(err error) error {
	return &internalErr{cause: errors.WithStack(err)}
}

// toLineError converts an error returned mid-pass into a *Error anchored to
// op's line, preserving the distinction between a plain codegen error (a
// clean, single-level message) and an internalErr (reported with an extra
// "Internal error, sorry!" wrapper; the message shows only errors.Cause of
// it, and the stack trace pkg/errors attached stays reachable through
// Unwrap for debugging).
func toLineError(lineNo int, line string, err error) *Error {
	var ie *internalErr
	if errors.As(err, &ie) {
		return &Error{
			LineNo: lineNo,
			Line:   line,
			Why:    fmt.Sprintf("Internal error, sorry!\n  %s", errors.Cause(ie.cause)),
			cause:  ie,
		}
	}
	return &Error{LineNo: lineNo, Line: line, Why: err.Error(), cause: err}
}
