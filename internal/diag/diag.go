// Package diag provides the warning/diagnostic sink used by the assembler
// driver. Fatal problems travel as ordinary Go errors; this package is only
// for the non-fatal events the driver needs to report without coupling it
// to any particular output stream.
package diag

import (
	"fmt"
	"os"
)

// Position anchors a diagnostic to a line of source.
type Position struct {
	Line int
	Text string
}

func (p Position) String() string {
	return fmt.Sprintf("line %d", p.Line)
}

// Warning is a single non-fatal event raised during assembly: an address
// regression, a NOP substitution, or an overlapping write.
type Warning struct {
	Pos     Position
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Pos.Line, w.Message)
}

// EventSink receives warnings as they are produced. It is injected into the
// driver so callers (and tests) can decide what happens to them instead of
// the driver writing to stderr directly.
type EventSink interface {
	Warn(pos Position, format string, args ...any)
}

// StdSink writes every warning to the given writer (typically os.Stderr),
// formatted the way the original assembler's "### " warnings read.
type StdSink struct {
	File *os.File
}

// NewStdSink returns a StdSink that writes to os.Stderr.
func NewStdSink() *StdSink {
	return &StdSink{File: os.Stderr}
}

func (s *StdSink) Warn(pos Position, format string, args ...any) {
	fmt.Fprintf(s.File, "### warning at %s: %s\n", pos, fmt.Sprintf(format, args...))
}

// CollectingSink accumulates warnings in memory instead of writing them
// anywhere, so tests can assert on exactly what was emitted.
type CollectingSink struct {
	Warnings []Warning
}

func (s *CollectingSink) Warn(pos Position, format string, args ...any) {
	s.Warnings = append(s.Warnings, Warning{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// NopSink discards every warning. Useful as a default when the caller does
// not care about diagnostics.
type NopSink struct{}

func (NopSink) Warn(Position, string, ...any) {}
