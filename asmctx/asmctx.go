// Package asmctx holds the assembler's per-pass mutable state (the current
// output position, the label table, and the active architecture's code
// generators) together with the Op type representing one line of source
// code as it moves through lexing and code generation.
package asmctx

import (
	"fmt"
	"strings"

	"github.com/dbcorti/palmasm/arg"
	"github.com/dbcorti/palmasm/internal/diag"
)

// Step names what should happen to an Op on its next visit by the driver.
// This is a closed, enumerable alternative to storing a continuation
// function directly on the Op: it makes pass accounting (how many ops are still waiting on code generation) a matter
// of counting enum values rather than comparing function pointers.
type Step int

const (
	// StepDone means the op requires no further processing.
	StepDone Step = iota
	// StepLex means the op's opcode/args still need to be split out of its
	// token list.
	StepLex
	// StepCodegen means the op is ready for (or waiting on) architecture
	// code generation.
	StepCodegen
)

func (s Step) String() string {
	switch s {
	case StepDone:
		return "done"
	case StepLex:
		return "lex"
	case StepCodegen:
		return "codegen"
	default:
		return "unknown"
	}
}

// Op represents a line of source code and its compiled result as it is
// carried through the fixpoint assembly loop.
type Op struct {
	LineNo int
	Line   string
	Tokens []string
	Labels []string

	Opcode string
	Args   []arg.Arg

	Hex  string
	Step Step
}

// NewUnresolvedArg builds the zero-knowledge Arg the lexer hands each
// argument token before any parsing has been attempted.
func NewUnresolvedArg(stripped string) arg.Arg {
	return arg.Arg{Stripped: stripped, Kind: arg.Unresolved}
}

// CodegenFunc generates (or attempts to generate) binary code for one Op.
// It is free to mutate ctx (advancing its position, binding labels) and op
// (setting Hex and/or clearing Step to StepDone) in place. A returned error
// is always a user-facing problem with the source code (the analog of
// Python ValueError in the original); it is never used for "try again
// later" — that's expressed by leaving op.Step at StepCodegen.
type CodegenFunc func(ctx *Context, op *Op) error

// Context is the assembler's mutable per-pass state.
type Context struct {
	Arch    string
	Codegen map[string]CodegenFunc

	labels    map[string]int
	encodeStr func(string) ([]byte, error)

	// Pos is the current output position, or nil if it is not currently
	// known. Every codegen function in this repository always leaves Pos
	// set once reached; the nil case is carried over from the original
	// implementation's defensive handling and is exercised by tests that
	// construct a Context directly with an unknown position.
	Pos *int

	// Sink receives non-fatal diagnostics (NOP substitutions, and the
	// like) raised by architecture code generators. Never nil.
	Sink diag.EventSink

	// Line and SourceText track the op currently being processed, kept in
	// sync by the driver, so code generators can anchor warnings without
	// threading an extra parameter through every CodegenFunc.
	Line       int
	SourceText string
}

// New creates a Context for the named architecture.
func New(archName string, codegen map[string]CodegenFunc, encodeStr func(string) ([]byte, error)) *Context {
	zero := 0
	return &Context{
		Arch:      archName,
		Codegen:   codegen,
		labels:    map[string]int{},
		encodeStr: encodeStr,
		Pos:       &zero,
		Sink:      diag.NopSink{},
	}
}

// Warnf reports a non-fatal diagnostic anchored to the op currently being
// processed.
func (c *Context) Warnf(format string, args ...any) {
	c.Sink.Warn(diag.Position{Line: c.Line, Text: c.SourceText}, format, args...)
}

// Label looks up a bound label's address.
func (c *Context) Label(name string) (int, bool) {
	v, ok := c.labels[name]
	return v, ok
}

// Labels exposes the full label table, for listing/debug tooling.
func (c *Context) Labels() map[string]int {
	return c.labels
}

// EncodeStr converts decoded string-literal text to architecture bytes.
func (c *Context) EncodeStr(s string) ([]byte, error) {
	return c.encodeStr(s)
}

// ResetPos resets the output position to p at the start of a pass.
func (c *Context) ResetPos(p int) {
	c.Pos = &p
}

// SetPos pins the output position to an address already known from a prior
// pass (an ORG statement or an op whose address was previously computed).
func (c *Context) SetPos(p int) {
	c.Pos = &p
}

// PosKnown reports whether the current output position is known.
func (c *Context) PosKnown() bool {
	return c.Pos != nil
}

// AdvanceHex advances the output position to accommodate a hex string of
// the given length (in nybbles).
func (c *Context) AdvanceHex(hex string) {
	if c.Pos == nil {
		return
	}
	v := *c.Pos + len(hex)/2
	c.Pos = &v
}

// AdvanceBytes advances the output position by n bytes.
func (c *Context) AdvanceBytes(n int) {
	if c.Pos == nil {
		return
	}
	v := *c.Pos + n
	c.Pos = &v
}

// BindLabel binds label to the current output position, if known.
func (c *Context) BindLabel(label string) {
	if c.Pos != nil {
		c.labels[label] = *c.Pos
	}
}

// SwitchArch replaces the active architecture's code generators and string
// encoder. The label table is left untouched: labels bound so far remain
// valid regardless of which architecture generates the code that follows.
func (c *Context) SwitchArch(name string, codegen map[string]CodegenFunc, encodeStr func(string) ([]byte, error)) {
	c.Arch = name
	c.Codegen = codegen
	c.encodeStr = encodeStr
}

// ParseArgsIfAble attempts to resolve every argument of op, checking that
// there are exactly as many arguments as kinds, and that each argument's
// kind overlaps the one required of it (a tentatively-typed-but-unresolved
// argument still satisfies this check; resolution status is orthogonal to
// type-correctness). It always returns a full slice of (possibly still
// unresolved) Args on success; use arg.AllResolved to check whether code
// generation can actually proceed.
func ParseArgsIfAble(ctx *Context, op *Op, opts arg.Options, kinds ...arg.Kind) ([]arg.Arg, error) {
	if len(op.Args) != len(kinds) {
		plural := "s"
		if len(kinds) == 1 {
			plural = ""
		}
		return nil, fmt.Errorf("%s takes exactly %d argument%s",
			strings.ToUpper(op.Opcode), len(kinds), plural)
	}

	resolved := make([]arg.Arg, len(op.Args))
	for i, a := range op.Args {
		r, err := arg.ResolveAgain(a, opts, ctx)
		if err != nil {
			return nil, err
		}
		resolved[i] = r
	}

	for i, k := range kinds {
		if resolved[i].Kind&k == 0 {
			return nil, fmt.Errorf("argument %d to %s must have type %v, not %v",
				i+1, strings.ToUpper(op.Opcode), k, resolved[i].Kind)
		}
	}

	return resolved, nil
}
