// Package driver runs the fixpoint assembly loop: it repeatedly lexes and
// generates code for every line of source until the set of lines still
// waiting on code generation stops shrinking, then emits a binary image
// and (optionally) a listing.
package driver

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dbcorti/palmasm/arch"
	"github.com/dbcorti/palmasm/asmctx"
	"github.com/dbcorti/palmasm/internal/diag"
	"github.com/dbcorti/palmasm/lexer"
)

// noAddr marks an entry in the pass loop's address table as not yet known.
// Addresses are never negative, so this is a safe sentinel.
const noAddr = -1

// Assemble reads source from src, generates code for ctx's architecture
// (switching architectures mid-file on CPU/ARCH pseudo-ops), and writes a
// binary image to out. If listing is non-nil, an annotated text listing is
// also written there. maxPasses caps the number of fixpoint iterations
// attempted before giving up with an error; pass 0 to use a generous
// default (len(ops)+2, enough for any file that only ever needs to resolve
// forward label references).
func Assemble(ctx *asmctx.Context, maxPasses int, src io.Reader, out io.Writer, listing io.Writer) error {
	ops, lines, err := lexer.Read(src)
	if err != nil {
		if dup, ok := err.(*lexer.DuplicateLabelError); ok {
			return newError(dup.LineNo, dup.Line, dup.Error())
		}
		return err
	}
	if len(ops) == 0 {
		return newError(-1, "<EOF>", "No code to compile in the input?")
	}

	if maxPasses <= 0 {
		maxPasses = len(ops) + 2
	}

	addrs := make([]int, len(ops))
	for i := range addrs {
		addrs[i] = noAddr
	}

	pending := -1 // unknown before the first pass, so the loop always runs at least twice
	passCount := 0
	var stillPending []*asmctx.Op

	for passCount = 1; passCount <= maxPasses; passCount++ {
		ctx.ResetPos(0)

		for i, op := range ops {
			if addrs[i] != noAddr {
				ctx.SetPos(addrs[i])
			} else if ctx.PosKnown() && op.Step != asmctx.StepLex {
				addrs[i] = *ctx.Pos
			}

			if op.Step == asmctx.StepDone {
				continue
			}

			if err := step(ctx, op); err != nil {
				return toLineError(op.LineNo, op.Line, err)
			}
			if len(op.Hex)%2 != 0 {
				return newError(op.LineNo, op.Line, "Extra nybble in generated hex.")
			}
		}

		stillPending = nil
		for _, op := range ops {
			if op.Step == asmctx.StepCodegen {
				stillPending = append(stillPending, op)
			}
		}
		if pending == len(stillPending) {
			break
		}
		pending = len(stillPending)
	}

	if len(stillPending) > 0 {
		var sb strings.Builder
		for _, op := range stillPending {
			fmt.Fprintf(&sb, "\n  %5d: %s", op.LineNo, op.Line)
		}
		return newError(ops[len(ops)-1].LineNo+1, "<EOF>", fmt.Sprintf(
			"After %d passes, %d statements still have unresolved labels or other "+
				"issues preventing full assembly. These statements are:%s\n", min(passCount, maxPasses), len(stillPending), sb.String()))
	}

	addrToOp, order := groupByAddr(addrs, ops, ctx)

	if err := emitBinary(ctx, out, addrToOp, order); err != nil {
		return err
	}
	if listing != nil {
		emitListing(listing, lines, addrToOp, order)
	}
	return nil
}

// step dispatches an op to its next processing stage.
func step(ctx *asmctx.Context, op *asmctx.Op) error {
	switch op.Step {
	case asmctx.StepLex:
		lexer.Lex(op)
		return nil
	case asmctx.StepCodegen:
		return codegenStep(ctx, op)
	default:
		return nil
	}
}

// codegenStep is the driver's equivalent of the original assembler's
// "asmpass_codegen": bind any labels attached to this line, handle the
// CPU/ARCH pseudo-opcodes directly, and otherwise hand off to the active
// architecture's opcode table. If the line's labels aren't all bound yet,
// or the output position still isn't known, the op is forced back to
// StepCodegen regardless of what the handler decided, so a later pass gets
// another chance.
func codegenStep(ctx *asmctx.Context, op *asmctx.Op) error {
	ctx.Line, ctx.SourceText = op.LineNo, op.Line

	for _, label := range op.Labels {
		ctx.BindLabel(label)
	}

	switch op.Opcode {
	case "cpu", ".cpu", "arch", ".arch":
		if len(op.Args) != 1 {
			return wrapInternal(fmt.Errorf("the %s pseudo-opcode takes one argument", strings.ToUpper(op.Opcode)))
		}
		op.Step = asmctx.StepDone
		name := op.Args[0].Stripped
		entry, ok := arch.Lookup(name)
		if !ok {
			return wrapInternal(arch.ErrUnknown(name))
		}
		ctx.SwitchArch(entry.Name, entry.Codegen(), entry.EncodeStr)
	default:
		gen, ok := ctx.Codegen[op.Opcode]
		if !ok {
			return wrapInternal(fmt.Errorf("opcode %q not recognised for architecture %s", op.Opcode, ctx.Arch))
		}
		if err := gen(ctx, op); err != nil {
			return err
		}
	}

	boundAll := true
	for _, label := range op.Labels {
		if _, ok := ctx.Label(label); !ok {
			boundAll = false
			break
		}
	}
	if !boundAll || !ctx.PosKnown() {
		op.Step = asmctx.StepCodegen
	}
	return nil
}

// groupByAddr builds a map from final output address to the op that writes
// there, warning (via ctx.Sink) whenever two distinct ops with actual hex
// data both claim the same address — the later one, in source order, wins.
func groupByAddr(addrs []int, ops []*asmctx.Op, ctx *asmctx.Context) (map[int]*asmctx.Op, []int) {
	addrToOp := map[int]*asmctx.Op{}
	var order []int
	for i, addr := range addrs {
		op := ops[i]
		if existing, ok := addrToOp[addr]; ok {
			if existing != op && existing.Hex != "" && op.Hex != "" {
				ctx.Sink.Warn(diag.Position{Line: op.LineNo, Text: op.Line},
					"at memory location $%X: replacing previously-generated code.\n"+
						"   old - %5d: %s\n   new - %5d: %s", addr, existing.LineNo, existing.Line, op.LineNo, op.Line)
			}
			addrToOp[addr] = op
			continue
		}
		addrToOp[addr] = op
		order = append(order, addr)
	}
	sort.Ints(order)
	return addrToOp, order
}

// emitBinary writes the assembled binary image, zero-filling any gap
// between consecutively-written ops. An op whose address falls behind how
// much has already been written (an overlapping ORG, usually) is skipped
// with a warning rather than written out of order.
func emitBinary(ctx *asmctx.Context, out io.Writer, addrToOp map[int]*asmctx.Op, order []int) error {
	pos := 0
	for _, addr := range order {
		op := addrToOp[addr]
		switch {
		case addr > pos:
			if _, err := out.Write(make([]byte, addr-pos)); err != nil {
				return err
			}
			pos = addr
		case addr < pos:
			ctx.Sink.Warn(diag.Position{Line: op.LineNo, Text: op.Line},
				"not writing this source code line to the binary output, since it wishes "+
					"to be written at memory location $%X, and $%X bytes have already been written", addr, pos)
			continue
		}
		if op.Hex == "" {
			continue
		}
		data, err := hex.DecodeString(op.Hex)
		if err != nil {
			return fmt.Errorf("line %d: malformed generated hex %q: %w", op.LineNo, op.Hex, err)
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
		pos += len(data)
	}
	return nil
}

// emitListing writes every source line annotated with the address and hex
// data (if any) generated from it, wrapping long hex runs onto continuation
// lines 16 nybbles at a time.
func emitListing(listing io.Writer, lines []string, addrToOp map[int]*asmctx.Op, order []int) {
	lineToAddr := make(map[int]int, len(order))
	for _, addr := range order {
		lineToAddr[addrToOp[addr].LineNo] = addr
	}

	maxHexLen := 0
	for _, addr := range order {
		if n := len(addrToOp[addr].Hex); n > maxHexLen {
			maxHexLen = n
		}
	}
	if maxHexLen > 16 {
		maxHexLen = 16
	}
	hexWidth := maxHexLen + (maxHexLen-1)/4
	if hexWidth < 0 {
		hexWidth = 0
	}

	addr := 0
	for lineno, line := range lines {
		hexdata := ""
		if a, ok := lineToAddr[lineno]; ok {
			addr = a
			op := addrToOp[a]
			hexRest := strings.ToUpper(op.Hex)
			var first string
			first, hexRest = splitHex(hexRest, 16)
			hexdata = spaceHex(first)
			fmt.Fprintf(listing, "%5d/%8X : %-*s  %s\n", lineno, addr, hexWidth, hexdata, line)

			for hexRest != "" {
				addr += 8
				first, hexRest = splitHex(hexRest, 16)
				hexdata = spaceHex(first)
				fmt.Fprintf(listing, "%5d/%8X : %-*s\n", lineno, addr, hexWidth, hexdata)
			}
			continue
		}
		fmt.Fprintf(listing, "%5d/%8X : %-*s  %s\n", lineno, addr, hexWidth, hexdata, line)
	}
}

func splitHex(s string, n int) (head, rest string) {
	if len(s) <= n {
		return s, ""
	}
	return s[:n], s[n:]
}

func spaceHex(h string) string {
	var sb strings.Builder
	for i := 0; i < len(h); i += 4 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		end := i + 4
		if end > len(h) {
			end = len(h)
		}
		sb.WriteString(h[i:end])
	}
	return sb.String()
}
