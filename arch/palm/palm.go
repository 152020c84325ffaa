// Package palm implements code generation for the IBM PALM processor, the
// 16-bit CPU found in the IBM 5100, 5110, and 5120 personal computers. It
// has an orthogonal 16-register file and a compact, almost RISC-like
// instruction set (no hardware multiply, and an 8-bit ALU).
//
// Mnemonics here are not IBM's originals; they follow the naming chosen by
// reverse-engineers of the machine, which is also what the assembler this
// package is modeled on used.
package palm

import (
	"fmt"

	"github.com/dbcorti/palmasm/arg"
	"github.com/dbcorti/palmasm/asmctx"
	"github.com/dbcorti/palmasm/codegen"
)

// All PALM register symbols start with R.
var regOpts = arg.Options{RegisterPrefixes: []string{"r"}, FractionalCrements: false}

// MOVE and CALL additionally recognize the half-(in|de)crement sigils.
var moveOpts = arg.Options{RegisterPrefixes: []string{"r"}, FractionalCrements: true}

// Codegen returns the opcode table for PALM processors, mixed in with the
// architecture-agnostic org/db/dw/dd handlers.
func Codegen() map[string]asmctx.CodegenFunc {
	m := map[string]asmctx.CodegenFunc{
		"dec2":  codegenRegToReg(0, 0),
		"halt":  codegenHalt,
		"dec":   codegenRegToReg(0, 1),
		"inc":   codegenRegToReg(0, 2),
		"inc2":  codegenRegToReg(0, 3),
		"move":  codegenMove,
		"nop":   codegenNop,
		"and":   codegenRegToReg(0, 5),
		"or":    codegenRegToReg(0, 6),
		"xor":   codegenRegToReg(0, 7),
		"add":   codegenAddOrSub("add"),
		"sub":   codegenAddOrSub("sub"),
		"addh":  codegenRegToReg(0, 0xA),
		"addh2": codegenRegToReg(0, 0xB),
		"mhl":   codegenRegToReg(0, 0xC),
		"mlh":   codegenRegToReg(0, 0xD),
		"getb":  codegenGetb,
		"getadd": codegenDevToReg(0),
		"ctrl":  codegenCtrl,
		"putb":  codegenPutb,
		"movb":  codegenMovb,
		"lbi":   codegenImmedToReg(8),
		"clr":   codegenImmedToReg(9),
		"set":   codegenImmedToReg(0xB),
		"sle":   codegenRegToReg(0xC, 0),
		"slt":   codegenRegToReg(0xC, 1),
		"se":    codegenRegToReg(0xC, 2),
		"sz":    codegenOneReg(0xC, 3, 0),
		"ss":    codegenOneReg(0xC, 4, 0),
		"sbs":   codegenRegToReg(0xC, 5),
		"sbc":   codegenRegToReg(0xC, 6),
		"sbsh":  codegenRegToReg(0xC, 7),
		"sgt":   codegenRegToReg(0xC, 8),
		"sge":   codegenRegToReg(0xC, 9),
		"sne":   codegenRegToReg(0xC, 0xA),
		"snz":   codegenOneReg(0xC, 0xB, 0),
		"sns":   codegenOneReg(0xC, 0xC, 0),
		"snbs":  codegenRegToReg(0xC, 0xD),
		// snbc and snbsh share this exact encoding in the original
		// reverse-engineered opcode table. Not a typo here; preserved as-is.
		"snbc":  codegenRegToReg(0xC, 0xE),
		"snbsh": codegenRegToReg(0xC, 0xE),
		"lwi":   codegenLwi,
		"shr":   codegenOneReg(0xE, 0xC, 1),
		"ror":   codegenOneReg(0xE, 0xD, 1),
		"ror3":  codegenOneReg(0xE, 0xE, 1),
		"swap":  codegenOneReg(0xE, 0xF, 1),
		"stat":  codegenDevToReg(0xE),
		"bra":   codegenBra,
		"ret":   codegenOneReg(0, 4, 1), // cheeky: RET is a one-register instruction
		"jmp":   codegenJmp,
		"call":  codegenCall,
		"rcall": codegenRcall,
	}
	for k, v := range codegen.Generators() {
		m[k] = v
	}
	return m
}

// --- argument checkers ---

func regcheck(args ...arg.Arg) error {
	for _, a := range args {
		if !(0 <= a.Integer && a.Integer <= 15) {
			return fmt.Errorf("invalid register %q", a.Stripped)
		}
	}
	return nil
}

func devcheck(args ...arg.Arg) error {
	for _, a := range args {
		if !(0 <= a.Integer && a.Integer <= 15) {
			return fmt.Errorf("invalid device address %q (%d)", a.Stripped, a.Integer)
		}
	}
	return nil
}

func bytecheck(args ...arg.Arg) error {
	for _, a := range args {
		if !(-128 <= a.Integer && a.Integer <= 255) {
			return fmt.Errorf("byte literal %q (%d) not in range -128..255", a.Stripped, a.Integer)
		}
	}
	return nil
}

func regderefcheck(a arg.Arg, postFrom, postTo float64) error {
	if !(0 <= a.Integer && a.Integer <= 15) {
		return fmt.Errorf("invalid register in dereference %q", a.Stripped)
	}
	if a.Precrement != 0 {
		return fmt.Errorf("no IBM PALM instruction supports address pre-(in/de)crementation")
	}
	if !(postFrom <= a.Postcrement && a.Postcrement <= postTo) {
		return fmt.Errorf("invalid post-(in|de)crement in %q; valid range is %v..%v", a.Stripped, postFrom, postTo)
	}
	return nil
}

func addrcheck(args ...arg.Arg) error {
	for _, a := range args {
		if !(0 <= a.Integer && a.Integer <= 65535) {
			return fmt.Errorf("invalid memory address %q ($%X); valid range is $0..$FFFF", a.Stripped, a.Integer)
		}
	}
	return nil
}

func lowwordaddrcheck(args ...arg.Arg) error {
	for _, a := range args {
		if a.Integer%2 != 0 {
			return fmt.Errorf("low word address %q ($%X) is not 16-bit aligned (even)", a.Stripped, a.Integer)
		}
		if !(0 <= a.Integer && a.Integer <= 510) {
			return fmt.Errorf("low word address %q ($%X) is not in range 0..510", a.Stripped, a.Integer)
		}
	}
	return nil
}

func jmpdestcheck(args ...arg.Arg) error {
	if err := addrcheck(args...); err != nil {
		return err
	}
	for _, a := range args {
		if a.Integer%2 != 0 {
			return fmt.Errorf("invalid jump address %q ($%X); must be 16-bit aligned", a.Stripped, a.Integer)
		}
	}
	return nil
}

// callregcheck verifies two registers used by a subroutine-call
// instruction are distinct. It checks them with addrcheck, not regcheck —
// that's what the original reverse-engineered assembler does (register
// numbers 0..15 always satisfy the 0..65535 address range, so this check
// is vacuous in practice). Preserved as-is rather than "fixed."
func callregcheck(a1, a2 arg.Arg) error {
	if err := addrcheck(a1, a2); err != nil {
		return err
	}
	if a1.Integer == a2.Integer {
		return fmt.Errorf("arguments to subroutine call instructions must use different registers")
	}
	return nil
}

// --- other helpers ---

// reljmpoffset calculates the program-counter displacement for a relative
// jump. The caller must already know ctx.Pos.
func reljmpoffset(ctx *asmctx.Context, a arg.Arg) (int64, error) {
	trueDisplacement := a.Integer - int64(*ctx.Pos)
	if !(-254 <= trueDisplacement && trueDisplacement <= 258) {
		return 0, fmt.Errorf("invalid relative jump %q ($%X); limits are -254..258", a.Stripped, a.Integer)
	}
	// As the current instruction runs, the address stored in R0 (the
	// program counter) is 2 + the address of the currently-running
	// instruction; that's what the -2 below accounts for.
	return trueDisplacement - 2, nil
}

var postcrementModifiers = [9]int64{7, 6, 5, 4, 8, 0, 1, 2, 3}

func postcrementToModifier(postcrement float64) int64 {
	return postcrementModifiers[int64(postcrement)+4]
}

// pymod replicates Python's % operator, which always returns a
// non-negative result for a positive modulus.
func pymod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// --- code generators and generator generators ---

func codegenOneReg(nybble1, nybble2, argpos int64) asmctx.CodegenFunc {
	return func(ctx *asmctx.Context, op *asmctx.Op) error {
		args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Register)
		if err != nil {
			return err
		}
		op.Args = args
		if arg.AllResolved(args) {
			if err := regcheck(args[0]); err != nil {
				return err
			}
			reg := args[0].Integer
			var s string
			if argpos == 0 {
				s = fmt.Sprintf("%X%X0%X", nybble1, reg, nybble2)
			} else {
				s = fmt.Sprintf("%X0%X%X", nybble1, reg, nybble2)
			}
			op.Hex = s
			op.Step = asmctx.StepDone
		}
		ctx.AdvanceBytes(2)
		return nil
	}
}

func codegenRegToReg(nybble1, nybble2 int64) asmctx.CodegenFunc {
	return func(ctx *asmctx.Context, op *asmctx.Op) error {
		args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Register, arg.Register)
		if err != nil {
			return err
		}
		op.Args = args
		if arg.AllResolved(args) {
			if err := regcheck(args...); err != nil {
				return err
			}
			op.Hex = fmt.Sprintf("%X%X%X%X", nybble1, args[0].Integer, args[1].Integer, nybble2)
			op.Step = asmctx.StepDone
		}
		ctx.AdvanceBytes(2)
		return nil
	}
}

func codegenDevToReg(nybble int64) asmctx.CodegenFunc {
	return func(ctx *asmctx.Context, op *asmctx.Op) error {
		args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Register, arg.Address)
		if err != nil {
			return err
		}
		op.Args = args
		if arg.AllResolved(args) {
			if err := regcheck(args[0]); err != nil {
				return err
			}
			if err := devcheck(args[1]); err != nil {
				return err
			}
			op.Hex = fmt.Sprintf("%X%X%XF", nybble, args[0].Integer, args[1].Integer)
			op.Step = asmctx.StepDone
		}
		ctx.AdvanceBytes(2)
		return nil
	}
}

func codegenImmedToReg(nybble int64) asmctx.CodegenFunc {
	return func(ctx *asmctx.Context, op *asmctx.Op) error {
		args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Register, arg.Number)
		if err != nil {
			return err
		}
		op.Args = args
		if arg.AllResolved(args) {
			if err := regcheck(args[0]); err != nil {
				return err
			}
			if err := bytecheck(args[1]); err != nil {
				return err
			}
			op.Hex = fmt.Sprintf("%X%X%02X", nybble, args[0].Integer, pymod(args[1].Integer, 256))
			op.Step = asmctx.StepDone
		}
		ctx.AdvanceBytes(2)
		return nil
	}
}

func codegenAddOrSub(addOrSub string) asmctx.CodegenFunc {
	return func(ctx *asmctx.Context, op *asmctx.Op) error {
		args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Register, arg.Number|arg.Register)
		if err != nil {
			return err
		}
		op.Args = args
		if arg.AllResolved(args) {
			if err := regcheck(args[0]); err != nil {
				return err
			}
			if args[1].Kind.Has(arg.Number) {
				lit := args[1].Integer
				if !(0 <= lit && lit <= 256) {
					return fmt.Errorf("literal %q not in range 0..256", args[1].Stripped)
				} else if lit == 0 {
					ctx.Warnf("a #0 literal argument to %s is not supported by the %s "+
						"instruction; generating a NOP (MOVE R0, R0) instead",
						opUpper(op), opUpper(op))
					op.Hex = "0004"
				} else {
					nybble := int64(0xA)
					if addOrSub != "add" {
						nybble = 0xF
					}
					op.Hex = fmt.Sprintf("%X%X%02X", nybble, args[0].Integer, pymod(lit-1, 256))
				}
			} else {
				if err := regcheck(args[1]); err != nil {
					return err
				}
				last := int64(8)
				if addOrSub != "add" {
					last = 9
				}
				op.Hex = fmt.Sprintf("0%X%X%X", args[0].Integer, args[1].Integer, last)
			}
			op.Step = asmctx.StepDone
		}
		ctx.AdvanceBytes(2)
		return nil
	}
}

func opUpper(op *asmctx.Op) string {
	b := []byte(op.Opcode)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func codegenCtrl(ctx *asmctx.Context, op *asmctx.Op) error {
	args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Address, arg.Number)
	if err != nil {
		return err
	}
	op.Args = args
	if arg.AllResolved(args) {
		if err := devcheck(args[0]); err != nil {
			return err
		}
		if err := bytecheck(args[1]); err != nil {
			return err
		}
		op.Hex = fmt.Sprintf("1%X%02X", args[0].Integer, pymod(args[1].Integer, 256))
		op.Step = asmctx.StepDone
	}
	ctx.AdvanceBytes(2)
	return nil
}

func codegenPutb(ctx *asmctx.Context, op *asmctx.Op) error {
	args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Address, arg.DerefRegister)
	if err != nil {
		return err
	}
	op.Args = args
	if arg.AllResolved(args) {
		if err := devcheck(args[0]); err != nil {
			return err
		}
		if err := regderefcheck(args[1], -4, 4); err != nil {
			return err
		}
		modifier := postcrementToModifier(args[1].Postcrement)
		op.Hex = fmt.Sprintf("4%X%X%X", args[0].Integer, args[1].Integer, modifier)
		op.Step = asmctx.StepDone
	}
	ctx.AdvanceBytes(2)
	return nil
}

func codegenGetb(ctx *asmctx.Context, op *asmctx.Op) error {
	args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Register|arg.DerefRegister, arg.Address)
	if err != nil {
		return err
	}
	op.Args = args
	if arg.AllResolved(args) {
		if err := devcheck(args[1]); err != nil {
			return err
		}
		if args[0].Kind.Has(arg.Register) {
			if err := regcheck(args[0]); err != nil {
				return err
			}
			op.Hex = fmt.Sprintf("0%X%XE", args[1].Integer, args[0].Integer)
		} else {
			if err := regderefcheck(args[0], -4, 4); err != nil {
				return err
			}
			modifier := postcrementToModifier(args[0].Postcrement)
			op.Hex = fmt.Sprintf("E%X%X%X", args[1].Integer, args[0].Integer, modifier)
		}
		op.Step = asmctx.StepDone
	}
	ctx.AdvanceBytes(2)
	return nil
}

func codegenMovb(ctx *asmctx.Context, op *asmctx.Op) error {
	args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts,
		arg.Register|arg.DerefRegister, arg.Register|arg.DerefRegister)
	if err != nil {
		return err
	}
	if args[0].Kind == args[1].Kind {
		return fmt.Errorf("one MOVB argument should be a register, and the other should be a register dereference")
	}
	op.Args = args
	if arg.AllResolved(args) {
		var nybble int64
		var argderef, argreg arg.Arg
		if args[0].Kind.Has(arg.Register) {
			nybble, argderef, argreg = 6, args[1], args[0]
		} else {
			nybble, argderef, argreg = 7, args[0], args[1]
		}
		if err := regcheck(argreg); err != nil {
			return err
		}
		if err := regderefcheck(argderef, -4, 4); err != nil {
			return err
		}
		modifier := postcrementToModifier(argderef.Postcrement)
		op.Hex = fmt.Sprintf("%X%X%X%X", nybble, argreg.Integer, argderef.Integer, modifier)
		op.Step = asmctx.StepDone
	}
	ctx.AdvanceBytes(2)
	return nil
}

func codegenMove(ctx *asmctx.Context, op *asmctx.Op) error {
	wantKind := arg.Address | arg.Register | arg.DerefRegister
	args, err := asmctx.ParseArgsIfAble(ctx, op, moveOpts, wantKind, wantKind)
	if err != nil {
		return err
	}
	op.Args = args
	if arg.AllResolved(args) {
		anyRegister := args[0].Kind.Has(arg.Register) || args[1].Kind.Has(arg.Register)
		if !anyRegister {
			return fmt.Errorf("at least one argument to MOVE must be a register")
		}

		switch {
		case args[0].Kind == arg.Register && args[1].Kind == arg.Register:
			if err := regcheck(args...); err != nil {
				return err
			}
			op.Hex = fmt.Sprintf("0%X%X4", args[0].Integer, args[1].Integer)

		case args[0].Kind == arg.Address || args[1].Kind == arg.Address:
			var nybble int64
			var argaddr, argreg arg.Arg
			if args[0].Kind.Has(arg.Register) {
				nybble, argaddr, argreg = 2, args[1], args[0]
			} else {
				nybble, argaddr, argreg = 3, args[0], args[1]
			}
			if err := regcheck(argreg); err != nil {
				return err
			}
			if err := lowwordaddrcheck(argaddr); err != nil {
				return err
			}
			op.Hex = fmt.Sprintf("%X%X%02X", nybble, argreg.Integer, argaddr.Integer/2)

		default:
			var nybble int64
			var argderef, argreg arg.Arg
			if args[0].Kind.Has(arg.DerefRegister) {
				nybble, argderef, argreg = 5, args[0], args[1]
			} else {
				nybble, argderef, argreg = 0xD, args[1], args[0]
			}
			if err := regcheck(argreg); err != nil {
				return err
			}
			if err := regderefcheck(argderef, -2, 2); err != nil {
				return err
			}
			modifier := postcrementToModifier(2 * argderef.Postcrement)
			op.Hex = fmt.Sprintf("%X%X%X%X", nybble, args[1].Integer, args[0].Integer, modifier)
		}
		op.Step = asmctx.StepDone
	}
	ctx.AdvanceBytes(2)
	return nil
}

func codegenHalt(ctx *asmctx.Context, op *asmctx.Op) error {
	args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts)
	if err != nil {
		return err
	}
	op.Args = args
	op.Hex = "0000"
	op.Step = asmctx.StepDone
	ctx.AdvanceHex(op.Hex)
	return nil
}

func codegenNop(ctx *asmctx.Context, op *asmctx.Op) error {
	args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts)
	if err != nil {
		return err
	}
	op.Args = args
	op.Hex = "0004"
	op.Step = asmctx.StepDone
	ctx.AdvanceHex(op.Hex)
	return nil
}

func codegenLwi(ctx *asmctx.Context, op *asmctx.Op) error {
	args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Register, arg.Number)
	if err != nil {
		return err
	}
	op.Args = args
	if arg.AllResolved(args) {
		if err := regcheck(args[0]); err != nil {
			return err
		}
		if !(-32768 <= args[1].Integer && args[1].Integer <= 65535) {
			return fmt.Errorf("halfword literal %q not in range -32768..65535", args[1].Stripped)
		}
		op.Hex = fmt.Sprintf("D%X01%04X", args[0].Integer, pymod(args[1].Integer, 65536))
		op.Step = asmctx.StepDone
	}
	ctx.AdvanceBytes(4)
	return nil
}

func codegenBra(ctx *asmctx.Context, op *asmctx.Op) error {
	args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Address)
	if err != nil {
		return err
	}
	op.Args = args
	if arg.AllResolved(args) && ctx.PosKnown() {
		if err := jmpdestcheck(args[0]); err != nil {
			return err
		}
		offset, err := reljmpoffset(ctx, args[0])
		if err != nil {
			return err
		}
		if offset == 0 {
			ctx.Warnf("a BRA of +2 bytes (so, an ordinary PC increment) is not " +
				"supported by the usual relative jump techniques; generating a NOP " +
				"(MOVE R0, R0) instead")
			op.Hex = "0004"
		} else {
			nybble, mag := int64(0xA), offset-1
			if offset < 0 {
				nybble, mag = 0xF, -offset-1
			}
			op.Hex = fmt.Sprintf("%X0%02X", nybble, mag)
		}
		op.Step = asmctx.StepDone
	}
	ctx.AdvanceBytes(2)
	return nil
}

func codegenJmp(ctx *asmctx.Context, op *asmctx.Op) error {
	wantKind := arg.Address | arg.DerefRegister | arg.DerefAddress
	args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, wantKind)
	if err != nil {
		return err
	}
	op.Args = args
	if !arg.AllResolved(args) {
		advance := 2
		if args[0].Kind.Has(arg.Address) {
			advance = 4
		}
		ctx.AdvanceBytes(advance)
		return nil
	}

	switch {
	case args[0].Kind.Has(arg.Address):
		if err := jmpdestcheck(args[0]); err != nil {
			return err
		}
		op.Hex = fmt.Sprintf("D001%04X", args[0].Integer)

	case args[0].Kind.Has(arg.DerefRegister):
		if err := regderefcheck(args[0], 0, 0); err != nil {
			return err
		}
		op.Hex = fmt.Sprintf("D0%X8", args[0].Integer)

	default:
		if err := lowwordaddrcheck(args[0]); err != nil {
			return err
		}
		op.Hex = fmt.Sprintf("20%02X", args[0].Integer/2)
	}
	op.Step = asmctx.StepDone
	ctx.AdvanceHex(op.Hex)
	return nil
}

func codegenCall(ctx *asmctx.Context, op *asmctx.Op) error {
	wantKind := arg.Address | arg.Register | arg.DerefRegister | arg.DerefAddress
	args, err := asmctx.ParseArgsIfAble(ctx, op, moveOpts, wantKind, arg.Register)
	if err != nil {
		return err
	}
	op.Args = args
	if !arg.AllResolved(args) {
		advance := 4
		if args[0].Kind.Has(arg.Address) {
			advance = 6
		}
		ctx.AdvanceBytes(advance)
		return nil
	}

	switch {
	case args[0].Kind.Has(arg.Address):
		// Calling an address literal. There is also a two-halfword way to do
		// this: use the RCALL pseudo-instruction.
		if err := jmpdestcheck(args[0]); err != nil {
			return err
		}
		if err := regcheck(args[1]); err != nil {
			return err
		}
		op.Hex = fmt.Sprintf("0%X03D0%X1%04X", args[1].Integer, args[1].Integer, args[0].Integer)

	case args[0].Kind.Has(arg.Register):
		if err := callregcheck(args[0], args[1]); err != nil {
			return err
		}
		op.Hex = fmt.Sprintf("0%X0300%X4", args[1].Integer, args[0].Integer)

	case args[0].Kind.Has(arg.DerefRegister):
		if err := callregcheck(args[0], args[1]); err != nil {
			return err
		}
		if err := regderefcheck(args[0], -2, 2); err != nil {
			return err
		}
		modifier := postcrementToModifier(2 * args[0].Postcrement)
		op.Hex = fmt.Sprintf("0%X03D0%X%X", args[1].Integer, args[0].Integer, modifier)

	default: // DerefAddress
		if err := regcheck(args[1]); err != nil {
			return err
		}
		if err := lowwordaddrcheck(args[0]); err != nil {
			return err
		}
		if args[0].Precrement != 0 || args[0].Postcrement != 0 {
			return fmt.Errorf("no (in/de)crementation is allowed for address dereference arguments to %s", opUpper(op))
		}
		op.Hex = fmt.Sprintf("0%X0320%02X", args[1].Integer, args[0].Integer/2)
	}
	op.Step = asmctx.StepDone
	ctx.AdvanceHex(op.Hex)
	return nil
}

func codegenRcall(ctx *asmctx.Context, op *asmctx.Op) error {
	args, err := asmctx.ParseArgsIfAble(ctx, op, regOpts, arg.Address, arg.Register)
	if err != nil {
		return err
	}
	op.Args = args
	if arg.AllResolved(args) && ctx.PosKnown() {
		if err := jmpdestcheck(args[0]); err != nil {
			return err
		}
		if err := regcheck(args[1]); err != nil {
			return err
		}
		offset, err := reljmpoffset(ctx, args[0])
		if err != nil {
			return err
		}
		if offset == 0 {
			ctx.Warnf("a +2-byte RCALL (so, an ordinary PC increment) is not " +
				"supported by the usual relative jump techniques; generating a NOP " +
				"(MOVE R0, R0) instead")
			op.Hex = fmt.Sprintf("0%X030004", args[1].Integer)
		} else {
			nybble, mag := int64(0xA), offset-1
			if offset < 0 {
				nybble, mag = 0xF, -offset-1
			}
			op.Hex = fmt.Sprintf("0%X03%X0%02X", args[1].Integer, nybble, mag)
		}
		op.Step = asmctx.StepDone
	}
	ctx.AdvanceBytes(4)
	return nil
}
