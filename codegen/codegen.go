// Package codegen implements the code generators shared by every
// architecture: the ORG pseudo-op, and the DB/DW/DD (byte/word/long) data
// statements. Architecture back ends mix these into their own opcode
// tables.
package codegen

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/dbcorti/palmasm/arg"
	"github.com/dbcorti/palmasm/asmctx"
	"github.com/dbcorti/palmasm/numlit"
)

var labelRE = regexp.MustCompile(`^[_a-zA-Z]\w*$`)

var commonOpts = arg.Options{RegisterPrefixes: nil, FractionalCrements: false}

// Generators returns the opcode table for the pseudo-ops every
// architecture shares: org/.org, and db/.db/byte, dw/.dw/word, dd/.dd/long.
// Architectures with a different natural byte order or that skip alignment
// should not mix this map in wholesale; build bespoke data generators with
// dataGenerator instead.
func Generators() map[string]asmctx.CodegenFunc {
	dataByte := dataGenerator(1, false, true)
	dataWord := dataGenerator(2, false, true)
	dataLong := dataGenerator(4, false, true)

	return map[string]asmctx.CodegenFunc{
		"org":  codegenOrg,
		".org": codegenOrg,

		"db":   dataByte,
		".db":  dataByte,
		"byte": dataByte,

		"dw":  dataWord,
		".dw": dataWord,
		"word": dataWord,

		"dd":   dataLong,
		".dd":  dataLong,
		"long": dataLong,
	}
}

// EncodeASCII is the plain-ASCII string encoder most architectures use.
func EncodeASCII(s string) ([]byte, error) {
	for _, r := range s {
		if r > 127 {
			return nil, fmt.Errorf("character %q is not representable in ASCII", r)
		}
	}
	return []byte(s), nil
}

func codegenOrg(ctx *asmctx.Context, op *asmctx.Op) error {
	args, err := asmctx.ParseArgsIfAble(ctx, op, commonOpts, arg.Address)
	if err != nil {
		return err
	}
	op.Args = args
	if arg.AllResolved(args) {
		op.Hex = ""
		op.Step = asmctx.StepDone
		ctx.SetPos(int(args[0].Integer))
	}
	return nil
}

// dataGenerator builds a code generator for a data statement (db/dw/dd)
// with the given element size (in bytes), byte order, and whether the
// output should be padded to align to a multiple of elementSize.
func dataGenerator(elementSize int, littleEndian bool, align bool) asmctx.CodegenFunc {
	return func(ctx *asmctx.Context, op *asmctx.Op) error {
		var hexParts []string
		allHexOK := true

		if align && elementSize != 1 {
			if !ctx.PosKnown() {
				return fmt.Errorf("unresolved labels above this line (or other factors) make it " +
					"impossible to know how to align this data statement; consider " +
					"an ORG statement to make this data's memory location explicit")
			}
			pad := (elementSize - (*ctx.Pos)%elementSize) % elementSize
			hexParts = append(hexParts, strings.Repeat("00", pad))
		}

		for _, a := range op.Args {
			if strings.HasPrefix(a.Stripped, `"`) || strings.HasPrefix(a.Stripped, "'") {
				data, err := numlit.ParseString(a.Stripped, ctx.EncodeStr)
				if err != nil {
					return err
				}
				for _, b := range data {
					hexParts = append(hexParts, encodeHex(int64(b), elementSize, littleEndian))
				}
				continue
			}

			var val int64
			if labelRE.MatchString(a.Stripped) {
				v, ok := ctx.Label(a.Stripped)
				if ok {
					val = int64(v)
				} else {
					allHexOK = false
				}
			} else {
				v, err := numlit.ParseInteger(a.Stripped, ctx.EncodeStr)
				if err != nil {
					return err
				}
				val = v
			}
			hexParts = append(hexParts, encodeHex(val, elementSize, littleEndian))
		}

		op.Hex = strings.Join(hexParts, "")
		if allHexOK {
			op.Step = asmctx.StepDone
		}
		ctx.AdvanceHex(op.Hex)
		return nil
	}
}

func encodeHex(val int64, size int, littleEndian bool) string {
	b := make([]byte, size)
	u := uint64(val)
	for i := 0; i < size; i++ {
		shift := 8 * i
		if littleEndian {
			b[i] = byte(u >> shift)
		} else {
			b[size-1-i] = byte(u >> shift)
		}
	}
	return strings.ToUpper(hex.EncodeToString(b))
}
