// Package common registers the "common" architecture: the shared
// org/db/dw/dd pseudo-ops with no machine-specific opcodes at all, and a
// plain ASCII string encoder. Selecting it is mostly useful for assembling
// architecture-agnostic data tables, or as the assembler's startup
// architecture before a CPU/ARCH pseudo-op switches to something real.
package common

import (
	"github.com/dbcorti/palmasm/arch"
	"github.com/dbcorti/palmasm/codegen"
)

func init() {
	arch.Register(arch.Entry{
		Name:      "common",
		Codegen:   codegen.Generators,
		EncodeStr: codegen.EncodeASCII,
	})
}
