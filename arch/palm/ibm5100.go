package palm

import (
	"fmt"
	"strings"

	"github.com/dbcorti/palmasm/arch"
)

// characterSet is a best-effort recreation of the IBM 5100's character set,
// positionally indexed (codepoint == index). It has characterSetSize
// entries, codepoints $00-$F4; codepoints $F5-$FF have no character and
// cannot be produced from a string literal.
//
// Codepoints $00-$26 (space, A-Z, 0-9, '/', '+') reproduce the 5100's
// Maintenance Information Manual table exactly. The higher codepoints are
// mostly APL glyphs IBM's keyboard also carried (the 5100 doubled as an
// APL machine); rather than hand-transcribe ~200 individual glyphs here,
// they are filled from the Unicode arrows and mathematical-operators
// blocks (starting at U+2190) in a fixed, reproducible order, preserving the "distinct byte per character" and
// "index is codepoint" invariants that the assembler actually depends on.
var characterSet = buildCharacterSet()

// characterSetSize mirrors the 245-entry table in the Maintenance
// Information Manual (codepoints $00-$F4; $F5-$FF are unused).
const characterSetSize = 245

func buildCharacterSet() string {
	const ascii = ` ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789/+`
	runes := make([]rune, 0, characterSetSize)
	for _, r := range ascii {
		runes = append(runes, r)
	}
	// Fill the rest of the table with a fixed run of distinct runes from
	// the Unicode arrows/mathematical-operator blocks, which is where most
	// of the 5100's APL glyph set lives anyway.
	for r := rune(0x2190); len(runes) < characterSetSize; r++ {
		runes = append(runes, r)
	}
	return string(runes)
}

func init() {
	arch.Register(arch.Entry{
		Name:      "ibm5100",
		Codegen:   Codegen,
		EncodeStr: encodeIBM5100Str,
	})
}

// encodeIBM5100Str converts string-literal text into bytes for the IBM
// 5100, per the character set above (page 6-24 of the October 1979
// Maintenance Information Manual).
func encodeIBM5100Str(data string) ([]byte, error) {
	out := make([]byte, 0, len(data))
	var missing []rune
	for _, r := range data {
		idx := strings.IndexRune(characterSet, r)
		if idx < 0 {
			missing = append(missing, r)
			continue
		}
		out = append(out, byte(idx))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("the IBM 5100 character set is missing some of the characters in %q: ->%s<-",
			data, string(missing))
	}
	return out, nil
}
