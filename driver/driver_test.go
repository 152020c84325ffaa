package driver_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dbcorti/palmasm/arch"
	_ "github.com/dbcorti/palmasm/arch/common"
	_ "github.com/dbcorti/palmasm/arch/palm"
	"github.com/dbcorti/palmasm/asmctx"
	"github.com/dbcorti/palmasm/driver"
	"github.com/dbcorti/palmasm/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIBM5100Context() *asmctx.Context {
	entry, ok := arch.Lookup("ibm5100")
	if !ok {
		panic("ibm5100 architecture not registered")
	}
	return asmctx.New(entry.Name, entry.Codegen(), entry.EncodeStr)
}

func assembleHex(t *testing.T, src string) string {
	t.Helper()
	ctx := newIBM5100Context()
	var out bytes.Buffer
	require.NoError(t, driver.Assemble(ctx, 0, strings.NewReader(src), &out, nil))
	return strings.ToUpper(hexEncode(out.Bytes()))
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xF]
	}
	return string(out)
}

func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"nop", "nop\n", "0004"},
		{"halt", "halt\n", "0000"},
		{"move register to register", "move r1, r2\n", "0124"},
		{"load byte immediate", "lbi r3, #$2A\n", "832A"},
		{"add immediate one", "add r4, #1\n", "A400"},
		{"bra self loop", "org $4\nstart: bra start\n", "00000000F001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assembleHex(t, tt.src)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddZeroEmitsNopWithWarning(t *testing.T) {
	ctx := newIBM5100Context()
	sink := &diag.CollectingSink{}
	ctx.Sink = sink

	var out bytes.Buffer
	require.NoError(t, driver.Assemble(ctx, 0, strings.NewReader("add r4, #0\n"), &out, nil))

	assert.Equal(t, "0004", strings.ToUpper(hexEncode(out.Bytes())))
	require.Len(t, sink.Warnings, 1)
	assert.Contains(t, sink.Warnings[0].Message, "NOP")
}

func TestForwardLabelResolvesOnSecondPass(t *testing.T) {
	// org $4 + a 4-byte LWI puts "db 0" at $8 and the label at $9; LWI's
	// halfword immediate is the label's own address, so it only settles
	// once the label is bound on the pass after it's first seen. The
	// binary output is zero-filled from address 0, hence the leading gap.
	src := "org $4\nlwi r5, #label\ndb 0\nlabel: db $AB\n"
	got := assembleHex(t, src)
	assert.Equal(t, "00000000"+"D5010009"+"00"+"AB", got)
}

func TestDuplicateLabelFails(t *testing.T) {
	ctx := newIBM5100Context()
	var out bytes.Buffer
	err := driver.Assemble(ctx, 0, strings.NewReader("foo: nop\nfoo: nop\n"), &out, nil)
	require.Error(t, err)

	var lineErr *driver.Error
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.LineNo)
	assert.Contains(t, lineErr.Error(), "foo")
}

func TestDataPaddingAligns(t *testing.T) {
	// Binary output is zero-filled from address 0, so the gap up to $3
	// appears first, then DW's own one-byte alignment pad to reach the
	// next even address, then the word itself, most significant byte
	// first.
	src := "org $3\ndw $1234\n"
	got := assembleHex(t, src)
	assert.Equal(t, "000000001234", got)
}

func TestUnknownOpcodeFails(t *testing.T) {
	ctx := newIBM5100Context()
	var out bytes.Buffer
	err := driver.Assemble(ctx, 0, strings.NewReader("frobnicate r1\n"), &out, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not recognised")
}

func TestListingWrapsAt16Nybbles(t *testing.T) {
	ctx := newIBM5100Context()
	var out, listing bytes.Buffer
	require.NoError(t, driver.Assemble(ctx, 0, strings.NewReader("db 1,2,3,4,5,6,7,8,9,10\n"), &out, &listing))
	assert.Contains(t, listing.String(), "\n")

	// 10 bytes is 20 nybbles: the first 16 go on the source line, the last
	// 4 wrap onto a continuation line 8 bytes further on.
	listingLines := strings.Split(strings.TrimSuffix(listing.String(), "\n"), "\n")
	require.Len(t, listingLines, 2)
	assert.Contains(t, listingLines[0], "0102 0304 0506 0708")
	assert.True(t, strings.HasPrefix(listingLines[1], "    0/       8 : 090A"))
}
