package codegen_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dbcorti/palmasm/arch"
	_ "github.com/dbcorti/palmasm/arch/common"
	"github.com/dbcorti/palmasm/asmctx"
	"github.com/dbcorti/palmasm/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommonContext() *asmctx.Context {
	entry, ok := arch.Lookup("common")
	if !ok {
		panic("common architecture not registered")
	}
	return asmctx.New(entry.Name, entry.Codegen(), entry.EncodeStr)
}

func hexEncode(b []byte) string {
	const digits = "0123456789ABCDEF"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xF]
	}
	return string(out)
}

func assembleHex(t *testing.T, src string) string {
	t.Helper()
	ctx := newCommonContext()
	var out bytes.Buffer
	require.NoError(t, driver.Assemble(ctx, 0, strings.NewReader(src), &out, nil))
	return hexEncode(out.Bytes())
}

func TestDbEmitsBareBytes(t *testing.T) {
	got := assembleHex(t, "db 1, 2, 255\n")
	assert.Equal(t, "0102FF", got)
}

func TestDbEmitsStringLiteral(t *testing.T) {
	got := assembleHex(t, `db "AB"` + "\n")
	assert.Equal(t, "4142", got)
}

func TestDwIsBigEndianAndWordAligned(t *testing.T) {
	got := assembleHex(t, "org $1\ndw $1234\n")
	// Output is zero-filled from address 0: one gap byte to reach $1, one
	// of DW's own alignment pad to reach the next even address, then the
	// word itself, most significant byte first.
	assert.Equal(t, "00001234", got)
}

func TestDdIsFourBytesBigEndian(t *testing.T) {
	got := assembleHex(t, "dd $1\n")
	assert.Equal(t, "00000001", got)
}

func TestOrgGapIsZeroFilled(t *testing.T) {
	// ORG itself emits no hex, but the binary writer fills every byte
	// between address 0 and the next thing actually written.
	got := assembleHex(t, "org $1\ndb 1\n")
	assert.Equal(t, "0001", got)
}

func TestDwReferencesForwardLabel(t *testing.T) {
	got := assembleHex(t, "dw label\ndb 0\nlabel: db 0\n")
	assert.Equal(t, "0003"+"00"+"00", got)
}
