package palm_test

import (
	"testing"

	"github.com/dbcorti/palmasm/arch"
	_ "github.com/dbcorti/palmasm/arch/palm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIBM5100Registered(t *testing.T) {
	entry, ok := arch.Lookup("ibm5100")
	require.True(t, ok)
	assert.Equal(t, "ibm5100", entry.Name)
}

func TestIBM5100EncodesKnownCharacters(t *testing.T) {
	entry, ok := arch.Lookup("ibm5100")
	require.True(t, ok)

	b, err := entry.EncodeStr("HELLO")
	require.NoError(t, err)
	require.Len(t, b, 5)

	// The ASCII letter block is the verified prefix of the table: position
	// equals codepoint value (space=0, A=1, ...).
	assert.Equal(t, byte(8), b[0])  // 'H'
	assert.Equal(t, byte(5), b[1])  // 'E'
	assert.Equal(t, byte(12), b[2]) // 'L'
	assert.Equal(t, byte(12), b[3]) // 'L'
	assert.Equal(t, byte(15), b[4]) // 'O'
}

func TestIBM5100RejectsUnrepresentableCharacters(t *testing.T) {
	entry, ok := arch.Lookup("ibm5100")
	require.True(t, ok)

	_, err := entry.EncodeStr("é") // 'é' has no slot in the table
	assert.Error(t, err)
}
