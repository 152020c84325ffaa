package lexer_test

import (
	"strings"
	"testing"

	"github.com/dbcorti/palmasm/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStripsCommentsAndTokenizes(t *testing.T) {
	ops, lines, err := lexer.Read(strings.NewReader("  add r1, r2 ; comment\nnop\n"))
	require.NoError(t, err)
	require.Len(t, ops, 2)
	require.Len(t, lines, 2)

	assert.Equal(t, []string{"add", "r1", "r2"}, ops[0].Tokens)
	assert.Equal(t, []string{"nop"}, ops[1].Tokens)
}

func TestReadSkipsLinesWithOnlyAComment(t *testing.T) {
	ops, _, err := lexer.Read(strings.NewReader("; just a comment\nnop\n"))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, 1, ops[0].LineNo)
}

func TestReadDoesNotSplitSemicolonsInsideStrings(t *testing.T) {
	ops, _, err := lexer.Read(strings.NewReader(`db "a;b"` + "\n"))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, []string{"db", `"a;b"`}, ops[0].Tokens)
}

func TestReadAttachesLabelsToTheFollowingCodeLine(t *testing.T) {
	ops, _, err := lexer.Read(strings.NewReader("foo:\nbar: nop\n"))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.ElementsMatch(t, []string{"foo", "bar"}, ops[0].Labels)
}

func TestReadRejectsDuplicateLabels(t *testing.T) {
	_, _, err := lexer.Read(strings.NewReader("foo: nop\nfoo: nop\n"))
	require.Error(t, err)

	var dup *lexer.DuplicateLabelError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 1, dup.LineNo)
	assert.Equal(t, "foo", dup.Label)
}

func TestLexSplitsOpcodeAndLowercasesIt(t *testing.T) {
	ops, _, err := lexer.Read(strings.NewReader("ADD r1, #1\n"))
	require.NoError(t, err)
	require.Len(t, ops, 1)

	lexer.Lex(ops[0])
	assert.Equal(t, "add", ops[0].Opcode)
	require.Len(t, ops[0].Args, 2)
	assert.Equal(t, "r1", ops[0].Args[0].Stripped)
	assert.Equal(t, "#1", ops[0].Args[1].Stripped)
}
