package gcommand_test

import (
	"testing"

	"github.com/gcode-lsp/gcode-ls/internal/gcommand"
	"github.com/gcode-lsp/gcode-ls/internal/gtoken"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, line string) (gcommand.Command, bool) {
	t.Helper()
	tokens := gtoken.TokenizeLine(line, 0, 0)
	return gcommand.ParseLine(tokens)
}

func TestParseLineBasic(t *testing.T) {
	cmd, ok := parse(t, "G1 X10 Y-2.5 F1500")
	require.True(t, ok)
	assert.Equal(t, "G1", cmd.Code)
	require.Len(t, cmd.Parameters, 3)

	x, ok := cmd.Get("X")
	require.True(t, ok)
	assert.Equal(t, gcommand.Int, x.Value.Kind)
	assert.Equal(t, int64(10), x.Value.Int)

	y, ok := cmd.Get("Y")
	require.True(t, ok)
	assert.Equal(t, gcommand.Float, y.Value.Kind)
	assert.InDelta(t, -2.5, y.Value.Float, 0.0001)
}

func TestParseLineLowercaseCodeUppercased(t *testing.T) {
	cmd, ok := parse(t, "g1 x10")
	require.True(t, ok)
	assert.Equal(t, "G1", cmd.Code)
	p, ok := cmd.Get("X")
	require.True(t, ok)
	assert.Equal(t, int64(10), p.Value.Int)
}

func TestParseLineBlankOrCommentOnly(t *testing.T) {
	_, ok := parse(t, "")
	assert.False(t, ok)

	_, ok = parse(t, "; just a comment")
	assert.False(t, ok)
}

func TestParseLineBareParameter(t *testing.T) {
	cmd, ok := parse(t, "G28 X Y Z")
	require.True(t, ok)
	x, ok := cmd.Get("X")
	require.True(t, ok)
	assert.Equal(t, "", x.ValueText)
	assert.Equal(t, gcommand.Missing, x.Value.Kind)
}

func TestParseLineQuotedString(t *testing.T) {
	cmd, ok := parse(t, `M862.3 P"MK3S"`)
	require.True(t, ok)
	assert.Equal(t, "M862.3", cmd.Code)
	p, ok := cmd.Get("P")
	require.True(t, ok)
	assert.Equal(t, gcommand.String, p.Value.Kind)
	assert.Equal(t, "MK3S", p.Value.Str)
}

func TestParseLineBoolValue(t *testing.T) {
	cmd, ok := parse(t, "M500 Strue")
	require.True(t, ok)
	p, ok := cmd.Get("S")
	require.True(t, ok)
	assert.Equal(t, gcommand.Bool, p.Value.Kind)
	assert.True(t, p.Value.Bool)
}

func TestParseLineDuplicateLettersPreservedInOrder(t *testing.T) {
	cmd, ok := parse(t, "G1 X10 X20")
	require.True(t, ok)
	require.Len(t, cmd.Parameters, 2)
	assert.Equal(t, "X", cmd.Parameters[0].Letter)
	assert.Equal(t, int64(10), cmd.Parameters[0].Value.Int)
	assert.Equal(t, int64(20), cmd.Parameters[1].Value.Int)

	first, ok := cmd.Get("X")
	require.True(t, ok)
	assert.Equal(t, int64(10), first.Value.Int)
}

func TestParseLineMalformedParameterIsMissing(t *testing.T) {
	cmd, ok := parse(t, "G1 X10 #@!")
	require.True(t, ok)
	require.Len(t, cmd.Parameters, 2)
	assert.True(t, cmd.Parameters[1].Malformed)
	assert.Equal(t, gcommand.Missing, cmd.Parameters[1].Value.Kind)
}

func TestCommandHas(t *testing.T) {
	cmd, ok := parse(t, "G1 X10")
	require.True(t, ok)
	assert.True(t, cmd.Has("X"))
	assert.False(t, cmd.Has("Y"))
}

func TestCommandLetterSet(t *testing.T) {
	cmd, ok := parse(t, "G1 X10 Y-2.5 X20")
	require.True(t, ok)
	set := cmd.LetterSet()
	assert.True(t, set.Has("X"))
	assert.True(t, set.Has("Y"))
	assert.False(t, set.Has("Z"))
	assert.Equal(t, 2, len(set), "duplicate letters collapse to one set member")
}
