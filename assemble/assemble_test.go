package assemble_test

import (
	"strings"
	"testing"

	"github.com/n14asm/assembler/assemble"
	"github.com/n14asm/assembler/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_EmptyMacroExpansion(t *testing.T) {
	src := "mcr M\n    hlt\nendmcr\nM\n"
	ctx := assemble.File("t.as", src, assemble.DefaultLimits())

	require.False(t, ctx.Errors.Failed(), ctx.Errors.String())
	assert.Equal(t, 1, ctx.Image.IC())
	assert.Equal(t, 0, ctx.Image.DC())
	assert.Equal(t, uint16(960), ctx.Image.Final()[0].Value)
}

func TestFile_ConstantFoldInData(t *testing.T) {
	src := ".define SZ = 3\nLEN: .data SZ, -1, SZ\n"
	ctx := assemble.File("t.as", src, assemble.DefaultLimits())

	require.False(t, ctx.Errors.Failed(), ctx.Errors.String())

	sym, ok := ctx.Symbols.Lookup("LEN")
	require.True(t, ok)
	assert.Equal(t, uint16(100), sym.Value)

	data := ctx.Image.Final()
	require.Len(t, data, 3)
	assert.Equal(t, uint16(3), data[0].Value)
	assert.Equal(t, uint16(0x3FFF), data[1].Value)
	assert.Equal(t, uint16(3), data[2].Value)
}

func TestFile_ExternPlusDirect(t *testing.T) {
	src := ".extern X\nSTART: jmp X\n"
	ctx := assemble.File("t.as", src, assemble.DefaultLimits())

	require.False(t, ctx.Errors.Failed(), ctx.Errors.String())

	start, ok := ctx.Symbols.Lookup("START")
	require.True(t, ok)
	assert.Equal(t, uint16(100), start.Value)
	assert.Equal(t, symtab.Code, start.Kind)

	words := ctx.Image.Final()
	require.Len(t, words, 2)
	assert.Equal(t, uint16(0b01), words[1].Value)

	usages := ctx.Externs.All()
	require.Len(t, usages, 1)
	assert.Equal(t, "X", usages[0].Name)
	assert.Equal(t, 101, usages[0].Address)
}

func TestFile_RegisterPairCoalescing(t *testing.T) {
	src := "mov r3, r5\n"
	ctx := assemble.File("t.as", src, assemble.DefaultLimits())

	require.False(t, ctx.Errors.Failed(), ctx.Errors.String())
	assert.Equal(t, 2, ctx.Image.IC())

	words := ctx.Image.Final()
	assert.Equal(t, uint16(60), words[0].Value)
	assert.Equal(t, uint16(116), words[1].Value)
}

func TestFile_EntryUpgradeRejection(t *testing.T) {
	src := ".extern E\n.entry E\n"
	ctx := assemble.File("t.as", src, assemble.DefaultLimits())

	assert.True(t, ctx.Errors.Failed())
	assert.Empty(t, ctx.Symbols.ByKind(symtab.Entry))
}

func TestFile_IndexedAddressing(t *testing.T) {
	src := "ARR: .data 1,2,3,4\n.define K = 2\nmov ARR[K], r1\n"
	ctx := assemble.File("t.as", src, assemble.DefaultLimits())

	require.False(t, ctx.Errors.Failed(), ctx.Errors.String())

	arr, ok := ctx.Symbols.Lookup("ARR")
	require.True(t, ok)
	assert.Equal(t, uint16(104), arr.Value)

	instr := ctx.Image.Instructions
	require.Len(t, instr, 4)
	assert.Equal(t, uint16(418), instr[1].Value) // base word: (104<<2)|ARE=10
	assert.Equal(t, uint16(8), instr[2].Value)   // offset word: (2<<2)|ARE=00
	assert.False(t, instr[1].NeedsEncoding)
}

func TestFile_LineLengthBoundary(t *testing.T) {
	limits := assemble.DefaultLimits()

	// A blank-padded .data line is valid apart from its length, so length is
	// the only thing that can fail here (comment lines would not do: comments
	// are stripped before the length check). Lengths count the newline.
	okLine := ".data 1" + strings.Repeat(" ", 73) // 81 chars
	ctx := assemble.File("t.as", okLine+"\n", limits)
	assert.False(t, ctx.Errors.Failed(), ctx.Errors.String())

	tooLong := ".data 1" + strings.Repeat(" ", 74) // 82 chars
	ctx = assemble.File("t.as", tooLong+"\n", limits)
	require.True(t, ctx.Errors.Failed())
}

func TestFile_DefineRangeBoundaries(t *testing.T) {
	ctx := assemble.File("t.as", ".define X = 2047\n", assemble.DefaultLimits())
	assert.False(t, ctx.Errors.Failed(), ctx.Errors.String())

	ctx = assemble.File("t.as", ".define X = -2048\n", assemble.DefaultLimits())
	assert.False(t, ctx.Errors.Failed(), ctx.Errors.String())

	ctx = assemble.File("t.as", ".define X = 2048\n", assemble.DefaultLimits())
	assert.True(t, ctx.Errors.Failed())

	ctx = assemble.File("t.as", ".define X = -2049\n", assemble.DefaultLimits())
	assert.True(t, ctx.Errors.Failed())
}

func TestFile_ImmediateNotLegalMovDestination(t *testing.T) {
	ctx := assemble.File("t.as", "mov #0, #0\n", assemble.DefaultLimits())
	require.True(t, ctx.Errors.Failed())
}

func TestFile_EmptyDataIsMalformed(t *testing.T) {
	ctx := assemble.File("t.as", ".data\n", assemble.DefaultLimits())
	require.True(t, ctx.Errors.Failed())
}

func TestFile_TrailingCommaIsMalformed(t *testing.T) {
	ctx := assemble.File("t.as", ".data 1, 2,\n", assemble.DefaultLimits())
	require.True(t, ctx.Errors.Failed())
}

func TestFile_ErrorsContinuePastFirstLine(t *testing.T) {
	src := ".bogus\n.data 1\n"
	ctx := assemble.File("t.as", src, assemble.DefaultLimits())
	require.True(t, ctx.Errors.Failed())
	// the second, valid line must still have been processed despite the
	// first line's error
	assert.Equal(t, 1, ctx.Image.DC())
}

func TestFile_LabelPrefixingExternIsIgnored(t *testing.T) {
	ctx := assemble.File("t.as", "FOO: .extern X\n", assemble.DefaultLimits())
	require.False(t, ctx.Errors.Failed(), ctx.Errors.String())
	_, ok := ctx.Symbols.Lookup("FOO")
	assert.False(t, ok, "label prefixing .extern must not bind")
}

func TestFile_LabelCollidesWithMacroName(t *testing.T) {
	src := "mcr FOO\n    hlt\nendmcr\nFOO: .data 1\n"
	ctx := assemble.File("t.as", src, assemble.DefaultLimits())

	require.True(t, ctx.Errors.Failed())
	_, ok := ctx.Symbols.Lookup("FOO")
	assert.False(t, ok, "a label colliding with a macro name must not be bound")
}

func TestFile_DefineCollidesWithMacroName(t *testing.T) {
	src := "mcr BAR\n    hlt\nendmcr\n.define BAR = 1\n"
	ctx := assemble.File("t.as", src, assemble.DefaultLimits())

	require.True(t, ctx.Errors.Failed())
}

func TestFile_ExternCollidesWithMacroName(t *testing.T) {
	src := "mcr BAZ\n    hlt\nendmcr\n.extern BAZ\n"
	ctx := assemble.File("t.as", src, assemble.DefaultLimits())

	require.True(t, ctx.Errors.Failed())
}

func TestFile_MemoryCapacityExceeded(t *testing.T) {
	limits := assemble.Limits{MemoryCapacity: 2, MaxLineLength: 81, MaxSymbolLength: 31}
	ctx := assemble.File("t.as", ".data 1,2,3\n", limits)
	require.True(t, ctx.Errors.Failed())
}
