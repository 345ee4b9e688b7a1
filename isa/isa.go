// Package isa holds the fixed instruction set description of the 14-bit
// teaching machine: the sixteen-entry command table, addressing modes, and
// the reserved-word set that labels, constants, and macro names may not
// collide with.
package isa

import "strings"

// Mode is one of the four operand addressing modes.
type Mode int

const (
	Immediate Mode = iota
	Direct
	Index
	Register
)

// ModeSet is a small bitset over the four addressing modes.
type ModeSet uint8

func modeBit(m Mode) ModeSet { return 1 << ModeSet(m) }

// NewModeSet builds a ModeSet from a list of legal modes.
func NewModeSet(modes ...Mode) ModeSet {
	var s ModeSet
	for _, m := range modes {
		s |= modeBit(m)
	}
	return s
}

// Allows reports whether m is a member of the set.
func (s ModeSet) Allows(m Mode) bool {
	return s&modeBit(m) != 0
}

// Command describes one of the sixteen opcodes: its mnemonic, operand
// count, and the addressing modes legal in each operand position.
type Command struct {
	Mnemonic     string
	Opcode       int
	OperandCount int
	SrcModes     ModeSet
	DstModes     ModeSet
}

// Table is the fixed, order-significant command table of spec.md §6.
var Table = [16]Command{
	{Mnemonic: "mov", Opcode: 0, OperandCount: 2, SrcModes: NewModeSet(Immediate, Direct, Index, Register), DstModes: NewModeSet(Direct, Index, Register)},
	{Mnemonic: "cmp", Opcode: 1, OperandCount: 2, SrcModes: NewModeSet(Immediate, Direct, Index, Register), DstModes: NewModeSet(Immediate, Direct, Index, Register)},
	{Mnemonic: "add", Opcode: 2, OperandCount: 2, SrcModes: NewModeSet(Immediate, Direct, Index, Register), DstModes: NewModeSet(Direct, Index, Register)},
	{Mnemonic: "sub", Opcode: 3, OperandCount: 2, SrcModes: NewModeSet(Immediate, Direct, Index, Register), DstModes: NewModeSet(Direct, Index, Register)},
	{Mnemonic: "not", Opcode: 4, OperandCount: 1, SrcModes: 0, DstModes: NewModeSet(Direct, Index, Register)},
	{Mnemonic: "clr", Opcode: 5, OperandCount: 1, SrcModes: 0, DstModes: NewModeSet(Direct, Index, Register)},
	{Mnemonic: "lea", Opcode: 6, OperandCount: 2, SrcModes: NewModeSet(Direct, Index), DstModes: NewModeSet(Direct, Index, Register)},
	{Mnemonic: "inc", Opcode: 7, OperandCount: 1, SrcModes: 0, DstModes: NewModeSet(Direct, Index, Register)},
	{Mnemonic: "dec", Opcode: 8, OperandCount: 1, SrcModes: 0, DstModes: NewModeSet(Direct, Index, Register)},
	{Mnemonic: "jmp", Opcode: 9, OperandCount: 1, SrcModes: 0, DstModes: NewModeSet(Direct, Register)},
	{Mnemonic: "bne", Opcode: 10, OperandCount: 1, SrcModes: 0, DstModes: NewModeSet(Direct, Register)},
	{Mnemonic: "red", Opcode: 11, OperandCount: 1, SrcModes: 0, DstModes: NewModeSet(Direct, Index, Register)},
	{Mnemonic: "prn", Opcode: 12, OperandCount: 1, SrcModes: 0, DstModes: NewModeSet(Immediate, Direct, Index, Register)},
	{Mnemonic: "jsr", Opcode: 13, OperandCount: 1, SrcModes: 0, DstModes: NewModeSet(Direct, Register)},
	{Mnemonic: "rts", Opcode: 14, OperandCount: 0, SrcModes: 0, DstModes: 0},
	{Mnemonic: "hlt", Opcode: 15, OperandCount: 0, SrcModes: 0, DstModes: 0},
}

var byMnemonic = func() map[string]*Command {
	m := make(map[string]*Command, len(Table))
	for i := range Table {
		m[Table[i].Mnemonic] = &Table[i]
	}
	return m
}()

// Lookup finds a command by exact, case-sensitive mnemonic.
func Lookup(mnemonic string) (*Command, bool) {
	c, ok := byMnemonic[mnemonic]
	return c, ok
}

// LookupCaseInsensitive reports whether mnemonic matches a command only
// when case is ignored - used to distinguish CaseMismatch from InvalidLine.
func LookupCaseInsensitive(mnemonic string) (*Command, bool) {
	lower := strings.ToLower(mnemonic)
	for i := range Table {
		if Table[i].Mnemonic == lower {
			return &Table[i], true
		}
	}
	return nil, false
}

// reserved holds every word a label, .define name, or macro name may not use:
// registers r1-r7, all sixteen mnemonics, and the directive/macro keywords.
var reserved = func() map[string]bool {
	r := map[string]bool{
		"data": true, "string": true, "entry": true, "extern": true,
		"define": true, "mcr": true, "endmcr": true,
	}
	for i := 1; i <= 7; i++ {
		r["r"+string(rune('0'+i))] = true
	}
	for i := range Table {
		r[Table[i].Mnemonic] = true
	}
	return r
}()

// Reserved reports whether name is a reserved word.
func Reserved(name string) bool {
	return reserved[name]
}

// IsRegister reports whether name is one of r1-r7 (r0 is deliberately absent).
func IsRegister(name string) (num int, ok bool) {
	if len(name) != 2 || name[0] != 'r' {
		return 0, false
	}
	d := name[1]
	if d < '1' || d > '7' {
		return 0, false
	}
	return int(d - '0'), true
}
