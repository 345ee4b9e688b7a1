package assemble

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/n14asm/assembler/asmerr"
	"github.com/n14asm/assembler/image"
	"github.com/n14asm/assembler/isa"
)

// operand is one parsed, but not yet fully resolved, instruction operand.
type operand struct {
	Mode  isa.Mode
	Reg   int    // valid when Mode == Register
	Value int    // valid when Mode == Immediate, or the index expression when Mode == Index
	Label string // valid when Mode == Direct or Index (the base symbol)
}

var indexPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)\[(.+)\]$`)

// parseOperand classifies a single operand token's addressing mode and
// resolves any immediate/index-expression literal or .define constant it
// carries. Label references are left unresolved: that's the Fixup List's
// job in the second pass.
func (c *Context) parseOperand(tok string) (operand, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return operand{}, fmt.Errorf("empty operand")
	}

	if reg, ok := isa.IsRegister(tok); ok {
		return operand{Mode: isa.Register, Reg: reg}, nil
	}

	if strings.HasPrefix(tok, "#") {
		val, err := c.resolveValue(tok[1:])
		if err != nil {
			return operand{}, fmt.Errorf("invalid immediate operand: %v", err)
		}
		if val < -2048 || val > 2047 {
			return operand{}, fmt.Errorf("immediate value out of 12-bit range: %d", val)
		}
		return operand{Mode: isa.Immediate, Value: val}, nil
	}

	if m := indexPattern.FindStringSubmatch(tok); m != nil {
		val, err := c.resolveValue(m[2])
		if err != nil {
			return operand{}, fmt.Errorf("invalid index expression: %v", err)
		}
		return operand{Mode: isa.Index, Label: m[1], Value: val}, nil
	}

	if err := validateSymbolName(tok, c.Limits.MaxSymbolLength); err == nil {
		return operand{Mode: isa.Direct, Label: tok}, nil
	}

	return operand{}, fmt.Errorf("unrecognized operand form: %q", tok)
}

// splitInstructionOperands enforces the comma rules of spec.md §4.I step 1:
// no leading/trailing/doubled commas, and exactly one comma iff the command
// takes two operands.
func splitInstructionOperands(tail string, expected int) ([]string, error) {
	tail = strings.TrimSpace(tail)

	if expected == 0 {
		if tail != "" {
			return nil, fmt.Errorf("unexpected operand(s) for a zero-operand instruction")
		}
		return nil, nil
	}
	if tail == "" {
		return nil, fmt.Errorf("missing operand(s)")
	}
	if strings.HasPrefix(tail, ",") || strings.HasSuffix(tail, ",") || strings.Contains(tail, ",,") {
		return nil, fmt.Errorf("leading, trailing, or doubled comma in operand list")
	}
	parts := strings.Split(tail, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return nil, fmt.Errorf("empty operand in list")
		}
	}
	if len(parts) != expected {
		return nil, fmt.Errorf("expected %d operand(s), got %d", expected, len(parts))
	}
	return parts, nil
}

// position distinguishes the source operand from the destination operand
// when encoding a lone register word - only the matching half of the word
// is populated, per spec.md §4.I step 4.
type position int

const (
	srcPos position = iota
	dstPos
)

// encodeInstruction implements the Instruction Encoder (component I):
// validate, then build the header word plus 0-2 operand words, enqueuing
// a Fixup for every Direct/Index base reference.
func (c *Context) encodeInstruction(lineNum int, mnemonic, tail, raw string) {
	cmd, _ := isa.Lookup(mnemonic)

	operandToks, err := splitInstructionOperands(tail, cmd.OperandCount)
	if err != nil {
		c.fail(lineNum, asmerr.InvalidOperand, err.Error(), raw)
		return
	}

	var ops []operand
	for _, tok := range operandToks {
		op, perr := c.parseOperand(tok)
		if perr != nil {
			c.fail(lineNum, asmerr.InvalidOperand, perr.Error(), raw)
			return
		}
		ops = append(ops, op)
	}

	var srcOp, dstOp *operand
	switch cmd.OperandCount {
	case 2:
		srcOp, dstOp = &ops[0], &ops[1]
		if !cmd.SrcModes.Allows(srcOp.Mode) {
			c.fail(lineNum, asmerr.InvalidOperand, fmt.Sprintf("addressing mode not legal as source for %s", mnemonic), raw)
			return
		}
		if !cmd.DstModes.Allows(dstOp.Mode) {
			c.fail(lineNum, asmerr.InvalidOperand, fmt.Sprintf("addressing mode not legal as destination for %s", mnemonic), raw)
			return
		}
	case 1:
		dstOp = &ops[0]
		if !cmd.DstModes.Allows(dstOp.Mode) {
			c.fail(lineNum, asmerr.InvalidOperand, fmt.Sprintf("addressing mode not legal as destination for %s", mnemonic), raw)
			return
		}
	}

	srcModeVal := 0
	if srcOp != nil {
		srcModeVal = int(srcOp.Mode)
	}
	dstModeVal := 0
	if dstOp != nil {
		dstModeVal = int(dstOp.Mode)
	}

	header := uint16(cmd.Opcode&0xF)<<6 | uint16(srcModeVal&0x3)<<4 | uint16(dstModeVal&0x3)<<2
	c.Image.AppendInstruction(image.Entry{Kind: image.InstructionHeader, Value: header})

	switch {
	case srcOp != nil && dstOp != nil && srcOp.Mode == isa.Register && dstOp.Mode == isa.Register:
		val := uint16(srcOp.Reg&0x7)<<5 | uint16(dstOp.Reg&0x7)<<2
		c.Image.AppendInstruction(image.Entry{Kind: image.RegisterWord, Value: val})
	default:
		if srcOp != nil {
			c.encodeOperandWord(*srcOp, srcPos, lineNum)
		}
		if dstOp != nil {
			c.encodeOperandWord(*dstOp, dstPos, lineNum)
		}
	}
}

// encodeOperandWord appends the image word(s) for a single non-paired
// operand and, for Direct/Index, enqueues the corresponding Fixup.
func (c *Context) encodeOperandWord(op operand, pos position, lineNum int) {
	switch op.Mode {
	case isa.Register:
		var val uint16
		if pos == srcPos {
			val = uint16(op.Reg&0x7) << 5
		} else {
			val = uint16(op.Reg&0x7) << 2
		}
		c.Image.AppendInstruction(image.Entry{Kind: image.RegisterWord, Value: val})

	case isa.Immediate:
		val := uint16(int16(op.Value)) & 0xFFF
		c.Image.AppendInstruction(image.Entry{Kind: image.ImmediateWord, Value: val << 2})

	case isa.Direct:
		idx := c.Image.AppendInstruction(image.Entry{Kind: image.DirectWord, Symbol: op.Label, NeedsEncoding: true})
		c.Fixups.Add(image.Fixup{ImageIndex: idx, Symbol: op.Label, Mode: image.FixupDirect, Line: lineNum})

	case isa.Index:
		idx := c.Image.AppendInstruction(image.Entry{Kind: image.IndexBaseWord, Symbol: op.Label, NeedsEncoding: true})
		c.Fixups.Add(image.Fixup{ImageIndex: idx, Symbol: op.Label, Mode: image.FixupIndex, Line: lineNum})
		offsetVal := uint16(int16(op.Value)) & 0xFFF
		c.Image.AppendInstruction(image.Entry{Kind: image.IndexOffsetWord, Value: offsetVal << 2})
	}
}
