package assemble

import (
	"testing"

	"github.com/n14asm/assembler/isa"
	"github.com/n14asm/assembler/symtab"
)

func TestParseOperand_Register(t *testing.T) {
	c := NewContext("t.as", DefaultLimits())
	op, err := c.parseOperand("r4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Mode != isa.Register || op.Reg != 4 {
		t.Errorf("got %+v, want Register 4", op)
	}
}

func TestParseOperand_Immediate(t *testing.T) {
	c := NewContext("t.as", DefaultLimits())
	op, err := c.parseOperand("#-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Mode != isa.Immediate || op.Value != -5 {
		t.Errorf("got %+v, want Immediate -5", op)
	}
}

func TestParseOperand_ImmediateOutOfRange(t *testing.T) {
	c := NewContext("t.as", DefaultLimits())
	if _, err := c.parseOperand("#2048"); err == nil {
		t.Errorf("expected range error for #2048")
	}
}

func TestParseOperand_ImmediateFromDefine(t *testing.T) {
	c := NewContext("t.as", DefaultLimits())
	if err := c.Symbols.Insert("K", symtab.MacroDefine, 7); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	op, err := c.parseOperand("#K")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Mode != isa.Immediate || op.Value != 7 {
		t.Errorf("got %+v, want Immediate 7", op)
	}
}

func TestParseOperand_Direct(t *testing.T) {
	c := NewContext("t.as", DefaultLimits())
	op, err := c.parseOperand("START")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Mode != isa.Direct || op.Label != "START" {
		t.Errorf("got %+v, want Direct START", op)
	}
}

func TestParseOperand_Index(t *testing.T) {
	c := NewContext("t.as", DefaultLimits())
	op, err := c.parseOperand("ARR[3]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Mode != isa.Index || op.Label != "ARR" || op.Value != 3 {
		t.Errorf("got %+v, want Index ARR[3]", op)
	}
}

func TestSplitInstructionOperands_CommaRules(t *testing.T) {
	if _, err := splitInstructionOperands("r1,", 2); err == nil {
		t.Errorf("trailing comma should error")
	}
	if _, err := splitInstructionOperands("r1", 2); err == nil {
		t.Errorf("missing second operand should error")
	}
	parts, err := splitInstructionOperands("r1, r2", 2)
	if err != nil || len(parts) != 2 {
		t.Errorf("got %v, %v", parts, err)
	}
}

func TestEncodeInstruction_SingleOperand(t *testing.T) {
	c := NewContext("t.as", DefaultLimits())
	c.encodeInstruction(1, "clr", "r2", "clr r2")
	if c.lineErr {
		t.Fatalf("unexpected error recorded")
	}
	if c.Image.IC() != 2 {
		t.Fatalf("IC = %d, want 2", c.Image.IC())
	}
	header := c.Image.Instructions[0].Value
	// opcode 5 (clr), dst_mode 3 (Register), ARE 00
	if header != uint16(5<<6|3<<2) {
		t.Errorf("header = %d, want %d", header, uint16(5<<6|3<<2))
	}
}
