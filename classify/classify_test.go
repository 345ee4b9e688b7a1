package classify_test

import (
	"testing"

	"github.com/n14asm/assembler/asmerr"
	"github.com/n14asm/assembler/classify"
)

func TestLine_Blank(t *testing.T) {
	res, err := classify.Line("   ")
	if err != nil || res.Kind != classify.Blank {
		t.Errorf("got %+v, %v, want Blank", res, err)
	}
}

func TestLine_Comment(t *testing.T) {
	res, err := classify.Line("  ; a comment")
	if err != nil || res.Kind != classify.Comment {
		t.Errorf("got %+v, %v, want Comment", res, err)
	}
}

func TestLine_KnownDirective(t *testing.T) {
	res, err := classify.Line(".data 1, 2, 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != classify.DirectiveLine || res.Directive != classify.DotData || res.Tail != "1, 2, 3" {
		t.Errorf("got %+v, want DotData with tail '1, 2, 3'", res)
	}
}

func TestLine_UnknownDirective(t *testing.T) {
	res, err := classify.Line(".bogus 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != classify.DirectiveLine || res.Directive != classify.UnknownDirective {
		t.Errorf("got %+v, want UnknownDirective", res)
	}
}

func TestLine_Label(t *testing.T) {
	res, err := classify.Line("START: mov r1, r2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != classify.LabelLine || res.Label != "START" || res.Rest != "mov r1, r2" {
		t.Errorf("got %+v, want Label START with rest 'mov r1, r2'", res)
	}
}

func TestLine_Instruction(t *testing.T) {
	res, err := classify.Line("mov r1, r2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != classify.InstructionLine || res.Mnemonic != "mov" || res.Tail != "r1, r2" {
		t.Errorf("got %+v, want Instruction mov with tail 'r1, r2'", res)
	}
}

func TestLine_CaseMismatchIsAnError(t *testing.T) {
	_, err := classify.Line("MOV r1, r2")
	if err == nil || err.Kind != asmerr.CaseMismatch {
		t.Errorf("got err=%v, want CaseMismatch", err)
	}
}

func TestLine_Invalid(t *testing.T) {
	res, err := classify.Line("3abc")
	if err != nil {
		t.Fatalf("unexpected classifier error: %v", err)
	}
	if res.Kind != classify.Invalid {
		t.Errorf("got %+v, want Invalid", res)
	}
}
