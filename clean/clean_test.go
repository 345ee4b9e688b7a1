package clean_test

import (
	"testing"

	"github.com/n14asm/assembler/clean"
)

func TestStrip_RemovesTrailingComment(t *testing.T) {
	got := clean.Strip("mov r1, r2 ; move it\nhlt\n")
	want := "mov r1, r2 \nhlt\n"
	if got != want {
		t.Errorf("Strip() = %q, want %q", got, want)
	}
}

func TestStrip_PreservesLineCount(t *testing.T) {
	src := "; full comment\nmov r1, r2\n; another\n"
	got := clean.Strip(src)
	want := "\nmov r1, r2\n\n"
	if got != want {
		t.Errorf("Strip() = %q, want %q", got, want)
	}
}

func TestStrip_IgnoresSemicolonInAsciiString(t *testing.T) {
	src := `.string "a;b"` + "\n"
	got := clean.Strip(src)
	if got != src {
		t.Errorf("Strip() = %q, want unchanged %q", got, src)
	}
}

func TestStrip_IgnoresSemicolonInCurlyQuoteString(t *testing.T) {
	src := ".string “a;b”\n"
	got := clean.Strip(src)
	if got != src {
		t.Errorf("Strip() = %q, want unchanged %q", got, src)
	}
}

func TestStrip_NoCommentUnaffected(t *testing.T) {
	src := "mov r1, r2\nadd r1, r2\n"
	if got := clean.Strip(src); got != src {
		t.Errorf("Strip() = %q, want unchanged", got)
	}
}
