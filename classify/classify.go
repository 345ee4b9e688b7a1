// Package classify implements the line classifier: given one line of
// already macro-expanded source, it decides whether the line is blank, a
// comment, a directive, a label (possibly prefixing another line type), an
// instruction, or invalid - in the priority order spec.md §4.D requires.
package classify

import (
	"regexp"
	"strings"

	"github.com/n14asm/assembler/asmerr"
	"github.com/n14asm/assembler/isa"
)

// Kind is the classification of a line.
type Kind int

const (
	Blank Kind = iota
	Comment
	DirectiveLine
	LabelLine
	InstructionLine
	Invalid
)

// Directive is the specific directive a DirectiveLine carries.
type Directive int

const (
	NoDirective Directive = iota
	DotData
	DotString
	DotEntry
	DotExtern
	DotDefine
	UnknownDirective
)

var labelPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*):(.*)$`)

var directiveNames = map[string]Directive{
	".data":   DotData,
	".string": DotString,
	".entry":  DotEntry,
	".extern": DotExtern,
	".define": DotDefine,
}

// Result is the outcome of classifying one line.
type Result struct {
	Kind       Kind
	Directive  Directive
	Label      string // set only when Kind == LabelLine
	Rest       string // residual line after the label, to reclassify
	DirectName string // directive token as written, e.g. ".data"
	Tail       string // text after the directive/mnemonic token
	Mnemonic   string // set only when Kind == InstructionLine
}

// Line classifies one trimmed line of source.
func Line(raw string) (Result, *asmerr.Error) {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return Result{Kind: Blank}, nil
	}

	if trimmed[0] == ';' {
		return Result{Kind: Comment}, nil
	}

	if trimmed[0] == '.' {
		tok, tail := splitFirstToken(trimmed)
		d, ok := directiveNames[tok]
		if !ok {
			return Result{Kind: DirectiveLine, Directive: UnknownDirective, DirectName: tok, Tail: tail}, nil
		}
		return Result{Kind: DirectiveLine, Directive: d, DirectName: tok, Tail: tail}, nil
	}

	if m := labelPattern.FindStringSubmatch(trimmed); m != nil {
		return Result{Kind: LabelLine, Label: m[1], Rest: strings.TrimSpace(m[2])}, nil
	}

	tok, tail := splitFirstToken(trimmed)
	if _, ok := isa.Lookup(tok); ok {
		return Result{Kind: InstructionLine, Mnemonic: tok, Tail: tail}, nil
	}
	if _, ok := isa.LookupCaseInsensitive(tok); ok {
		return Result{Kind: Invalid}, asmerr.New(0, asmerr.CaseMismatch, "mnemonic written in wrong case: "+tok)
	}

	return Result{Kind: Invalid}, nil
}

func splitFirstToken(s string) (tok, tail string) {
	fields := strings.SplitN(s, " ", 2)
	tok = fields[0]
	if len(fields) == 2 {
		tail = strings.TrimSpace(fields[1])
	}
	// also split on the first run of whitespace if no space was present but
	// a tab was used
	if tail == "" {
		if idx := strings.IndexAny(tok, "\t"); idx >= 0 {
			tail = strings.TrimSpace(tok[idx+1:])
			tok = tok[:idx]
		}
	}
	return tok, tail
}
