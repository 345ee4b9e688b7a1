// Package macro implements the assembler's streaming macro preprocessor: a
// keyed table of parameterless macro bodies and a single-pass expander that
// captures mcr/endmcr blocks and substitutes known names inline.
package macro

import (
	"strings"

	"github.com/n14asm/assembler/asmerr"
	"github.com/n14asm/assembler/isa"
)

// Table maps macro name to its ordered body lines.
type Table struct {
	bodies map[string][]string
}

// NewTable creates an empty macro table.
func NewTable() *Table {
	return &Table{bodies: make(map[string][]string)}
}

// Insert adds a macro body, failing on a duplicate or reserved name. The
// collision against a symbol defined later (label, .define, .extern) is
// checked by the caller once preprocessing has run and the first pass
// starts binding names, per spec.md §4.B.
func (t *Table) Insert(name string, body []string) error {
	if isa.Reserved(name) {
		return errReserved(name)
	}
	if _, exists := t.bodies[name]; exists {
		return errDuplicate(name)
	}
	t.bodies[name] = body
	return nil
}

// Lookup finds a macro body by name.
func (t *Table) Lookup(name string) ([]string, bool) {
	b, ok := t.bodies[name]
	return b, ok
}

type macroErr struct{ msg string }

func (e *macroErr) Error() string { return e.msg }

func errReserved(name string) error {
	return &macroErr{msg: "reserved word cannot be used as a macro name: " + name}
}

func errDuplicate(name string) error {
	return &macroErr{msg: "macro already defined: " + name}
}

// state is the preprocessor's two-state machine.
type state int

const (
	outside state = iota
	capturing
)

// Expand runs the single-pass preprocessor over src (already comment-
// stripped by package clean) and returns the fully expanded text along with
// any diagnostics. Expansion never recurses: a macro body may not itself
// contain an mcr/endmcr pair or a call to another macro. Any other body line,
// a .define line included, is captured and later emitted verbatim without
// directive interpretation here.
func Expand(src string) (string, *Table, *asmerr.List) {
	table := NewTable()
	errs := &asmerr.List{}

	lines := strings.Split(src, "\n")
	var out []string

	st := outside
	var macroName string
	var body []string
	var bodyStartLine int

	for i, raw := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(raw)
		firstTok := firstToken(trimmed)

		switch st {
		case outside:
			switch {
			case firstTok == "mcr":
				name := secondToken(trimmed)
				if name == "" {
					errs.Add(asmerr.New(lineNum, asmerr.MalformedMacro, "mcr requires a macro name"))
					continue
				}
				if isa.Reserved(name) {
					errs.Add(asmerr.New(lineNum, asmerr.MalformedMacro, "reserved word cannot be used as a macro name: "+name))
					continue
				}
				if _, exists := table.Lookup(name); exists {
					errs.Add(asmerr.New(lineNum, asmerr.MalformedMacro, "macro already defined: "+name))
					continue
				}
				st = capturing
				macroName = name
				body = nil
				bodyStartLine = lineNum
			case firstTok == "endmcr":
				errs.Add(asmerr.New(lineNum, asmerr.MalformedMacro, "endmcr without matching mcr"))
			case firstTok != "" && isMacroCall(table, firstTok):
				macroBody, _ := table.Lookup(firstTok)
				out = append(out, stripIndent(macroBody)...)
			default:
				out = append(out, raw)
			}

		case capturing:
			switch firstTok {
			case "endmcr":
				if err := table.Insert(macroName, body); err != nil {
					errs.Add(asmerr.New(bodyStartLine, asmerr.MalformedMacro, err.Error()))
				}
				st = outside
				macroName = ""
				body = nil
			case "mcr":
				errs.Add(asmerr.New(lineNum, asmerr.MalformedMacro, "nested macro definition not allowed"))
			default:
				if firstTok != "" && isMacroCall(table, firstTok) {
					errs.Add(asmerr.New(lineNum, asmerr.MalformedMacro, "macro call not allowed inside macro body"))
					continue
				}
				body = append(body, raw)
			}
		}
	}

	if st == capturing {
		errs.Add(asmerr.New(bodyStartLine, asmerr.MalformedMacro, "unterminated macro: "+macroName))
	}

	return strings.Join(out, "\n"), table, errs
}

func isMacroCall(t *Table, name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// stripIndent removes the leading four-space indentation each captured
// body line carries, per spec.md §4.B/§4.C.
func stripIndent(body []string) []string {
	out := make([]string, len(body))
	for i, line := range body {
		out[i] = strings.TrimPrefix(line, "    ")
	}
	return out
}

func firstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func secondToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
