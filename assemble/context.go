// Package assemble drives the two coupled passes of the assembler: the
// first pass (lexing, classification, symbol resolution, partial
// instruction encoding, data-image construction) and the second pass
// (back-patching fixups, finalizing entries, emitting diagnostics). Both
// passes share a single per-file Context - the design note in spec.md §9
// that replaces the original's global counters with fields threaded
// through the passes, so multiple files can be assembled independently
// (and, by the outer driver, concurrently).
package assemble

import (
	"github.com/n14asm/assembler/asmerr"
	"github.com/n14asm/assembler/image"
	"github.com/n14asm/assembler/macro"
	"github.com/n14asm/assembler/symtab"
)

// Limits bounds the assembler's resource checks; it is populated from
// config and defaulted when no config file is present.
type Limits struct {
	MemoryCapacity  int
	MaxLineLength   int
	MaxSymbolLength int
}

// DefaultLimits mirrors the numbers spec.md names explicitly. MaxLineLength
// is 81 and counts the line's trailing newline: a line of 80 visible
// characters plus its newline is accepted, one of 81 or more is rejected.
func DefaultLimits() Limits {
	return Limits{
		MemoryCapacity:  4096,
		MaxLineLength:   81,
		MaxSymbolLength: 31,
	}
}

// Context is the per-file assembly state: symbol table, image, fixups,
// external usages, entry-name set, and the sticky/per-line error flags.
// It is created empty at the start of pass one and discarded after the
// file's artifacts are emitted - there is no inter-file state.
type Context struct {
	Filename string
	Limits   Limits

	Symbols *symtab.Table
	Image   *image.Image
	Fixups  image.FixupList
	Externs image.ExternalUsages
	Entries image.EntrySet
	Macros  *macro.Table

	Errors *asmerr.List

	// lineErr is set by fail and reset at the start of every first-pass
	// line, so it records whether the current line produced a diagnostic.
	lineErr bool
}

// NewContext creates an empty per-file assembly context.
func NewContext(filename string, limits Limits) *Context {
	return &Context{
		Filename: filename,
		Limits:   limits,
		Symbols:  symtab.New(),
		Image:    image.New(),
		Errors:   &asmerr.List{},
	}
}

// resetLineError clears the per-line flag; called once per source line.
func (c *Context) resetLineError() {
	c.lineErr = false
}

// fail records a diagnostic, sets both the per-line and sticky flags.
func (c *Context) fail(line int, kind asmerr.Kind, msg, context string) {
	c.lineErr = true
	c.Errors.Add(asmerr.NewWithContext(line, kind, msg, context))
}

// macroCollision reports whether name is already taken by a macro.
// Macro names are all known by the time the first pass runs (macro
// expansion completes beforehand), so every symbol-defining site checks
// against c.Macros before inserting - the other half of spec.md §4.B's
// collision rule, whose insert side lives in macro.Table.Insert.
func (c *Context) macroCollision(name string) bool {
	if c.Macros == nil {
		return false
	}
	_, ok := c.Macros.Lookup(name)
	return ok
}
