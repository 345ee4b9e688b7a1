package assemble

import (
	"github.com/n14asm/assembler/asmerr"
	"github.com/n14asm/assembler/image"
	"github.com/n14asm/assembler/symtab"
)

// RunSecondPass finalizes .entry declarations and drains the Fixup List
// built during the first pass. It never touches IC/DC or image layout - only
// the already-reserved words that first pass marked NeedsEncoding, and the
// symbol table's Entry overlay.
func (c *Context) RunSecondPass() {
	for _, decl := range c.Entries.Decls() {
		_, ok := c.Symbols.Lookup(decl.Name)
		if !ok {
			c.failSecondPass(decl.Line, asmerr.UndefinedSymbol, "undefined symbol declared .entry: "+decl.Name)
			continue
		}
		if err := c.Symbols.UpdateKind(decl.Name, symtab.Entry); err != nil {
			c.failSecondPass(decl.Line, asmerr.SymbolConflict, err.Error())
		}
	}

	for _, fx := range c.Fixups.All() {
		sym, ok := c.Symbols.Lookup(fx.Symbol)
		if !ok {
			c.failSecondPass(fx.Line, asmerr.UndefinedSymbol, "undefined symbol: "+fx.Symbol)
			continue
		}
		if sym.Kind == symtab.External {
			c.Image.SetInstruction(fx.ImageIndex, 0b01)
			c.Externs.Add(sym.Name, image.Origin+fx.ImageIndex)
			continue
		}
		word := (sym.Value&0xFFF)<<2 | 0b10
		c.Image.SetInstruction(fx.ImageIndex, word)
	}
}

// failSecondPass records a diagnostic for a line that pass one already
// fully consumed; it carries no source-line context since the original raw
// line text is no longer at hand in pass two.
func (c *Context) failSecondPass(line int, kind asmerr.Kind, msg string) {
	c.Errors.Add(asmerr.New(line, kind, msg))
}
