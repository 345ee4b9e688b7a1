package assemble

import (
	"github.com/n14asm/assembler/clean"
	"github.com/n14asm/assembler/macro"
)

// File runs the full pipeline for one source file's already-read content:
// comment stripping, macro expansion, first pass, second pass. The returned
// Context always holds every diagnostic recorded by any stage; callers must
// check Errors.Failed() before treating the image as emittable (spec.md
// §9: pass two always runs, even after pass-one errors, to keep line
// numbers aligned, but its diagnostics never mask pass one's).
func File(filename string, src string, limits Limits) *Context {
	c := NewContext(filename, limits)

	stripped := clean.Strip(src)

	expanded, macroTable, macroErrs := macro.Expand(stripped)
	c.Macros = macroTable
	for _, e := range macroErrs.Errors {
		c.Errors.Add(e)
	}

	c.RunFirstPass(expanded)
	c.RunSecondPass()

	return c
}
