package assemble

import (
	"strings"

	"github.com/n14asm/assembler/asmerr"
	"github.com/n14asm/assembler/classify"
	"github.com/n14asm/assembler/image"
	"github.com/n14asm/assembler/symtab"
)

// RunFirstPass walks the macro-expanded source line by line: classifying,
// binding labels, processing directives, and partially encoding
// instructions. It never stops at the first error - every line is
// classified and, where possible, processed, so a single run surfaces every
// diagnostic in the file (spec.md §9's sticky-flag design).
func (c *Context) RunFirstPass(src string) {
	lines := strings.Split(src, "\n")
	for i, raw := range lines {
		lineNum := i + 1
		c.resetLineError()

		// The limit counts the line's trailing newline.
		if len(raw)+1 > c.Limits.MaxLineLength {
			c.fail(lineNum, asmerr.LineTooLong, "line exceeds maximum length", raw)
			continue
		}

		res, cerr := classify.Line(raw)
		if cerr != nil {
			c.fail(lineNum, cerr.Kind, cerr.Message, raw)
			continue
		}
		c.dispatchFirstPass(lineNum, res, raw)
	}

	c.Symbols.RelocateData(c.Image.IC())

	if total := c.Image.IC() + c.Image.DC(); total > c.Limits.MemoryCapacity {
		c.Errors.Add(asmerr.New(len(lines), asmerr.InternalResource,
			"image exceeds memory capacity"))
	}
}

func (c *Context) dispatchFirstPass(lineNum int, res classify.Result, raw string) {
	switch res.Kind {
	case classify.Blank, classify.Comment:
		// nothing to do

	case classify.LabelLine:
		c.processLabelLine(lineNum, res, raw)

	case classify.DirectiveLine:
		c.processDirectiveLine(lineNum, "", res, raw)

	case classify.InstructionLine:
		c.encodeInstruction(lineNum, res.Mnemonic, res.Tail, raw)

	case classify.Invalid:
		c.fail(lineNum, asmerr.InvalidLine, "line is not a valid label, directive, or instruction", raw)
	}
}

// processLabelLine handles a line of the form "label: rest", binding the
// label to whatever rest turns out to be - except .entry/.extern/.define,
// which silently ignore a prefixing label (spec.md §4.H open-question
// decision recorded in SPEC_FULL.md §6).
func (c *Context) processLabelLine(lineNum int, res classify.Result, raw string) {
	if err := validateSymbolName(res.Label, c.Limits.MaxSymbolLength); err != nil {
		c.fail(lineNum, asmerr.InvalidLabel, err.Error(), raw)
		return
	}

	restRes, cerr := classify.Line(res.Rest)
	if cerr != nil {
		c.fail(lineNum, cerr.Kind, cerr.Message, raw)
		return
	}

	switch restRes.Kind {
	case classify.InstructionLine:
		if c.macroCollision(res.Label) {
			c.fail(lineNum, asmerr.SymbolConflict, "label collides with a defined macro: "+res.Label, raw)
			return
		}
		if err := c.Symbols.Insert(res.Label, symtab.Code, uint16(image.Origin+c.Image.IC())); err != nil {
			c.fail(lineNum, asmerr.SymbolConflict, err.Error(), raw)
			return
		}
		c.encodeInstruction(lineNum, restRes.Mnemonic, restRes.Tail, raw)

	case classify.DirectiveLine:
		switch restRes.Directive {
		case classify.DotData:
			c.processData(res.Label, restRes.Tail, lineNum, raw)
		case classify.DotString:
			c.processString(res.Label, restRes.Tail, lineNum, raw)
		case classify.DotEntry:
			c.processEntryFirstPass(restRes.Tail, lineNum, raw)
		case classify.DotExtern:
			c.processExtern(restRes.Tail, lineNum, raw)
		case classify.DotDefine:
			c.processDefine(restRes.Tail, lineNum, raw)
		case classify.UnknownDirective:
			c.fail(lineNum, asmerr.MalformedDirective, "unknown directive: "+restRes.DirectName, raw)
		}

	case classify.Blank, classify.Comment:
		c.fail(lineNum, asmerr.InvalidLabel, "label not followed by a directive or instruction", raw)

	case classify.Invalid:
		c.fail(lineNum, asmerr.InvalidLine, "label not followed by a valid directive or instruction", raw)
	}
}

// processDirectiveLine handles an unlabeled directive line.
func (c *Context) processDirectiveLine(lineNum int, label string, res classify.Result, raw string) {
	switch res.Directive {
	case classify.DotData:
		c.processData(label, res.Tail, lineNum, raw)
	case classify.DotString:
		c.processString(label, res.Tail, lineNum, raw)
	case classify.DotEntry:
		c.processEntryFirstPass(res.Tail, lineNum, raw)
	case classify.DotExtern:
		c.processExtern(res.Tail, lineNum, raw)
	case classify.DotDefine:
		c.processDefine(res.Tail, lineNum, raw)
	case classify.UnknownDirective:
		c.fail(lineNum, asmerr.MalformedDirective, "unknown directive: "+res.DirectName, raw)
	}
}
