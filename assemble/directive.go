package assemble

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/n14asm/assembler/asmerr"
	"github.com/n14asm/assembler/image"
	"github.com/n14asm/assembler/isa"
	"github.com/n14asm/assembler/symtab"
)

// splitCommaList splits a directive's operand list on commas, rejecting
// leading, trailing, or consecutive (empty-element) commas.
func splitCommaList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty operand list")
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty element in comma-separated list (leading, trailing, or doubled comma)")
		}
		out = append(out, p)
	}
	return out, nil
}

// parseIntLiteral parses a decimal integer, optionally signed.
func parseIntLiteral(tok string) (int, bool) {
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// resolveValue resolves tok to an integer: either a decimal literal or the
// name of a previously defined .define constant.
func (c *Context) resolveValue(tok string) (int, error) {
	if v, ok := parseIntLiteral(tok); ok {
		return v, nil
	}
	sym, ok := c.Symbols.Lookup(tok)
	if !ok || sym.Kind != symtab.MacroDefine {
		return 0, fmt.Errorf("invalid number or undefined constant: %q", tok)
	}
	return int(int16(sym.Value)), nil
}

// processDefine handles ".define NAME = VALUE".
func (c *Context) processDefine(tail string, lineNum int, raw string) {
	eq := strings.Index(tail, "=")
	if eq < 0 {
		c.fail(lineNum, asmerr.MalformedDirective, "malformed .define, expected NAME = VALUE", raw)
		return
	}
	name := strings.TrimSpace(tail[:eq])
	valueStr := strings.TrimSpace(tail[eq+1:])
	if name == "" || valueStr == "" {
		c.fail(lineNum, asmerr.MalformedDirective, "malformed .define, expected NAME = VALUE", raw)
		return
	}
	if err := validateSymbolName(name, c.Limits.MaxSymbolLength); err != nil {
		c.fail(lineNum, asmerr.InvalidLabel, err.Error(), raw)
		return
	}
	if c.macroCollision(name) {
		c.fail(lineNum, asmerr.SymbolConflict, "define name collides with a defined macro: "+name, raw)
		return
	}
	value, ok := parseIntLiteral(valueStr)
	if !ok {
		c.fail(lineNum, asmerr.InvalidNumber, "invalid .define value: "+valueStr, raw)
		return
	}
	if value < -2048 || value > 2047 {
		c.fail(lineNum, asmerr.InvalidNumber, "define value out of range [-2048, 2047]: "+valueStr, raw)
		return
	}
	if err := c.Symbols.Insert(name, symtab.MacroDefine, uint16(int16(value))); err != nil {
		c.fail(lineNum, asmerr.SymbolConflict, err.Error(), raw)
	}
}

// processData handles ".data v1, v2, ...". label is "" when unlabeled.
func (c *Context) processData(label, tail string, lineNum int, raw string) {
	values, err := splitCommaList(tail)
	if err != nil {
		c.fail(lineNum, asmerr.MalformedDirective, err.Error(), raw)
		return
	}
	if label != "" {
		if c.macroCollision(label) {
			c.fail(lineNum, asmerr.SymbolConflict, "label collides with a defined macro: "+label, raw)
		} else if sErr := c.Symbols.Insert(label, symtab.Data, uint16(c.Image.DC())); sErr != nil {
			c.fail(lineNum, asmerr.SymbolConflict, sErr.Error(), raw)
		}
	}
	for _, v := range values {
		val, verr := c.resolveValue(v)
		if verr != nil {
			c.fail(lineNum, asmerr.InvalidNumber, verr.Error(), raw)
			continue
		}
		c.Image.AppendData(image.Entry{Kind: image.DataWord, Value: uint16(int16(val)) & 0x3FFF})
	}
}

// legalStringChar reports whether r is allowed inside a .string payload.
func legalStringChar(r rune) bool {
	if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
		return true
	}
	if r == ' ' || r == '\t' {
		return true
	}
	switch r {
	case ',', '.', '!', '?', ';', ':', '\'', '"':
		return true
	}
	return false
}

// processString handles ".string \"...\"" using either ASCII or Unicode
// curly quotes.
func (c *Context) processString(label, tail string, lineNum int, raw string) {
	tail = strings.TrimSpace(tail)
	if len(tail) < 2 {
		c.fail(lineNum, asmerr.MalformedString, "malformed or missing quotes in .string", raw)
		return
	}
	runes := []rune(tail)
	open := runes[0]
	closing := runes[len(runes)-1]
	validPair := (open == '"' && closing == '"') || (open == '“' && closing == '”')
	if !validPair {
		c.fail(lineNum, asmerr.MalformedString, "mismatched or missing quotes in .string", raw)
		return
	}
	payload := runes[1 : len(runes)-1]
	for _, r := range payload {
		if !legalStringChar(r) {
			c.fail(lineNum, asmerr.MalformedString, fmt.Sprintf("illegal character in string: %q", r), raw)
			return
		}
	}

	if label != "" {
		if c.macroCollision(label) {
			c.fail(lineNum, asmerr.SymbolConflict, "label collides with a defined macro: "+label, raw)
		} else if sErr := c.Symbols.Insert(label, symtab.Data, uint16(c.Image.DC())); sErr != nil {
			c.fail(lineNum, asmerr.SymbolConflict, sErr.Error(), raw)
		}
	}
	for _, r := range payload {
		c.Image.AppendData(image.Entry{Kind: image.DataWord, Value: uint16(r)})
	}
	c.Image.AppendData(image.Entry{Kind: image.DataWord, Value: 0})
}

// processExtern handles ".extern sym[, sym...]".
func (c *Context) processExtern(tail string, lineNum int, raw string) {
	names, err := splitCommaList(tail)
	if err != nil {
		c.fail(lineNum, asmerr.MalformedDirective, err.Error(), raw)
		return
	}
	for _, name := range names {
		if verr := validateSymbolName(name, c.Limits.MaxSymbolLength); verr != nil {
			c.fail(lineNum, asmerr.InvalidLabel, verr.Error(), raw)
			continue
		}
		if c.macroCollision(name) {
			c.fail(lineNum, asmerr.SymbolConflict, "extern name collides with a defined macro: "+name, raw)
			continue
		}
		sym, exists := c.Symbols.Lookup(name)
		switch {
		case !exists:
			if iErr := c.Symbols.Insert(name, symtab.External, 0); iErr != nil {
				c.fail(lineNum, asmerr.SymbolConflict, iErr.Error(), raw)
			}
		case sym.Kind == symtab.External:
			// no-op: already external
		default:
			c.fail(lineNum, asmerr.SymbolConflict, "symbol already defined as "+sym.Kind.String()+": "+name, raw)
		}
	}
}

// processEntryFirstPass records .entry names for resolution in pass two.
func (c *Context) processEntryFirstPass(tail string, lineNum int, raw string) {
	names, err := splitCommaList(tail)
	if err != nil {
		c.fail(lineNum, asmerr.MalformedDirective, err.Error(), raw)
		return
	}
	for _, name := range names {
		c.Entries.Add(name, lineNum)
	}
}

// validateSymbolName enforces the naming rule of spec.md §3: starts
// alphabetic, remainder alphanumeric, <= maxLen visible chars, not a
// reserved word.
func validateSymbolName(name string, maxLen int) error {
	if name == "" {
		return fmt.Errorf("empty symbol name")
	}
	if len(name) > maxLen {
		return fmt.Errorf("symbol name exceeds %d characters: %s", maxLen, name)
	}
	r0 := rune(name[0])
	if !((r0 >= 'a' && r0 <= 'z') || (r0 >= 'A' && r0 <= 'Z')) {
		return fmt.Errorf("symbol name must start with a letter: %s", name)
	}
	for _, r := range name[1:] {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return fmt.Errorf("symbol name must be alphanumeric: %s", name)
		}
	}
	if isa.Reserved(name) {
		return fmt.Errorf("reserved word cannot be used as a symbol name: %s", name)
	}
	return nil
}
