// Package emit renders a finished assembly Context into the three output
// artifacts: the object file (.ob), the entry-symbol file (.ent), and the
// external-usage file (.ext). It only ever runs once the sticky error flag
// of a Context is clear.
package emit

import (
	"fmt"
	"io"
	"sort"

	"github.com/n14asm/assembler/image"
	"github.com/n14asm/assembler/symtab"
)

// digits maps a 2-bit value to its base-4 character, per spec.md §6.
var digits = [4]byte{'*', '#', '%', '!'}

// Word renders a 14-bit machine word as seven base-4 digits, most
// significant first.
func Word(value uint16) string {
	buf := make([]byte, 7)
	for i := 0; i < 7; i++ {
		shift := uint(12 - 2*i)
		buf[i] = digits[(value>>shift)&0x3]
	}
	return string(buf)
}

// Object writes the .ob artifact: a header line "IC DC", then one "addr
// word" line per image entry, addr padded to four digits.
func Object(w io.Writer, img *image.Image) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", img.IC(), img.DC()); err != nil {
		return err
	}
	for i, e := range img.Final() {
		addr := image.Origin + i
		if _, err := fmt.Fprintf(w, "%04d %s\n", addr, Word(e.Value)); err != nil {
			return err
		}
	}
	return nil
}

// Entries writes the .ent artifact: one "name value" line per Entry
// symbol, sorted by name for deterministic output, value padded to four
// digits. Callers should skip creating the file entirely when this writes
// nothing - spec.md §4.L: "Not created if empty."
func Entries(w io.Writer, symbols *symtab.Table) error {
	entries := symbols.ByKind(symtab.Entry)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	for _, s := range entries {
		if _, err := fmt.Fprintf(w, "%s %04d\n", s.Name, s.Value); err != nil {
			return err
		}
	}
	return nil
}

// HasEntries reports whether symbols holds any Entry-kind symbol.
func HasEntries(symbols *symtab.Table) bool {
	return len(symbols.ByKind(symtab.Entry)) > 0
}

// Externs writes the .ext artifact: one "name address" line per recorded
// usage, in the order the usages were recorded, address padded to four
// digits.
func Externs(w io.Writer, usages *image.ExternalUsages) error {
	for _, u := range usages.All() {
		if _, err := fmt.Fprintf(w, "%s %04d\n", u.Name, u.Address); err != nil {
			return err
		}
	}
	return nil
}
