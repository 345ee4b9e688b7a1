// Package image models the assembled memory image: an ordered sequence of
// 14-bit encoded words indexed from address origin 100, the deferred-fixup
// list that back-patches symbol references in the second pass, and the
// append-only external-usage and entry-name records the emitter consumes.
package image

// Origin is the absolute address of image index 0.
const Origin = 100

// WordKind categorizes how an image entry's word was, or will be, built.
type WordKind int

const (
	InstructionHeader WordKind = iota
	ImmediateWord
	DirectWord
	IndexBaseWord
	IndexOffsetWord
	RegisterWord
	DataWord
)

// Entry is one machine word in the image.
type Entry struct {
	Kind          WordKind
	Value         uint16
	Symbol        string // held symbol name for deferred fixups
	NeedsEncoding bool
}

// Image is the contiguous instruction+data memory image. Instruction words
// are appended during the first pass; data words are appended to a
// logically separate segment that is concatenated after the instruction
// segment once IC is final (see symtab.Table.RelocateData for the address
// math this mirrors).
type Image struct {
	Instructions []Entry
	Data         []Entry
}

// New creates an empty image.
func New() *Image {
	return &Image{}
}

// AppendInstruction appends a word to the instruction segment and returns
// its image index within that segment (the IC value before the append).
func (img *Image) AppendInstruction(e Entry) int {
	idx := len(img.Instructions)
	img.Instructions = append(img.Instructions, e)
	return idx
}

// AppendData appends a word to the data segment and returns its DC offset
// before the append.
func (img *Image) AppendData(e Entry) int {
	idx := len(img.Data)
	img.Data = append(img.Data, e)
	return idx
}

// SetInstruction back-patches a previously reserved instruction word, used
// by the second pass to resolve a Fixup.
func (img *Image) SetInstruction(idx int, value uint16) {
	img.Instructions[idx].Value = value
	img.Instructions[idx].NeedsEncoding = false
}

// IC is the current instruction counter (length of the instruction segment).
func (img *Image) IC() int { return len(img.Instructions) }

// DC is the current data counter (length of the data segment).
func (img *Image) DC() int { return len(img.Data) }

// Final returns the concatenated instruction+data segments, the layout the
// emitter walks: index i corresponds to absolute address Origin+i.
func (img *Image) Final() []Entry {
	out := make([]Entry, 0, len(img.Instructions)+len(img.Data))
	out = append(out, img.Instructions...)
	out = append(out, img.Data...)
	return out
}

// FixupMode distinguishes a direct symbol reference from the base-address
// word of an indexed reference; both back-patch the same way in pass two,
// but callers may want to tell them apart for diagnostics.
type FixupMode int

const (
	FixupDirect FixupMode = iota
	FixupIndex
)

// Fixup is a deferred reference: an instruction-segment image index whose
// final word depends on a symbol not yet resolved when it was reserved.
type Fixup struct {
	ImageIndex int
	Symbol     string
	Mode       FixupMode
	Line       int // source line that created the fixup, for diagnostics
}

// FixupList is the append-only queue of pending fixups, drained exactly
// once in the second pass.
type FixupList struct {
	entries []Fixup
}

// Add enqueues a fixup.
func (f *FixupList) Add(fx Fixup) {
	f.entries = append(f.entries, fx)
}

// All returns every pending fixup.
func (f *FixupList) All() []Fixup {
	return f.entries
}

// ExternalUsage records one site where an external symbol was referenced.
type ExternalUsage struct {
	Name    string
	Address int
}

// ExternalUsages is the append-only list emitted into the .ext file.
type ExternalUsages struct {
	entries []ExternalUsage
}

// Add records a usage.
func (u *ExternalUsages) Add(name string, address int) {
	u.entries = append(u.entries, ExternalUsage{Name: name, Address: address})
}

// All returns every recorded usage, in recording order.
func (u *ExternalUsages) All() []ExternalUsage {
	return u.entries
}

// EntryDecl is one ".entry name" declaration, with the line it came from so
// pass two can report an undefined or illegally-kinded entry name.
type EntryDecl struct {
	Name string
	Line int
}

// EntrySet is the set of names declared via .entry, recorded in pass one
// and applied to the symbol table in pass two.
type EntrySet struct {
	decls []EntryDecl
	seen  map[string]bool
}

// Add records a name declared .entry, once per name.
func (s *EntrySet) Add(name string, line int) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.decls = append(s.decls, EntryDecl{Name: name, Line: line})
}

// Decls returns every declared entry, in declaration order.
func (s *EntrySet) Decls() []EntryDecl {
	return s.decls
}
