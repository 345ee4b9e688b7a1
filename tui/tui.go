// Package tui is a read-only inspector for a finished assembly Context: it
// never drives execution (there is no machine to run), only renders the
// symbol table, memory image, and diagnostics the two passes produced.
// Grounded on the debugger's panelled tview layout, trimmed to the
// panels a static assembly artifact actually has.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/n14asm/assembler/asmerr"
	"github.com/n14asm/assembler/assemble"
	"github.com/n14asm/assembler/emit"
	"github.com/n14asm/assembler/image"
	"github.com/n14asm/assembler/symtab"
)

// Inspector is the text user interface over one assembled file.
type Inspector struct {
	App        *tview.Application
	MainLayout *tview.Flex

	SymbolView *tview.TextView
	ImageView  *tview.TextView
	ExternView *tview.TextView
	ErrorView  *tview.TextView
}

// Run builds and drives the inspector over ctx until the user quits with
// 'q' or Ctrl-C. It never mutates ctx.
func Run(ctx *assemble.Context) error {
	insp := newInspector(ctx)
	return insp.App.Run()
}

func newInspector(ctx *assemble.Context) *Inspector {
	insp := &Inspector{App: tview.NewApplication()}
	insp.initializeViews()
	insp.populate(ctx)
	insp.buildLayout(ctx.Filename)
	insp.setupKeyBindings()
	return insp
}

func (i *Inspector) initializeViews() {
	i.SymbolView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	i.SymbolView.SetBorder(true).SetTitle(" Symbols ")

	i.ImageView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	i.ImageView.SetBorder(true).SetTitle(" Memory Image ")

	i.ExternView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	i.ExternView.SetBorder(true).SetTitle(" External Usages ")

	i.ErrorView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	i.ErrorView.SetBorder(true).SetTitle(" Diagnostics ")
}

func (i *Inspector) buildLayout(filename string) {
	leftPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(i.SymbolView, 0, 1, false).
		AddItem(i.ExternView, 0, 1, false)

	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(i.ImageView, 0, 2, false).
		AddItem(i.ErrorView, 0, 1, false)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(leftPanel, 0, 1, false).
		AddItem(rightPanel, 0, 2, false)

	title := tview.NewTextView().
		SetText(fmt.Sprintf(" %s  (q to quit)", filename)).
		SetDynamicColors(true)

	i.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(title, 1, 0, false).
		AddItem(content, 0, 1, false)

	i.App.SetRoot(i.MainLayout, true)
}

func (i *Inspector) setupKeyBindings() {
	i.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			i.App.Stop()
			return nil
		}
		return event
	})
}

func (i *Inspector) populate(ctx *assemble.Context) {
	i.populateSymbols(ctx.Symbols)
	i.populateImage(ctx.Image)
	i.populateExterns(&ctx.Externs)
	i.populateErrors(ctx.Errors.Errors)
}

func (i *Inspector) populateSymbols(symbols *symtab.Table) {
	names := make([]string, 0, len(symbols.All()))
	for name := range symbols.All() {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		s := symbols.All()[name]
		fmt.Fprintf(&sb, "%-31s %-9s %04d\n", s.Name, s.Kind, s.Value)
	}
	i.SymbolView.SetText(sb.String())
}

func (i *Inspector) populateImage(img *image.Image) {
	var sb strings.Builder
	for idx, e := range img.Final() {
		addr := image.Origin + idx
		flag := ""
		if e.NeedsEncoding {
			flag = "  [red]unresolved[white]"
		}
		fmt.Fprintf(&sb, "%04d  %s%s\n", addr, emit.Word(e.Value), flag)
	}
	i.ImageView.SetText(sb.String())
}

func (i *Inspector) populateExterns(usages *image.ExternalUsages) {
	var sb strings.Builder
	for _, u := range usages.All() {
		fmt.Fprintf(&sb, "%-31s %04d\n", u.Name, u.Address)
	}
	i.ExternView.SetText(sb.String())
}

func (i *Inspector) populateErrors(errs []*asmerr.Error) {
	var sb strings.Builder
	for _, e := range errs {
		sb.WriteString(e.Error())
		sb.WriteString("\n")
	}
	i.ErrorView.SetText(sb.String())
}
