// Package view implements the tab contents: the disassembly view with its
// listing, graph and hex representations, the representation switcher and
// the segment table.
package view

import (
	"errors"
	"fmt"

	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/state"
)

// ErrNotFound is returned when an address has no mapping in the requested
// representation.
var ErrNotFound = errors.New("address not found")

type LineKind int

const (
	LineText LineKind = iota
	LineHeader
	LineLabel
	LineCode
	LineData
	LineBorder
	LineHex
)

// Line is one rendered row handed to the presentation layer.
type Line struct {
	Text     string
	Kind     LineKind
	Address  document.Address
	Cursor   bool
	Selected bool
}

type row struct {
	addr document.Address
	size uint32
	kind LineKind
	text string
	item bool
}

func (r row) contains(a document.Address) bool {
	if !r.item {
		return false
	}
	if r.size == 0 {
		return r.addr == a
	}
	return a >= r.addr && a < r.addr+document.Address(r.size)
}

func renderRows(rows []row, vp *state.Viewport, height int) []Line {
	start, end := vp.Window(height)
	out := make([]Line, 0, end-start)
	for i := start; i < end; i++ {
		r := rows[i]
		out = append(out, Line{Text: r.text, Kind: r.kind, Address: r.addr, Cursor: i == vp.Cursor})
	}
	return out
}

// locateRow finds the item row covering a. Rows must be sorted by address
// with label and header rows preceding the item they introduce.
func locateRow(rows []row, a document.Address) (int, bool) {
	lo, hi := 0, len(rows)
	for lo < hi {
		mid := (lo + hi) / 2
		if rows[mid].addr > a {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	for i := lo - 1; i >= 0; i-- {
		if rows[i].item {
			if rows[i].contains(a) {
				return i, true
			}
			return 0, false
		}
	}
	return 0, false
}

// describe renders "name+0x12" for a, falling back to the bare address.
func describe(snap *document.Snapshot, a document.Address) string {
	sym, ok := snap.SymbolBefore(a)
	if !ok {
		return a.String()
	}
	if seg, ok := snap.SegmentAt(a); !ok || !seg.Range().Contains(sym.Address) {
		return a.String()
	}
	if sym.Address == a {
		return sym.Name
	}
	return fmt.Sprintf("%s+%#x", sym.Name, uint64(a-sym.Address))
}

func itemText(snap *document.Snapshot, it document.Item) string {
	text := fmt.Sprintf("%s  %-28s", it.Address, it.Text)
	refs := snap.XRefsFrom(it.Address)
	if len(refs) > 0 {
		text += "; -> " + describe(snap, refs[0].To)
	}
	if n := len(snap.XRefsTo(it.Address)); n > 0 {
		text += fmt.Sprintf("  ; xrefs: %d", n)
	}
	return trimRight(text)
}

func trimRight(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == ' ' {
		i--
	}
	return s[:i]
}

func itemKind(it document.Item) LineKind {
	if it.Kind == document.ItemInstruction {
		return LineCode
	}
	return LineData
}
