package view

import (
	"fmt"
	"sort"

	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/state"
)

// Listing is the linear disassembly representation.
type Listing struct {
	snap *document.Snapshot
	rows []row
	vp   state.Viewport
}

func newListing(snap *document.Snapshot) *Listing {
	l := &Listing{snap: snap}
	items := snap.Items()
	next := 0
	for _, seg := range snap.Segments() {
		l.rows = append(l.rows, row{
			addr: seg.Start,
			kind: LineHeader,
			text: fmt.Sprintf("; segment %s (%s) %s", seg.Name, seg.Kind, seg.Range()),
		})
		for next < len(items) && items[next].Address < seg.Start {
			next++
		}
		for ; next < len(items) && items[next].Address < seg.End; next++ {
			it := items[next]
			for _, sym := range symbolsAt(snap, it.Address) {
				l.rows = append(l.rows, row{addr: it.Address, kind: LineLabel, text: sym.Name + ":"})
			}
			l.rows = append(l.rows, row{
				addr: it.Address,
				size: it.Size,
				kind: itemKind(it),
				text: itemText(snap, it),
				item: true,
			})
		}
	}
	l.vp.SetLen(len(l.rows))
	return l
}

func symbolsAt(snap *document.Snapshot, a document.Address) []document.Symbol {
	syms := snap.Symbols()
	i := sort.Search(len(syms), func(i int) bool { return syms[i].Address >= a })
	j := i
	for j < len(syms) && syms[j].Address == a {
		j++
	}
	return syms[i:j]
}

// Locate returns the row of the item covering a.
func (l *Listing) Locate(a document.Address) (int, bool) {
	return locateRow(l.rows, a)
}

// MoveTo puts the cursor on the item covering a.
func (l *Listing) MoveTo(a document.Address) bool {
	idx, ok := l.Locate(a)
	if ok {
		l.vp.SetCursor(idx)
	}
	return ok
}

func (l *Listing) CursorAddress() (document.Address, bool) {
	if len(l.rows) == 0 {
		return 0, false
	}
	return l.rows[l.vp.Cursor].addr, true
}

func (l *Listing) Viewport() *state.Viewport { return &l.vp }

func (l *Listing) Render(height int) []Line { return renderRows(l.rows, &l.vp, height) }
