package view

import (
	"fmt"
	"strings"

	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/state"
)

// Graph renders the basic blocks of one function as stacked boxes. It only
// exists for addresses inside a known function.
type Graph struct {
	snap     *document.Snapshot
	function document.Address
	built    bool
	rows     []row
	vp       state.Viewport
}

func newGraph(snap *document.Snapshot) *Graph {
	return &Graph{snap: snap}
}

// CanShow reports whether a belongs to a function.
func (g *Graph) CanShow(a document.Address) bool {
	return g.snap.FunctionBlocks(a) != nil
}

// Locate returns the row of the instruction covering a, rebuilding the
// graph when a lies in a different function.
func (g *Graph) Locate(a document.Address) (int, bool) {
	blocks := g.snap.FunctionBlocks(a)
	if blocks == nil {
		return 0, false
	}
	if !g.built || blocks[0].Function != g.function {
		g.build(blocks)
	}
	return locateRow(g.rows, a)
}

func (g *Graph) MoveTo(a document.Address) bool {
	idx, ok := g.Locate(a)
	if ok {
		g.vp.SetCursor(idx)
	}
	return ok
}

func (g *Graph) build(blocks []document.Block) {
	fn := blocks[0].Function
	g.function = fn
	g.built = true
	g.rows = g.rows[:0]

	title := fn.String()
	if sym, ok := g.snap.SymbolAt(fn); ok {
		title = sym.Name
	}
	g.rows = append(g.rows, row{addr: fn, kind: LineHeader, text: fmt.Sprintf("; function %s (%d blocks)", title, len(blocks))})

	items := g.snap.Items()
	for _, b := range blocks {
		g.rows = append(g.rows, row{addr: b.Start, kind: LineBorder, text: "┌─ " + describe(g.snap, b.Start) + " " + strings.Repeat("─", 12)})
		last := b.Start
		start, _ := g.snap.ItemIndex(b.Start)
		for i := start; i < len(items) && items[i].Address < b.End; i++ {
			it := items[i]
			if it.Address < b.Start {
				continue
			}
			last = it.Address
			g.rows = append(g.rows, row{
				addr: it.Address,
				size: it.Size,
				kind: itemKind(it),
				text: "│ " + itemText(g.snap, it),
				item: true,
			})
		}
		g.rows = append(g.rows, row{addr: last, kind: LineBorder, text: "└─" + successors(g.snap, b)})
	}
	g.vp = state.Viewport{}
	g.vp.SetLen(len(g.rows))
}

func successors(snap *document.Snapshot, b document.Block) string {
	if len(b.Succs) == 0 {
		return " end"
	}
	names := make([]string, len(b.Succs))
	for i, s := range b.Succs {
		names[i] = describe(snap, s)
	}
	return "▶ " + strings.Join(names, ", ")
}

// Function returns the function currently laid out.
func (g *Graph) Function() (document.Address, bool) { return g.function, g.built }

func (g *Graph) CursorAddress() (document.Address, bool) {
	if !g.built || len(g.rows) == 0 {
		return 0, false
	}
	return g.rows[g.vp.Cursor].addr, true
}

func (g *Graph) Viewport() *state.Viewport { return &g.vp }

func (g *Graph) Render(height int) []Line {
	if !g.built {
		return nil
	}
	return renderRows(g.rows, &g.vp, height)
}
