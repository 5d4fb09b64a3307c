package view

import (
	"fmt"

	"github.com/atomicstack/disasm-shell/internal/capability"
	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/format/table"
	"github.com/atomicstack/disasm-shell/internal/state"
)

// Segments is a read-only segment table. It has no command-tab facet, so
// activating it disables every routed command.
type Segments struct {
	snap *document.Snapshot
	vp   state.Viewport
}

func NewSegments(snap *document.Snapshot) *Segments {
	s := &Segments{snap: snap}
	s.vp.SetLen(len(snap.Segments()))
	return s
}

func (s *Segments) Title() string { return "segments" }

func (s *Segments) CommandTab() (capability.CommandTab, bool) { return nil, false }

func (s *Segments) SetSnapshot(snap *document.Snapshot) {
	if snap == nil {
		return
	}
	s.snap = snap
	s.vp.SetLen(len(snap.Segments()))
}

func (s *Segments) MoveCursor(delta int) bool { return s.vp.MoveBy(delta) }

// Selected returns the segment under the cursor.
func (s *Segments) Selected() (document.Segment, bool) {
	segs := s.snap.Segments()
	if len(segs) == 0 {
		return document.Segment{}, false
	}
	return segs[s.vp.Cursor], true
}

func (s *Segments) Render(height int) []Line {
	segs := s.snap.Segments()
	rows := make([][]string, len(segs))
	for i, seg := range segs {
		symbols := 0
		for _, sym := range s.snap.Symbols() {
			if seg.Range().Contains(sym.Address) {
				symbols++
			}
		}
		rows[i] = []string{seg.Name, seg.Start.String(), seg.End.String(), fmt.Sprintf("%#x", seg.Size()), seg.Kind.String(), fmt.Sprint(symbols)}
	}
	text := table.WithHeader(
		[]string{"segment", "start", "end", "size", "kind", "symbols"},
		rows,
		[]table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft, table.AlignRight, table.AlignLeft, table.AlignRight},
	)
	out := []Line{
		{Text: text[0], Kind: LineHeader},
		{Text: text[1], Kind: LineBorder},
	}
	body := height - len(out)
	start, end := s.vp.Window(body)
	for i := start; i < end; i++ {
		out = append(out, Line{Text: text[i+2], Kind: LineText, Address: segs[i].Start, Cursor: i == s.vp.Cursor})
	}
	return out
}
