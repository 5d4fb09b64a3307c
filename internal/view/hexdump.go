package view

import (
	"fmt"
	"strings"

	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/state"
)

const hexRowBytes = 16

// HexDump shows the raw bytes of one segment and highlights a selection.
type HexDump struct {
	snap      *document.Snapshot
	seg       document.Segment
	rowStart  document.Address
	selection document.Range
	vp        state.Viewport
	active    bool
}

func newHexDump(snap *document.Snapshot) *HexDump {
	return &HexDump{snap: snap}
}

// Select focuses the segment containing r and selects r. The range must lie
// inside one mapped segment.
func (h *HexDump) Select(r document.Range) error {
	if r.Empty() {
		return fmt.Errorf("%w: empty range %s", ErrNotFound, r)
	}
	seg, ok := h.snap.SegmentAt(r.Start)
	if !ok || r.End > seg.End {
		return fmt.Errorf("%w: %s not in one segment", ErrNotFound, r)
	}
	h.seg = seg
	h.rowStart = seg.Start &^ (hexRowBytes - 1)
	rows := int((uint64(seg.End-h.rowStart) + hexRowBytes - 1) / hexRowBytes)
	h.vp = state.Viewport{}
	h.vp.SetLen(rows)
	h.vp.SetCursor(int(uint64(r.Start-h.rowStart) / hexRowBytes))
	h.selection = r
	h.active = true
	return nil
}

func (h *HexDump) Selection() (document.Range, bool) { return h.selection, h.active }

func (h *HexDump) Viewport() *state.Viewport { return &h.vp }

func (h *HexDump) CursorAddress() (document.Address, bool) {
	if !h.active {
		return 0, false
	}
	a := h.rowStart + document.Address(h.vp.Cursor*hexRowBytes)
	if a < h.seg.Start {
		a = h.seg.Start
	}
	return a, true
}

func (h *HexDump) Render(height int) []Line {
	if !h.active {
		return nil
	}
	start, end := h.vp.Window(height)
	out := make([]Line, 0, end-start)
	for i := start; i < end; i++ {
		base := h.rowStart + document.Address(i*hexRowBytes)
		line := Line{
			Text:     h.formatRow(base),
			Kind:     LineHex,
			Address:  base,
			Cursor:   i == h.vp.Cursor,
			Selected: base < h.selection.End && base+hexRowBytes > h.selection.Start,
		}
		out = append(out, line)
	}
	return out
}

func (h *HexDump) formatRow(base document.Address) string {
	span := document.Range{Start: base, End: base + hexRowBytes}
	if span.Start < h.seg.Start {
		span.Start = h.seg.Start
	}
	if span.End > h.seg.End {
		span.End = h.seg.End
	}
	data, _ := h.snap.ReadBytes(span)

	var hexPart, asciiPart strings.Builder
	for i := 0; i < hexRowBytes; i++ {
		a := base + document.Address(i)
		if i == hexRowBytes/2 {
			hexPart.WriteByte(' ')
		}
		switch {
		case a == h.selection.Start:
			hexPart.WriteByte('[')
		case a == h.selection.End:
			hexPart.WriteByte(']')
		default:
			hexPart.WriteByte(' ')
		}
		off := int(a - span.Start)
		if a < span.Start || a >= span.End || off >= len(data) {
			hexPart.WriteString("  ")
			asciiPart.WriteByte(' ')
			continue
		}
		b := data[off]
		fmt.Fprintf(&hexPart, "%02x", b)
		if b >= 0x20 && b < 0x7f {
			asciiPart.WriteByte(b)
		} else {
			asciiPart.WriteByte('.')
		}
	}
	if base+hexRowBytes == h.selection.End {
		hexPart.WriteByte(']')
	} else {
		hexPart.WriteByte(' ')
	}
	return fmt.Sprintf("%s %s |%s|", base, hexPart.String(), asciiPart.String())
}
