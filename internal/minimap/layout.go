package minimap

import (
	"math/bits"

	"github.com/atomicstack/disasm-shell/internal/document"
)

type span struct {
	name   string
	start  document.Address
	end    document.Address
	offset uint64
}

// Layout maps the mapped address space, segment after segment with no gaps,
// onto a width x height grid in row-major order.
type Layout struct {
	Width  int
	Height int
	total  uint64
	spans  []span
}

// NewLayout builds the mapping used for a render of snap.
func NewLayout(snap *document.Snapshot, width, height int) Layout {
	l := Layout{Width: width, Height: height}
	for _, seg := range snap.Segments() {
		if seg.Size() == 0 {
			continue
		}
		l.spans = append(l.spans, span{name: seg.Name, start: seg.Start, end: seg.End, offset: l.total})
		l.total += seg.Size()
	}
	return l
}

// Total is the number of mapped bytes.
func (l Layout) Total() uint64 { return l.total }

func (l Layout) pixels() uint64 {
	if l.Width <= 0 || l.Height <= 0 {
		return 0
	}
	return uint64(l.Width) * uint64(l.Height)
}

// PixelToAddress resolves a pixel to the first address it covers.
func (l Layout) PixelToAddress(x, y int) (document.Address, bool) {
	n := l.pixels()
	if n == 0 || l.total == 0 || x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return 0, false
	}
	p := uint64(y)*uint64(l.Width) + uint64(x)
	off := mulDiv(p, l.total, n)
	if off >= l.total {
		return 0, false
	}
	return l.resolve(off)
}

// AddressToPixel returns the last pixel whose first address is at or
// below a. When the image has more bytes than pixels this is the unique
// pixel covering a.
func (l Layout) AddressToPixel(a document.Address) (int, int, bool) {
	n := l.pixels()
	if n == 0 || l.total == 0 {
		return 0, 0, false
	}
	for _, s := range l.spans {
		if a >= s.start && a < s.end {
			off := s.offset + uint64(a-s.start)
			p := mulDivCeil(off+1, n, l.total) - 1
			if p >= n {
				p = n - 1
			}
			return int(p % uint64(l.Width)), int(p / uint64(l.Width)), true
		}
	}
	return 0, 0, false
}

// mulDiv returns a*b/c rounded down using a 128-bit product. The caller
// guarantees the quotient fits in 64 bits.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// mulDivCeil is mulDiv rounded up.
func mulDivCeil(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, r := bits.Div64(hi, lo, c)
	if r != 0 {
		q++
	}
	return q
}

func (l Layout) resolve(off uint64) (document.Address, bool) {
	for _, s := range l.spans {
		if size := uint64(s.end - s.start); off < s.offset+size {
			return s.start + document.Address(off-s.offset), true
		}
	}
	return 0, false
}

// Marker is a segment boundary on the bitmap.
type Marker struct {
	Name string
	X, Y int
}

// Markers returns where each mapped segment begins.
func (l Layout) Markers() []Marker {
	out := make([]Marker, 0, len(l.spans))
	for _, s := range l.spans {
		if x, y, ok := l.AddressToPixel(s.start); ok {
			out = append(out, Marker{Name: s.name, X: x, Y: y})
		}
	}
	return out
}
