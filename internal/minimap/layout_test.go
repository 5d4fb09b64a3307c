package minimap

import (
	"testing"

	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/atomicstack/disasm-shell/internal/testutil"
	"pgregory.net/rapid"
)

func (l Layout) offsetOf(a document.Address) (uint64, bool) {
	for _, s := range l.spans {
		if a >= s.start && a < s.end {
			return s.offset + uint64(a-s.start), true
		}
	}
	return 0, false
}

func TestLayoutSkipsUnmappedGaps(t *testing.T) {
	_, snap := testutil.SampleSnapshot(t)
	l := NewLayout(snap, 16, 16)
	if l.Total() != snap.Span() {
		t.Fatalf("total = %d, want %d", l.Total(), snap.Span())
	}
	a, ok := l.PixelToAddress(0, 0)
	if !ok || a != 0x401000 {
		t.Fatalf("first pixel = %s,%v", a, ok)
	}
	if _, _, ok := l.AddressToPixel(0x401300); ok {
		t.Fatalf("unmapped address resolved to a pixel")
	}
	if _, ok := l.PixelToAddress(16, 0); ok {
		t.Fatalf("out of range pixel resolved")
	}
}

func TestLayoutMarkers(t *testing.T) {
	_, snap := testutil.SampleSnapshot(t)
	markers := NewLayout(snap, 8, 32).Markers()
	if len(markers) != len(snap.Segments()) {
		t.Fatalf("markers = %d, want %d", len(markers), len(snap.Segments()))
	}
	if markers[0].Name != ".text" || markers[0].Y != 0 {
		t.Fatalf("first marker = %+v", markers[0])
	}
	for i := 1; i < len(markers); i++ {
		if markers[i].Y < markers[i-1].Y {
			t.Fatalf("markers out of order: %+v", markers)
		}
	}
}

func TestLayoutPixelCoversAddress(t *testing.T) {
	_, snap := testutil.SampleSnapshot(t)
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(1, 64).Draw(t, "width")
		h := rapid.IntRange(1, 256).Draw(t, "height")
		l := NewLayout(snap, w, h)
		off := rapid.Uint64Range(0, l.Total()-1).Draw(t, "offset")
		a, ok := l.resolve(off)
		if !ok {
			t.Fatalf("offset %d did not resolve", off)
		}
		x, y, ok := l.AddressToPixel(a)
		if !ok {
			t.Fatalf("address %s has no pixel", a)
		}
		first, ok := l.PixelToAddress(x, y)
		if !ok {
			t.Fatalf("pixel %d,%d has no address", x, y)
		}
		firstOff, _ := l.offsetOf(first)
		if firstOff > off {
			t.Fatalf("pixel %d,%d starts at %d, past %d", x, y, firstOff, off)
		}
		n := uint64(w) * uint64(h)
		p := uint64(y)*uint64(w) + uint64(x)
		if p+1 < n && (p+1)*l.Total()/n <= off {
			t.Fatalf("next pixel also starts at or before %d", off)
		}
	})
}

func TestLayoutHandlesHugeSpans(t *testing.T) {
	const size = uint64(1) << 62
	start := document.Address(0x1000)
	l := Layout{Width: 32, Height: 96, total: size, spans: []span{
		{name: "huge", start: start, end: start + document.Address(size)},
	}}

	mid := start + document.Address(size/2)
	if x, y, ok := l.AddressToPixel(mid); !ok || x != 0 || y != 48 {
		t.Fatalf("AddressToPixel(%s) = %d,%d,%v, want 0,48", mid, x, y, ok)
	}
	if a, ok := l.PixelToAddress(0, 48); !ok || a != mid {
		t.Fatalf("PixelToAddress(0,48) = %s,%v, want %s", a, ok, mid)
	}

	last := start + document.Address(size-1)
	if x, y, ok := l.AddressToPixel(last); !ok || x != 31 || y != 95 {
		t.Fatalf("AddressToPixel(%s) = %d,%d,%v, want 31,95", last, x, y, ok)
	}
	a, ok := l.PixelToAddress(31, 95)
	if !ok || a <= mid || a > last {
		t.Fatalf("PixelToAddress(31,95) = %s,%v, want inside the second half", a, ok)
	}
	if x, y, _ := l.AddressToPixel(a); x != 31 || y != 95 {
		t.Fatalf("first address of the last pixel maps back to %d,%d", x, y)
	}
}
