package document

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := Sample().Snapshot(context.Background())
	if err != nil {
		t.Fatalf("sample snapshot: %v", err)
	}
	return snap
}

func TestSampleItemsCoverEveryMappedByte(t *testing.T) {
	snap := sampleSnapshot(t)
	for _, seg := range snap.Segments() {
		for a := seg.Start; a < seg.End; a++ {
			if _, ok := snap.ItemAt(a); !ok {
				t.Fatalf("no item covers %s in %s", a, seg.Name)
			}
		}
	}
}

func TestSegmentAt(t *testing.T) {
	snap := sampleSnapshot(t)
	seg, ok := snap.SegmentAt(0x402010)
	if !ok || seg.Name != ".rdata" {
		t.Fatalf("expected .rdata, got %+v ok=%v", seg, ok)
	}
	if _, ok := snap.SegmentAt(0x401200); ok {
		t.Fatalf("end address must not be mapped")
	}
	if _, ok := snap.SegmentAt(0x10); ok {
		t.Fatalf("low address must not be mapped")
	}
	if got, want := snap.Span(), uint64(0x200+0x100+0x80); got != want {
		t.Fatalf("span = %#x, want %#x", got, want)
	}
}

func TestSymbolLookups(t *testing.T) {
	snap := sampleSnapshot(t)
	sym, ok := snap.SymbolByName("helper")
	if !ok || sym.Address != 0x401100 {
		t.Fatalf("helper lookup: %+v ok=%v", sym, ok)
	}
	if sym, ok := snap.SymbolAt(0x401040); !ok || sym.Name != "main" {
		t.Fatalf("SymbolAt main: %+v ok=%v", sym, ok)
	}
	if sym, ok := snap.SymbolBefore(0x401051); !ok || sym.Name != "main" {
		t.Fatalf("SymbolBefore: %+v ok=%v", sym, ok)
	}
	if _, ok := snap.SymbolAt(0x401041); ok {
		t.Fatalf("no symbol expected mid-function")
	}
	if got := len(snap.SymbolsOfKind(SymbolImport)); got != 2 {
		t.Fatalf("expected 2 imports, got %d", got)
	}
}

func TestXRefIndexes(t *testing.T) {
	snap := sampleSnapshot(t)
	to := snap.XRefsTo(0x401180)
	want := []XRef{
		{From: 0x401063, To: 0x401180, Kind: XRefCall},
		{From: 0x401106, To: 0x401180, Kind: XRefCall},
	}
	if diff := cmp.Diff(want, to); diff != "" {
		t.Fatalf("XRefsTo mismatch (-want +got):\n%s", diff)
	}
	from := snap.XRefsFrom(0x401051)
	if len(from) != 1 || from[0].To != 0x401100 {
		t.Fatalf("XRefsFrom: %+v", from)
	}
}

func TestFunctionBlocks(t *testing.T) {
	snap := sampleSnapshot(t)
	blocks := snap.FunctionBlocks(0x401063)
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks for main, got %d", len(blocks))
	}
	for _, b := range blocks {
		if b.Function != 0x401040 {
			t.Fatalf("block %s belongs to %s", b.Start, b.Function)
		}
	}
	if blocks := snap.FunctionBlocks(0x402000); blocks != nil {
		t.Fatalf("data address must not resolve to a function")
	}
}

func TestReadBytes(t *testing.T) {
	snap := sampleSnapshot(t)
	got, err := snap.ReadBytes(Range{Start: 0x402000, End: 0x402005})
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if string(got) != "disas" {
		t.Fatalf("unexpected bytes %q", got)
	}
	bss, err := snap.ReadBytes(Range{Start: 0x403000, End: 0x403004})
	if err != nil {
		t.Fatalf("bss read: %v", err)
	}
	if diff := cmp.Diff([]byte{0, 0, 0, 0}, bss); diff != "" {
		t.Fatalf("bss should read as zero: %s", diff)
	}
	_, err = snap.ReadBytes(Range{Start: 0x4011f0, End: 0x402010})
	if !errors.Is(err, ErrRangeUnavailable) {
		t.Fatalf("cross-segment read should fail, got %v", err)
	}
}

func TestNewSnapshotRejectsOverlap(t *testing.T) {
	_, err := NewSnapshot(1, Contents{Segments: []Segment{
		{Name: "a", Start: 0x1000, End: 0x2000},
		{Name: "b", Start: 0x1800, End: 0x2800},
	}})
	if err == nil {
		t.Fatalf("expected overlap error")
	}
}
