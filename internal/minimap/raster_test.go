package minimap

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/disasm-shell/internal/testutil"
)

func TestRasterizeColoursByKind(t *testing.T) {
	_, snap := testutil.SampleSnapshot(t)
	pal := DefaultPalette()
	job := NewJob(1, snap.Version(), 32, 64)
	job.start()
	bmp, err := Rasterize(job, snap, 4, pal)
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	if got := bmp.Image.Bounds().Dx(); got != 32 {
		t.Fatalf("width = %d", got)
	}
	x, y, _ := bmp.Layout.AddressToPixel(0x401000)
	r, g, b, _ := bmp.Image.At(x, y).RGBA()
	wr, wg, wb, _ := pal.Function.RGBA()
	if r != wr || g != wg || b != wb {
		t.Fatalf("_start pixel is not function coloured")
	}
	x, y, _ = bmp.Layout.AddressToPixel(0x403040)
	r, g, b, _ = bmp.Image.At(x, y).RGBA()
	wr, wg, wb, _ = pal.BSS.RGBA()
	if r != wr || g != wg || b != wb {
		t.Fatalf("bss pixel has wrong colour")
	}
	if bmp.Version != snap.Version() || bmp.JobID != 1 {
		t.Fatalf("bitmap tags = %d/%d", bmp.Version, bmp.JobID)
	}
}

func TestRasterizeStopsWhenCancelled(t *testing.T) {
	_, snap := testutil.SampleSnapshot(t)
	job := NewJob(1, 1, 8, 8)
	job.Cancel()
	if _, err := Rasterize(job, snap, 1, DefaultPalette()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}

func TestExportPNG(t *testing.T) {
	_, snap := testutil.SampleSnapshot(t)
	job := NewJob(1, 1, 48, 96)
	job.start()
	bmp, err := Rasterize(job, snap, 1, DefaultPalette())
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	path := filepath.Join(t.TempDir(), "map.png")
	if err := ExportPNG(path, bmp, true); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 96 {
		t.Fatalf("bounds = %v", b)
	}
	if err := ExportPNG(path, nil, false); err == nil {
		t.Fatalf("expected error exporting nil bitmap")
	}
}
