package testutil

import (
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestExportMinimapFromBinary(t *testing.T) {
	bin := BuildBinary(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "minimap.png")
	cmd := exec.Command(bin,
		"-demo",
		"-export-minimap", out,
		"-annotate",
		"-width", "96",
		"-height", "160",
		"-log-file", filepath.Join(dir, "trace.log"),
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("export failed: %v\n%s", err, output)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 160 {
		t.Fatalf("unexpected export size %v", b)
	}
}
