package minimap

import (
	"errors"
	"image/color"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

// ExportPNG writes b to path. With annotate set, each segment boundary gets
// a rule and its name.
func ExportPNG(path string, b *Bitmap, annotate bool) error {
	if b == nil || b.Image == nil {
		return errors.New("minimap: nothing to export")
	}
	dc := gg.NewContextForImage(b.Image)
	if annotate {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetLineWidth(1)
		for _, m := range b.Layout.Markers() {
			y := float64(m.Y) + 0.5
			dc.SetColor(color.RGBA{R: 0xff, G: 0xd1, B: 0x66, A: 0xff})
			dc.DrawLine(0, y, float64(b.Layout.Width), y)
			dc.Stroke()
			dc.SetColor(color.White)
			dc.DrawStringAnchored(m.Name, 3, y+2, 0, 1)
		}
	}
	return dc.SavePNG(path)
}
