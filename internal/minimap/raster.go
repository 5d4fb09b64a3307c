package minimap

import (
	"image"
	"image/color"
	"sort"

	"git.sr.ht/~sbinet/gg"
	"github.com/atomicstack/disasm-shell/internal/document"
)

// Palette colours each class of byte.
type Palette struct {
	Background color.Color
	Function   color.Color
	Code       color.Color
	Data       color.Color
	String     color.Color
	BSS        color.Color
	Padding    color.Color
}

func DefaultPalette() Palette {
	return Palette{
		Background: color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xff},
		Function:   color.RGBA{R: 0x3a, G: 0x86, B: 0xff, A: 0xff},
		Code:       color.RGBA{R: 0x8a, G: 0xb4, B: 0xf8, A: 0xff},
		Data:       color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff},
		String:     color.RGBA{R: 0x6f, G: 0xcf, B: 0x97, A: 0xff},
		BSS:        color.RGBA{R: 0x5a, G: 0x4a, B: 0x78, A: 0xff},
		Padding:    color.RGBA{R: 0x30, G: 0x30, B: 0x38, A: 0xff},
	}
}

// Bitmap is a finished render.
type Bitmap struct {
	Image           image.Image
	Layout          Layout
	Version         uint64
	SnapshotVersion uint64
	JobID           uint64
}

type classifier struct {
	snap      *document.Snapshot
	functions []document.Range
	pal       Palette
}

func newClassifier(snap *document.Snapshot, pal Palette) *classifier {
	c := &classifier{snap: snap, pal: pal}
	for _, b := range snap.Blocks() {
		c.functions = append(c.functions, document.Range{Start: b.Start, End: b.End})
	}
	sort.Slice(c.functions, func(i, j int) bool { return c.functions[i].Start < c.functions[j].Start })
	return c
}

func (c *classifier) inFunction(a document.Address) bool {
	i := sort.Search(len(c.functions), func(i int) bool { return c.functions[i].End > a })
	return i < len(c.functions) && c.functions[i].Contains(a)
}

func (c *classifier) colorAt(a document.Address) color.Color {
	seg, ok := c.snap.SegmentAt(a)
	if !ok {
		return c.pal.Background
	}
	if seg.Kind == document.SegmentBSS {
		return c.pal.BSS
	}
	it, ok := c.snap.ItemAt(a)
	if !ok || it.Text == "align" {
		return c.pal.Padding
	}
	if it.Kind == document.ItemInstruction {
		if c.inFunction(a) {
			return c.pal.Function
		}
		return c.pal.Code
	}
	if sym, ok := c.snap.SymbolAt(it.Address); ok && sym.Kind == document.SymbolString {
		return c.pal.String
	}
	return c.pal.Data
}

// Rasterize draws snap for job one row at a time. The cancellation flag is
// checked every rowsPerCheck rows; a cancelled job returns ErrCancelled and
// no partial bitmap.
func Rasterize(job *Job, snap *document.Snapshot, rowsPerCheck int, pal Palette) (*Bitmap, error) {
	if rowsPerCheck < 1 {
		rowsPerCheck = 1
	}
	layout := NewLayout(snap, job.Width, job.Height)
	dc := gg.NewContext(job.Width, job.Height)
	dc.SetColor(pal.Background)
	dc.Clear()

	cls := newClassifier(snap, pal)
	for y := 0; y < job.Height; y++ {
		if y%rowsPerCheck == 0 && job.Cancelled() {
			return nil, ErrCancelled
		}
		for x := 0; x < job.Width; x++ {
			a, ok := layout.PixelToAddress(x, y)
			if !ok {
				continue
			}
			dc.SetColor(cls.colorAt(a))
			dc.SetPixel(x, y)
		}
	}
	return &Bitmap{
		Image:           dc.Image(),
		Layout:          layout,
		Version:         job.Version,
		SnapshotVersion: snap.Version(),
		JobID:           job.ID,
	}, nil
}
