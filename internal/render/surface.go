package render

import (
	"image"

	"github.com/fogleman/gg"
)

// Page geometry. The surface is an off-screen A4 sheet at a base
// density of 4 px/mm, magnified by the export quality's scale factor.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
	MarginMM     = 15.0
	// ImageMaxHeightMM bounds the embedded picture block.
	ImageMaxHeightMM = 100.0

	pxPerMM   = 4.0
	mmPerInch = 25.4
)

// Surface is the single reusable off-screen render target. It holds at
// most one entry's rendering at a time; the export pipeline resets and
// overwrites it per iteration and clears it when the export finishes.
type Surface struct {
	scale float64
	img   *image.RGBA
	dc    *gg.Context
}

func NewSurface() *Surface {
	return &Surface{}
}

// Reset prepares the surface for one page at the given scale: the
// backing pixmap is (re)allocated when the dimensions change and wiped
// to white otherwise.
func (s *Surface) Reset(scale float64) {
	w := int(PageWidthMM * pxPerMM * scale)
	h := int(PageHeightMM * pxPerMM * scale)
	if s.img == nil || s.img.Bounds().Dx() != w || s.img.Bounds().Dy() != h {
		s.img = image.NewRGBA(image.Rect(0, 0, w, h))
		s.dc = gg.NewContextForRGBA(s.img)
	}
	s.scale = scale
	s.dc.SetRGB(1, 1, 1)
	s.dc.Clear()
}

// Clear releases the backing pixmap. Called once per export, success or
// failure, so a finished export never pins a page worth of pixels.
func (s *Surface) Clear() {
	s.img = nil
	s.dc = nil
	s.scale = 0
}

func (s *Surface) Ready() bool {
	return s.dc != nil
}

func (s *Surface) Scale() float64 {
	return s.scale
}

func (s *Surface) Context() *gg.Context {
	return s.dc
}

// Image exposes the rendered pixels for capture. The pipeline must not
// start the next entry until it has encoded these.
func (s *Surface) Image() *image.RGBA {
	return s.img
}
