package render

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontSet holds the parsed typefaces used on a printable page: a
// display face for the date heading and section titles, and a text
// face for body copy. Faces are derived per render because the pixel
// size depends on the rasterization scale.
type FontSet struct {
	display *truetype.Font
	text    *truetype.Font
}

func LoadFonts() (*FontSet, error) {
	display, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse display font: %w", err)
	}
	text, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse text font: %w", err)
	}
	return &FontSet{display: display, text: text}, nil
}

type faceSet struct {
	title      font.Face
	heading    font.Face
	subheading font.Face
	body       font.Face
	footer     font.Face
}

// faces builds the five page faces at the given scale. Point sizes
// follow the printable page: 24pt date, 18pt sections, 14pt image
// caption, 12pt body, 9pt footer.
func (f *FontSet) faces(scale float64) faceSet {
	dpi := pxPerMM * mmPerInch * scale
	newFace := func(src *truetype.Font, points float64) font.Face {
		return truetype.NewFace(src, &truetype.Options{Size: points, DPI: dpi})
	}
	return faceSet{
		title:      newFace(f.display, 24),
		heading:    newFace(f.display, 18),
		subheading: newFace(f.display, 14),
		body:       newFace(f.text, 12),
		footer:     newFace(f.text, 9),
	}
}
