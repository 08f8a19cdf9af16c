package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/mirefly/paperdiary/internal/model"
	"github.com/mirefly/paperdiary/internal/pkg/timeutil"
)

const (
	thoughtsHeading    = "My Thoughts Today..."
	ideasHeading       = "My Creative Ideas"
	imageCaption       = "Today's Memory"
	thoughtsFallback   = "No thoughts recorded."
	ideasFallback      = "No ideas recorded."
	footerText         = "From My Digital Diary"
	bodyLineSpacing    = 1.6
	sectionGapMM       = 8.0
	headerGapMM        = 5.0
	footerReserveMM    = 12.0
	imageBorderMM      = 0.5
)

// page ink colors
var (
	inkColor    = rgb(0x3D, 0x31, 0x25)
	accentColor = rgb(0xC8, 0xA0, 0x7D)
	footerColor = rgb(0x5A, 0x4A, 0x3A)
)

type color struct{ r, g, b float64 }

func rgb(r, g, b int) color {
	return color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

// Page paints one diary entry onto an off-screen surface as a fully
// laid out A4 sheet. Rendering is synchronous and deterministic: when
// Render returns without error every element has been painted, so the
// caller may capture the surface immediately. That return is the
// explicit layout-complete signal the export loop waits on.
type Page struct {
	fonts  *FontSet
	images *ImageDecoder
}

func NewPage(fonts *FontSet, images *ImageDecoder) *Page {
	return &Page{fonts: fonts, images: images}
}

func (p *Page) Render(surface *Surface, entry model.DiaryEntry) error {
	if !surface.Ready() {
		return fmt.Errorf("surface has not been reset")
	}
	dc := surface.Context()
	scale := surface.Scale()
	faces := p.fonts.faces(scale)
	px := func(mm float64) float64 { return mm * pxPerMM * scale }

	margin := px(MarginMM)
	width := float64(dc.Width())
	height := float64(dc.Height())
	contentW := width - 2*margin
	// Text past this line is clipped; the sheet has fixed dimensions.
	maxY := height - margin - px(footerReserveMM)

	// Date heading with an accent rule under it.
	setColor(dc, inkColor)
	dc.SetFontFace(faces.title)
	y := margin + dc.FontHeight()
	dc.DrawStringAnchored(HeadingDate(entry.Date), width/2, y, 0.5, 0)
	y += px(2.5)
	drawRule(dc, margin, width-margin, y, scale)
	y += px(headerGapMM)

	y = p.drawSection(dc, faces, thoughtsHeading, fallback(entry.Content, thoughtsFallback), margin, contentW, y, maxY)

	if entry.HasImage() && y < maxY {
		var err error
		y, err = p.drawImageBlock(dc, faces, entry.ImageURL, margin, contentW, y, maxY, scale)
		if err != nil {
			return err
		}
	}

	y += px(sectionGapMM)
	p.drawSection(dc, faces, ideasHeading, fallback(entry.Ideas, ideasFallback), margin, contentW, y, maxY)

	// Footer pinned to the bottom regardless of how much text fit.
	footerY := height - margin
	drawRule(dc, margin, width-margin, footerY-px(5), scale)
	setColor(dc, footerColor)
	dc.SetFontFace(faces.footer)
	dc.DrawStringAnchored(footerText, width/2, footerY, 0.5, 0)
	return nil
}

// drawSection paints a section heading plus its body text, preserving
// literal line breaks and word-wrapping each paragraph line. Returns
// the advanced cursor.
func (p *Page) drawSection(dc *gg.Context, faces faceSet, heading, body string, x, contentW, y, maxY float64) float64 {
	setColor(dc, inkColor)
	dc.SetFontFace(faces.heading)
	y += dc.FontHeight()
	if y > maxY {
		return y
	}
	dc.DrawString(heading, x, y)
	y += dc.FontHeight() * 0.6

	dc.SetFontFace(faces.body)
	lineHeight := dc.FontHeight() * bodyLineSpacing
	for _, paragraph := range strings.Split(body, "\n") {
		if paragraph == "" {
			y += lineHeight
			continue
		}
		for _, line := range dc.WordWrap(paragraph, contentW) {
			y += lineHeight
			if y > maxY {
				return y
			}
			dc.DrawString(line, x, y)
		}
	}
	return y
}

func (p *Page) drawImageBlock(dc *gg.Context, faces faceSet, dataURL string, x, contentW, y, maxY, scale float64) (float64, error) {
	src, err := p.images.Decode(dataURL)
	if err != nil {
		return y, err
	}
	px := func(mm float64) float64 { return mm * pxPerMM * scale }

	setColor(dc, inkColor)
	dc.SetFontFace(faces.subheading)
	y += px(sectionGapMM) + dc.FontHeight()
	dc.DrawStringAnchored(imageCaption, x+contentW/2, y, 0.5, 0)
	y += px(3)

	bounds := src.Bounds()
	srcW := float64(bounds.Dx())
	srcH := float64(bounds.Dy())
	if srcW <= 0 || srcH <= 0 {
		return y, fmt.Errorf("embedded image has no pixels")
	}
	// Fit to the content width and the 100mm cap; never blown up past
	// its natural size.
	fit := contentW / srcW
	if maxH := px(ImageMaxHeightMM); maxH/srcH < fit {
		fit = maxH / srcH
	}
	if fit > scale {
		fit = scale
	}
	dstW := int(srcW * fit)
	dstH := int(srcH * fit)
	if dstW < 1 || dstH < 1 {
		return y, fmt.Errorf("embedded image scales to nothing")
	}
	scaled := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, bounds, xdraw.Over, nil)

	drawX := x + (contentW-float64(dstW))/2
	setColor(dc, accentColor)
	border := px(imageBorderMM)
	dc.DrawRectangle(drawX-border, y-border, float64(dstW)+2*border, float64(dstH)+2*border)
	dc.Fill()
	dc.DrawImage(scaled, int(drawX), int(y))
	y += float64(dstH)
	if y > maxY {
		y = maxY
	}
	return y, nil
}

func drawRule(dc *gg.Context, x0, x1, y, scale float64) {
	setColor(dc, accentColor)
	dc.SetLineWidth(scale)
	dc.DrawLine(x0, y, x1, y)
	dc.Stroke()
}

func setColor(dc *gg.Context, c color) {
	dc.SetRGB(c.r, c.g, c.b)
}

func fallback(text, placeholder string) string {
	if text == "" {
		return placeholder
	}
	return text
}

// HeadingDate formats 2024-01-03 as "Wednesday, 03/01/2024", the way
// the page heading and the text exports title an entry.
func HeadingDate(date string) string {
	t, err := timeutil.ParseDay(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s, %02d/%02d/%04d", t.Weekday().String(), t.Day(), int(t.Month()), t.Year())
}
