package render

import (
	"bytes"
	"encoding/base64"
	"image"
	stdcolor "image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mirefly/paperdiary/internal/model"
)

func newTestPage(t *testing.T) *Page {
	t.Helper()
	fonts, err := LoadFonts()
	require.NoError(t, err)
	images, err := NewImageDecoder(4)
	require.NoError(t, err)
	return NewPage(fonts, images)
}

func pngDataURL(t *testing.T, w, h int, c stdcolor.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRenderRequiresResetSurface(t *testing.T) {
	page := newTestPage(t)
	err := page.Render(NewSurface(), model.DiaryEntry{Date: "2024-01-01"})
	require.Error(t, err)
}

func TestRenderIsDeterministic(t *testing.T) {
	page := newTestPage(t)
	entry := model.DiaryEntry{
		ID:      "e1",
		Date:    "2024-01-03",
		Content: "first line\nsecond line",
		Ideas:   "a sketch idea",
	}

	first := NewSurface()
	first.Reset(1.0)
	require.NoError(t, page.Render(first, entry))

	second := NewSurface()
	second.Reset(1.0)
	require.NoError(t, page.Render(second, entry))

	require.Equal(t, first.Image().Bounds(), second.Image().Bounds())
	require.True(t, bytes.Equal(first.Image().Pix, second.Image().Pix))
}

func TestRenderPaintsFallbacksForEmptySections(t *testing.T) {
	page := newTestPage(t)

	empty := NewSurface()
	empty.Reset(1.0)
	require.NoError(t, page.Render(empty, model.DiaryEntry{ID: "e1", Date: "2024-01-03"}))

	filled := NewSurface()
	filled.Reset(1.0)
	require.NoError(t, page.Render(filled, model.DiaryEntry{
		ID:      "e1",
		Date:    "2024-01-03",
		Content: "something happened today",
	}))

	// The fallback text is painted too, so the two renderings must not
	// be pixel-identical.
	require.False(t, bytes.Equal(empty.Image().Pix, filled.Image().Pix))
}

func TestRenderIncludesImageBlock(t *testing.T) {
	page := newTestPage(t)
	entry := model.DiaryEntry{
		ID:      "e1",
		Date:    "2024-01-03",
		Content: "with a picture",
	}

	without := NewSurface()
	without.Reset(1.0)
	require.NoError(t, page.Render(without, entry))

	entry.ImageURL = pngDataURL(t, 40, 30, stdcolor.RGBA{R: 200, G: 80, B: 40, A: 255})
	with := NewSurface()
	with.Reset(1.0)
	require.NoError(t, page.Render(with, entry))

	require.False(t, bytes.Equal(without.Image().Pix, with.Image().Pix))
}

func TestRenderFailsOnBrokenImage(t *testing.T) {
	page := newTestPage(t)
	surface := NewSurface()
	surface.Reset(1.0)

	err := page.Render(surface, model.DiaryEntry{
		ID:       "e1",
		Date:     "2024-01-03",
		ImageURL: "data:image/png;base64,not-valid-base64!",
	})
	require.Error(t, err)
}

func TestSurfaceDimensionsFollowScale(t *testing.T) {
	surface := NewSurface()
	surface.Reset(1.0)
	require.Equal(t, 840, surface.Image().Bounds().Dx())
	require.Equal(t, 1188, surface.Image().Bounds().Dy())

	surface.Reset(2.0)
	require.Equal(t, 1680, surface.Image().Bounds().Dx())
	require.Equal(t, 2376, surface.Image().Bounds().Dy())

	surface.Clear()
	require.False(t, surface.Ready())
	require.Nil(t, surface.Image())
}

func TestHeadingDate(t *testing.T) {
	require.Equal(t, "Wednesday, 03/01/2024", HeadingDate("2024-01-03"))
	require.Equal(t, "Sunday, 31/12/2023", HeadingDate("2023-12-31"))
	require.Equal(t, "not-a-date", HeadingDate("not-a-date"))
}
