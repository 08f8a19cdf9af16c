package render

import (
	"encoding/base64"
	stdcolor "image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodePNGDataURL(t *testing.T) {
	decoder, err := NewImageDecoder(4)
	require.NoError(t, err)

	img, err := decoder.Decode(pngDataURL(t, 16, 9, stdcolor.RGBA{R: 10, G: 20, B: 30, A: 255}))
	require.NoError(t, err)
	require.Equal(t, 16, img.Bounds().Dx())
	require.Equal(t, 9, img.Bounds().Dy())
}

func TestDecodeSVGDataURL(t *testing.T) {
	decoder, err := NewImageDecoder(4)
	require.NoError(t, err)

	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 12"><rect x="0" y="0" width="24" height="12" fill="#c8a07d"/></svg>`
	dataURL := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))

	img, err := decoder.Decode(dataURL)
	require.NoError(t, err)
	require.Equal(t, 24, img.Bounds().Dx())
	require.Equal(t, 12, img.Bounds().Dy())
}

func TestDecodeCachesByContent(t *testing.T) {
	decoder, err := NewImageDecoder(4)
	require.NoError(t, err)

	dataURL := pngDataURL(t, 8, 8, stdcolor.RGBA{R: 1, G: 2, B: 3, A: 255})
	first, err := decoder.Decode(dataURL)
	require.NoError(t, err)
	second, err := decoder.Decode(dataURL)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, decoder.cache.Len())
}

func TestDecodeRejectsNonDataURL(t *testing.T) {
	decoder, err := NewImageDecoder(4)
	require.NoError(t, err)

	_, err = decoder.Decode("https://example.com/picture.png")
	require.Error(t, err)

	_, err = decoder.Decode("data:image/png,rawpayload")
	require.Error(t, err)

	_, err = decoder.Decode("data:image/png;base64,@@@@")
	require.Error(t, err)
}
