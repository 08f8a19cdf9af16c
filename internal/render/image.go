package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ImageDecoder turns an entry's self-contained data URL into a pixel
// image. Decoded results are LRU-cached by content hash: the same
// picture is rendered once per page per export, and repeated exports of
// the same range hit the cache instead of re-decoding.
type ImageDecoder struct {
	cache *lru.Cache[string, image.Image]
}

func NewImageDecoder(cacheSize int) (*ImageDecoder, error) {
	cache, err := lru.New[string, image.Image](cacheSize)
	if err != nil {
		return nil, err
	}
	return &ImageDecoder{cache: cache}, nil
}

func (d *ImageDecoder) Decode(dataURL string) (image.Image, error) {
	key := cacheKey(dataURL)
	if img, ok := d.cache.Get(key); ok {
		return img, nil
	}
	mediaType, raw, err := splitDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	var img image.Image
	if strings.EqualFold(mediaType, "image/svg+xml") {
		img, err = rasterizeSVG(raw)
	} else {
		img, _, err = image.Decode(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, fmt.Errorf("decode embedded image (%s): %w", mediaType, err)
	}
	d.cache.Add(key, img)
	return img, nil
}

func cacheKey(dataURL string) string {
	sum := sha256.Sum256([]byte(dataURL))
	return hex.EncodeToString(sum[:])
}

func splitDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("image_url is not a data URL")
	}
	mediaType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, fmt.Errorf("image_url is not base64 encoded")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image payload: %w", err)
	}
	return mediaType, raw, nil
}

func rasterizeSVG(in []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("svg format error: %w", err)
	}
	width, height := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("svg has no usable viewbox")
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	rasterizer := rasterx.NewDasher(width, height, scanner)
	icon.SetTarget(0, 0, float64(width), float64(height))
	icon.Draw(rasterizer, 1.0)
	return img, nil
}
