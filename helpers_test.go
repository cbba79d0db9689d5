package iconsuite

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

var opaqueRed = color.NRGBA{R: 200, G: 10, B: 20, A: 255}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	return encodePNG(t, solidImage(w, h, c))
}

func mustDecode(t *testing.T, data []byte) *SourceImage {
	t.Helper()
	src, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return src
}

func mustSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	src := mustDecode(t, solidPNG(t, w, h, opaqueRed))
	defer src.Release()
	s, err := Normalize(src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	t.Cleanup(func() { s.Release() })
	return s
}

func pngSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.DecodeConfig: %v", err)
	}
	return cfg.Width, cfg.Height
}
