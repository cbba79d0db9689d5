package iconsuite

import (
	"bytes"
	"errors"
	"image/gif"
	"image/jpeg"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestDecodeDimensions(t *testing.T) {
	src := mustDecode(t, solidPNG(t, 300, 400, opaqueRed))
	defer src.Release()
	if got, want := src.Width(), 300; got != want {
		t.Errorf("Width: got %d, want %d", got, want)
	}
	if got, want := src.Height(), 400; got != want {
		t.Errorf("Height: got %d, want %d", got, want)
	}
}

func TestDecodeFormats(t *testing.T) {
	img := solidImage(12, 7, opaqueRed)
	for _, test := range []struct {
		name   string
		encode func(*bytes.Buffer) error
	}{
		{"jpeg", func(b *bytes.Buffer) error { return jpeg.Encode(b, img, nil) }},
		{"gif", func(b *bytes.Buffer) error { return gif.Encode(b, img, nil) }},
		{"bmp", func(b *bytes.Buffer) error { return bmp.Encode(b, img) }},
		{"tiff", func(b *bytes.Buffer) error { return tiff.Encode(b, img, nil) }},
	} {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := test.encode(&buf); err != nil {
				t.Fatal(err)
			}
			src, err := Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			defer src.Release()
			if src.Width() != 12 || src.Height() != 7 {
				t.Fatalf("got %dx%d, want 12x7", src.Width(), src.Height())
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, test := range []struct {
		name      string
		data      []byte
		maxPixels int
		tooLarge  bool
	}{
		{name: "empty", data: nil},
		{name: "garbage", data: []byte("definitely not an image")},
		{name: "truncated", data: solidPNG(t, 10, 10, opaqueRed)[:40]},
		{name: "too large", data: solidPNG(t, 20, 20, opaqueRed), maxPixels: 399, tooLarge: true},
	} {
		t.Run(test.name, func(t *testing.T) {
			d := Decoder{MaxPixels: test.maxPixels}
			src, err := d.Decode(test.data)
			if src != nil {
				t.Fatalf("Decode: got image, want error")
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Decode: got %v, want *DecodeError", err)
			}
			if got := errors.Is(err, ErrTooLarge); got != test.tooLarge {
				t.Errorf("errors.Is(ErrTooLarge): got %v, want %v", got, test.tooLarge)
			}
		})
	}
}

func TestDecodeAtPixelLimit(t *testing.T) {
	d := Decoder{MaxPixels: 400}
	src, err := d.Decode(solidPNG(t, 20, 20, opaqueRed))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	src.Release()
}

func TestSourceImageRelease(t *testing.T) {
	src := mustDecode(t, solidPNG(t, 4, 4, opaqueRed))
	if err := src.Release(); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	if err := src.Release(); !errors.Is(err, ErrReleased) {
		t.Errorf("second Release: got %v, want ErrReleased", err)
	}
	if _, err := src.Image(); !errors.Is(err, ErrReleased) {
		t.Errorf("Image after Release: got %v, want ErrReleased", err)
	}
	if _, err := Normalize(src); !errors.Is(err, ErrReleased) {
		t.Errorf("Normalize after Release: got %v, want ErrReleased", err)
	}
}
