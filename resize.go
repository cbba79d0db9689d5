package iconsuite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

const (
	// Catmull-Rom bicubic. Sharpest of the built-in filters and the default.
	FilterCatmullRom = "catmullrom"

	// Bilinear over the full source footprint.
	FilterBiLinear = "bilinear"

	// Fast bilinear approximation. Lower quality when shrinking a lot.
	FilterApproxBiLinear = "approxbilinear"
)

// Resampler scales src to exactly size x size pixels. Implementations must
// not modify src.
type Resampler interface {
	Resample(ctx context.Context, src image.Image, size int) (image.Image, error)
}

// DrawResampler resamples with a golang.org/x/image/draw interpolator.
type DrawResampler struct {
	Interpolator draw.Interpolator
}

// NewDrawResampler returns the resampler for one of the Filter* names.
func NewDrawResampler(filter string) (*DrawResampler, error) {
	switch filter {
	case "", FilterCatmullRom:
		return &DrawResampler{Interpolator: draw.CatmullRom}, nil
	case FilterBiLinear:
		return &DrawResampler{Interpolator: draw.BiLinear}, nil
	case FilterApproxBiLinear:
		return &DrawResampler{Interpolator: draw.ApproxBiLinear}, nil
	}
	return nil, fmt.Errorf("unknown filter %q", filter)
}

func (r *DrawResampler) Resample(_ context.Context, src image.Image, size int) (image.Image, error) {
	in := r.Interpolator
	if in == nil {
		in = draw.CatmullRom
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	in.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// CompressionLevel maps a config name to a PNG compression level.
func CompressionLevel(name string) (png.CompressionLevel, error) {
	switch name {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	}
	return 0, fmt.Errorf("unknown compression %q", name)
}

// Engine produces PNG-encoded square icons from a Surface.
type Engine struct {
	// Resampler defaults to Catmull-Rom.
	Resampler   Resampler
	Compression png.CompressionLevel
}

// Resample draws the whole surface into a size x size raster and encodes it
// as PNG. size must be in [1, s.Side()]; larger sizes fail with ErrUpscale.
func (e *Engine) Resample(ctx context.Context, s *Surface, size int) ([]byte, error) {
	if size < 1 {
		return nil, fmt.Errorf("invalid target size %d", size)
	}
	if size > s.Side() {
		return nil, fmt.Errorf("%w: %d > %d", ErrUpscale, size, s.Side())
	}
	src, err := s.Image()
	if err != nil {
		return nil, err
	}

	r := e.Resampler
	if r == nil {
		r = &DrawResampler{Interpolator: draw.CatmullRom}
	}
	out, err := r.Resample(ctx, src, size)
	if err != nil {
		return nil, &EncodeError{Size: size, Err: err}
	}
	if b := out.Bounds(); b.Dx() != size || b.Dy() != size {
		return nil, &EncodeError{Size: size, Err: fmt.Errorf("resampler returned %dx%d", b.Dx(), b.Dy())}
	}

	data, err := e.encode(out)
	if err != nil {
		return nil, &EncodeError{Size: size, Err: err}
	}
	return data, nil
}

// Preview PNG-encodes the whole surface at its own side.
func (e *Engine) Preview(s *Surface) ([]byte, error) {
	img, err := s.Image()
	if err != nil {
		return nil, err
	}
	data, err := e.encode(img)
	if err != nil {
		return nil, &EncodeError{Size: s.Side(), Err: err}
	}
	return data, nil
}

func (e *Engine) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: e.Compression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
