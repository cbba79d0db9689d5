package iconsuite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels bounds the number of pixels a Decoder accepts.
const DefaultMaxPixels = 16384 * 16384

// SourceImage is a decoded bitmap. It is owned by whoever called Decode and
// must be released exactly once.
type SourceImage struct {
	lifetime
	img    image.Image
	width  int
	height int
}

func (s *SourceImage) Width() int  { return s.width }
func (s *SourceImage) Height() int { return s.height }

// Image returns the decoded pixels. It fails with ErrReleased after Release.
func (s *SourceImage) Image() (image.Image, error) {
	if !s.alive() {
		return nil, ErrReleased
	}
	return s.img, nil
}

func (s *SourceImage) Release() error {
	if err := s.release(); err != nil {
		return err
	}
	s.img = nil
	return nil
}

// Decoder turns encoded image bytes into a SourceImage.
type Decoder struct {
	// MaxPixels is the largest width*height accepted. Zero means
	// DefaultMaxPixels.
	MaxPixels int

	// IgnoreOrientation disables applying the EXIF orientation tag.
	IgnoreOrientation bool
}

// Decode decodes data with a zero Decoder.
func Decode(data []byte) (*SourceImage, error) {
	var d Decoder
	return d.Decode(data)
}

func (d *Decoder) Decode(data []byte) (*SourceImage, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: errors.New("empty input")}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, &DecodeError{Err: fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)}
	}
	limit := d.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if cfg.Width > limit/cfg.Height {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, limit)}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(!d.IgnoreOrientation))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	b := img.Bounds()
	return &SourceImage{
		img:    img,
		width:  b.Dx(),
		height: b.Dy(),
	}, nil
}
