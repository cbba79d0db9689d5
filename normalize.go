package iconsuite

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// DefaultMaxSurfaceSide is the largest square side a Normalizer allocates.
const DefaultMaxSurfaceSide = 16384

// Surface is a square raster with the source centered on a transparent
// background. Its side never changes after creation.
type Surface struct {
	lifetime
	img  *image.NRGBA
	side int
}

func (s *Surface) Side() int { return s.side }

// Image returns a read-only view of the surface. Callers must not draw into it.
func (s *Surface) Image() (image.Image, error) {
	if !s.alive() {
		return nil, ErrReleased
	}
	return s.img, nil
}

func (s *Surface) Release() error {
	if err := s.release(); err != nil {
		return err
	}
	s.img = nil
	return nil
}

type Normalizer struct {
	// MaxSide is the largest surface side allocated. Zero means
	// DefaultMaxSurfaceSide.
	MaxSide int
}

// Normalize pads src to a square with a zero Normalizer.
func Normalize(src *SourceImage) (*Surface, error) {
	var n Normalizer
	return n.Normalize(src)
}

// Normalize returns a new max(w,h) square surface holding src at
// ((S-w)/2, (S-h)/2). src is not modified.
func (n *Normalizer) Normalize(src *SourceImage) (*Surface, error) {
	img, err := src.Image()
	if err != nil {
		return nil, err
	}
	w, h := src.Width(), src.Height()
	side := max(w, h)

	limit := n.MaxSide
	if limit <= 0 {
		limit = DefaultMaxSurfaceSide
	}
	if side > limit {
		return nil, &SurfaceAllocationError{
			Side: side,
			Err:  fmt.Errorf("%w: side exceeds %d", ErrTooLarge, limit),
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, side, side))
	dx := (side - w) / 2
	dy := (side - h) / 2
	r := image.Rect(dx, dy, dx+w, dy+h)
	if nrgba, ok := img.(*image.NRGBA); ok {
		copyRows(dst, r, nrgba)
	} else {
		draw.Draw(dst, r, img, img.Bounds().Min, draw.Src)
	}

	return &Surface{img: dst, side: side}, nil
}

// copyRows copies src into r of dst byte for byte, so alpha is preserved
// exactly.
func copyRows(dst *image.NRGBA, r image.Rectangle, src *image.NRGBA) {
	sb := src.Bounds()
	n := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		si := src.PixOffset(sb.Min.X, sb.Min.Y+y)
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		copy(dst.Pix[di:di+n], src.Pix[si:si+n])
	}
}
