// Package lanczos resamples icons with the Lanczos filter from
// github.com/disintegration/imaging.
package lanczos

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
)

// Resampler is slower than the bicubic default but keeps more detail when
// shrinking large sources to small icons.
type Resampler struct{}

func (Resampler) Resample(_ context.Context, src image.Image, size int) (image.Image, error) {
	return imaging.Resize(src, size, size, imaging.Lanczos), nil
}
