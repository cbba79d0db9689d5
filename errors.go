package iconsuite

import (
	"errors"
	"fmt"
)

var (
	// ErrReleased is returned when a resource is used or released after it
	// has already been released.
	ErrReleased = errors.New("resource already released")

	// ErrUpscale is returned when a resample is requested for a size larger
	// than the surface.
	ErrUpscale = errors.New("target size exceeds surface side")

	// ErrTooLarge is returned when an input exceeds the configured limits.
	ErrTooLarge = errors.New("image too large")

	ErrNoImage     = errors.New("no image loaded")
	ErrEmptyBundle = errors.New("no icons to bundle")
)

// DecodeError reports an input that could not be decoded. It is permanent for
// that input.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid image file or format not supported: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SurfaceAllocationError reports that a square surface could not be allocated.
type SurfaceAllocationError struct {
	Side int
	Err  error
}

func (e *SurfaceAllocationError) Error() string {
	return fmt.Sprintf("allocate %dx%d surface: %v", e.Side, e.Side, e.Err)
}

func (e *SurfaceAllocationError) Unwrap() error { return e.Err }

// EncodeError reports that the icon for Size could not be produced.
type EncodeError struct {
	Size int
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %dx%d icon: %v", e.Size, e.Size, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// GenerationError reports a failed suite pass. Completed holds the artifacts
// produced before the failure; the caller owns them and must release them.
type GenerationError struct {
	Size      int
	Completed []*Artifact
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate icon suite: size %d failed after %d icons: %v", e.Size, len(e.Completed), e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
