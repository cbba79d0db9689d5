// Package iconsuite turns one raster image into a suite of square PNG icons.
//
// The pipeline is decode, normalize to a transparent-padded square, plan
// which target sizes can be produced without upscaling, and resample each
// eligible size. A Workspace drives the pipeline for an interactive shell and
// owns every derived resource until it is superseded.
package iconsuite

import (
	"sync/atomic"
)

// lifetime marks a resource as released exactly once.
type lifetime struct {
	released atomic.Bool
}

func (l *lifetime) release() error {
	if !l.released.CompareAndSwap(false, true) {
		return ErrReleased
	}
	return nil
}

func (l *lifetime) alive() bool {
	return !l.released.Load()
}
