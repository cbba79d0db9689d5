package imagemagick

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
)

// Resampler shells out to ImageMagick's convert. Images are passed as PNG on
// stdin and read back from stdout, so nothing touches the disk.
type Resampler struct {
	// Path of the convert binary. Empty means "convert" from PATH.
	Path string

	// Filter is an ImageMagick filter name. Empty means Lanczos.
	Filter string
}

func (r *Resampler) Resample(ctx context.Context, src image.Image, size int) (image.Image, error) {
	var in bytes.Buffer
	if err := png.Encode(&in, src); err != nil {
		return nil, fmt.Errorf("Failed to encode source: %w", err)
	}

	filter := r.Filter
	if filter == "" {
		filter = "Lanczos"
	}
	args := []string{
		// use only the first frame
		"png:-[0]",

		"-filter", filter,

		// exact size, the source is already square
		"-resize", fmt.Sprintf("%dx%d!", size, size),

		// keep the transparent padding
		"-background", "none",

		"-strip",
		"png32:-",
	}

	cmd := exec.CommandContext(ctx, r.binary(), args...)
	cmd.Stdin = &in
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("Failed to resize: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("Failed to decode convert output: %w", err)
	}
	return img, nil
}

func (r *Resampler) binary() string {
	if r.Path != "" {
		return r.Path
	}
	return "convert"
}

func Version() (string, error) {
	ver, err := exec.Command("convert", "-version").Output()
	if err != nil {
		return "", err
	}
	return string(ver), nil
}
