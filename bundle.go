package iconsuite

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/alexmullins/zip"
	ico "github.com/sergeymakinen/go-ico"
)

// BundlePrefix is the directory every bundle entry lives under.
const BundlePrefix = "icons/"

// faviconSizes are the sizes packed into favicon.ico when present.
var faviconSizes = []int{16, 32, 48}

type BundleOptions struct {
	// Password encrypts every entry with AES-256 when set.
	Password string

	// Favicon adds icons/favicon.ico built from the 16, 32 and 48 px icons
	// that were produced.
	Favicon bool
}

// WriteBundle writes a ZIP archive of the produced icons of r to w. Skipped
// sizes contribute nothing. The archive is built on every call.
func WriteBundle(w io.Writer, r *Result, opts BundleOptions) error {
	artifacts := r.Artifacts()
	if len(artifacts) == 0 {
		return ErrEmptyBundle
	}

	zw := zip.NewWriter(w)
	for _, a := range artifacts {
		data, err := a.Bytes()
		if err != nil {
			return fmt.Errorf("%s: %w", a.Name(), err)
		}
		if err := writeBundleEntry(zw, BundlePrefix+a.Name(), data, opts.Password); err != nil {
			return err
		}
	}

	if opts.Favicon {
		data, err := favicon(artifacts)
		if err != nil {
			return err
		}
		if data != nil {
			if err := writeBundleEntry(zw, BundlePrefix+"favicon.ico", data, opts.Password); err != nil {
				return err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish bundle: %w", err)
	}
	return nil
}

func writeBundleEntry(zw *zip.Writer, name string, data []byte, password string) error {
	var (
		fw  io.Writer
		err error
	)
	if password != "" {
		fw, err = zw.Encrypt(name, password)
	} else {
		fw, err = zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	}
	if err != nil {
		return fmt.Errorf("failed to create bundle entry %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("failed to write bundle entry %s: %w", name, err)
	}
	return nil
}

// favicon returns a multi-size ICO, or nil when none of faviconSizes were
// produced.
func favicon(artifacts []*Artifact) ([]byte, error) {
	var imgs []image.Image
	for _, a := range artifacts {
		if !containsInt(faviconSizes, a.Size()) {
			continue
		}
		data, err := a.Bytes()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.Name(), err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.Name(), err)
		}
		imgs = append(imgs, img)
	}
	if len(imgs) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := ico.EncodeAll(&buf, imgs); err != nil {
		return nil, fmt.Errorf("failed to encode favicon: %w", err)
	}
	return buf.Bytes(), nil
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
