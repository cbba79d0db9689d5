package iconsuite

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/alexmullins/zip"
	"github.com/google/go-cmp/cmp"
	ico "github.com/sergeymakinen/go-ico"
)

func suiteFor(t *testing.T, w, h int, targets TargetSizes) *Result {
	t.Helper()
	s := mustSurface(t, w, h)
	var o Orchestrator
	r, err := o.GenerateSuite(context.Background(), s, targets)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Release() })
	return r
}

func readBundle(t *testing.T, data []byte, password string) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	files := make(map[string][]byte)
	for _, f := range zr.File {
		if got, want := f.IsEncrypted(), password != ""; got != want {
			t.Errorf("%s: IsEncrypted got %v, want %v", f.Name, got, want)
		}
		if password != "" {
			f.SetPassword(password)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("%s: Open: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("%s: read: %v", f.Name, err)
		}
		files[f.Name] = b
	}
	return files
}

func names(files map[string][]byte) map[string]bool {
	out := make(map[string]bool)
	for n := range files {
		out[n] = true
	}
	return out
}

func TestWriteBundle(t *testing.T) {
	r := suiteFor(t, 300, 400, DefaultTargetSizes())
	var buf bytes.Buffer
	if err := WriteBundle(&buf, r, BundleOptions{}); err != nil {
		t.Fatal(err)
	}

	files := readBundle(t, buf.Bytes(), "")
	want := map[string]bool{
		"icons/icon-16.png":  true,
		"icons/icon-32.png":  true,
		"icons/icon-48.png":  true,
		"icons/icon-64.png":  true,
		"icons/icon-128.png": true,
		"icons/icon-180.png": true,
		"icons/icon-192.png": true,
		"icons/icon-256.png": true,
	}
	if diff := cmp.Diff(want, names(files)); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
	for _, a := range r.Artifacts() {
		data, _ := a.Bytes()
		if !bytes.Equal(files["icons/"+a.Name()], data) {
			t.Errorf("%s: bundle content differs from artifact", a.Name())
		}
	}
}

func TestWriteBundleEncrypted(t *testing.T) {
	r := suiteFor(t, 64, 64, TargetSizes{16, 64})
	var buf bytes.Buffer
	if err := WriteBundle(&buf, r, BundleOptions{Password: "hunter2"}); err != nil {
		t.Fatal(err)
	}
	files := readBundle(t, buf.Bytes(), "hunter2")
	if w, h := pngSize(t, files["icons/icon-64.png"]); w != 64 || h != 64 {
		t.Errorf("icon-64.png: got %dx%d", w, h)
	}
}

func TestWriteBundleFavicon(t *testing.T) {
	r := suiteFor(t, 40, 40, DefaultTargetSizes())
	var buf bytes.Buffer
	if err := WriteBundle(&buf, r, BundleOptions{Favicon: true}); err != nil {
		t.Fatal(err)
	}
	files := readBundle(t, buf.Bytes(), "")
	data, ok := files["icons/favicon.ico"]
	if !ok {
		t.Fatal("favicon.ico missing")
	}
	imgs, err := ico.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ico.DecodeAll: %v", err)
	}
	var sizes []int
	for _, img := range imgs {
		sizes = append(sizes, img.Bounds().Dx())
	}
	sort.Ints(sizes)
	if diff := cmp.Diff([]int{16, 32}, sizes); diff != "" {
		t.Errorf("favicon sizes (-want +got):\n%s", diff)
	}
}

func TestWriteBundleFaviconNoSmallSizes(t *testing.T) {
	r := suiteFor(t, 200, 200, TargetSizes{64, 128})
	var buf bytes.Buffer
	if err := WriteBundle(&buf, r, BundleOptions{Favicon: true}); err != nil {
		t.Fatal(err)
	}
	if _, ok := readBundle(t, buf.Bytes(), "")["icons/favicon.ico"]; ok {
		t.Error("favicon.ico written without 16, 32 or 48 px icons")
	}
}

func TestWriteBundleEmpty(t *testing.T) {
	r := suiteFor(t, 8, 8, DefaultTargetSizes())
	if err := WriteBundle(io.Discard, r, BundleOptions{}); !errors.Is(err, ErrEmptyBundle) {
		t.Errorf("got %v, want ErrEmptyBundle", err)
	}
}
