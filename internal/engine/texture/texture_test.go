package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func writeImage(t *testing.T, name string, encode func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeFormats(t *testing.T) {
	src := checker(4, 3)

	tests := []struct {
		format string
		encode func(*bytes.Buffer) error
	}{
		{"png", func(b *bytes.Buffer) error { return png.Encode(b, src) }},
		{"bmp", func(b *bytes.Buffer) error { return bmp.Encode(b, src) }},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf); err != nil {
				t.Fatal(err)
			}
			img, format, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %s, want %s", format, tt.format)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
				t.Errorf("bounds = %v, want 4x3", img.Bounds())
			}
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected error decoding garbage")
	}
}

func TestLoad(t *testing.T) {
	path := writeImage(t, "checker.bmp", func(b *bytes.Buffer) error {
		return bmp.Encode(b, checker(8, 8))
	})

	img, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want red", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel (1,0) = %v, want blue", got)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"), 0)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load error = %v, want ErrNotExist", err)
	}
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"no limit", 300, 200, 0, 300, 200},
		{"within limit", 300, 200, 512, 300, 200},
		{"landscape", 1024, 512, 256, 256, 128},
		{"portrait", 100, 400, 200, 50, 200},
		{"thin", 1000, 1, 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRGBA(checker(tt.w, tt.h), tt.max)
			b := got.Bounds()
			if b.Min != (image.Point{}) {
				t.Errorf("origin = %v, want (0,0)", b.Min)
			}
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestToRGBAOffsetOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 7))
	src.SetRGBA(5, 5, color.RGBA{G: 255, A: 255})

	got := ToRGBA(src, 0)
	if got.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v, want (0,0)-(2,2)", got.Bounds())
	}
	if got.RGBAAt(0, 0) != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want green", got.RGBAAt(0, 0))
	}
}

func TestPlaceholder(t *testing.T) {
	img := Placeholder()
	if img.Bounds() != image.Rect(0, 0, 1, 1) {
		t.Fatalf("bounds = %v, want 1x1", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel = %v, want opaque white", got)
	}
}

func TestLoadAsync(t *testing.T) {
	path := writeImage(t, "tex.png", func(b *bytes.Buffer) error {
		return png.Encode(b, checker(16, 16))
	})

	select {
	case res := <-LoadAsync(path, 8):
		if res.Err != nil {
			t.Fatalf("LoadAsync: %v", res.Err)
		}
		if res.Path != path {
			t.Errorf("path = %s, want %s", res.Path, path)
		}
		if res.Image.Bounds().Dx() != 8 {
			t.Errorf("width = %d, want 8", res.Image.Bounds().Dx())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("LoadAsync did not deliver a result")
	}
}

func TestLoadAsyncError(t *testing.T) {
	res := <-LoadAsync(filepath.Join(t.TempDir(), "missing.jpg"), 0)
	if res.Err == nil {
		t.Error("expected error for missing file")
	}
	if res.Image != nil {
		t.Error("expected nil image on error")
	}
}
