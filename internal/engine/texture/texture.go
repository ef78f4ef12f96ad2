// Package texture loads the surface texture image and prepares it for upload.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
)

// Decode decodes a PNG, JPEG, GIF or BMP image and returns it with its format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Load reads the image at path and converts it with ToRGBA. Files ending in
// .tga use DecodeTGA, everything else goes through Decode.
func Load(path string, maxSize int) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ToRGBA(img, maxSize), nil
}

// ToRGBA converts img to an RGBA image with its origin at (0, 0). When
// maxSize is positive and the longest side exceeds it, the image is scaled
// down preserving aspect ratio.
func ToRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			w, h = maxSize, max(1, h*maxSize/w)
		} else {
			w, h = max(1, w*maxSize/h), maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Placeholder returns the 1x1 opaque white image bound until a texture loads.
func Placeholder() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Path  string
	Image *image.RGBA
	Err   error
}

// LoadAsync loads path on a new goroutine. The returned channel is buffered
// and receives exactly one Result, so the caller may poll it at its leisure.
func LoadAsync(path string, maxSize int) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		img, err := Load(path, maxSize)
		ch <- Result{Path: path, Image: img, Err: err}
	}()
	return ch
}
