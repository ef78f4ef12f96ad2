package texture

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func tgaHeaderBytes(imageType byte, w, h, bpp int, descriptor byte) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = byte(bpp)
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x2, 24-bit, bottom-up: first stored row is the bottom row.
	data := tgaHeaderBytes(TGATypeUncompressed, 2, 2, 24, 0)
	data = append(data,
		0, 0, 255, 0, 255, 0, // bottom: red, green
		255, 0, 0, 255, 255, 255, // top: blue, white
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 1, color.RGBA{R: 255, A: 255}},
		{1, 1, color.RGBA{G: 255, A: 255}},
		{0, 0, color.RGBA{B: 255, A: 255}},
		{1, 0, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		r, g, b, a := img.At(tt.x, tt.y).RGBA()
		got := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
		if got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1, 32-bit, top-down: one run of two red pixels, one raw blue pixel.
	data := tgaHeaderBytes(TGATypeRLE, 3, 1, 32, 0x20)
	data = append(data,
		0x81, 0, 0, 255, 128,
		0x00, 255, 0, 0, 255,
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	for x, want := range []color.RGBA{
		{R: 255, A: 128},
		{R: 255, A: 128},
		{B: 255, A: 255},
	} {
		_, _, _, a := img.At(x, 0).RGBA()
		if uint8(a>>8) != want.A {
			t.Errorf("pixel %d alpha = %d, want %d", x, a>>8, want.A)
		}
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", make([]byte, 10)},
		{"color mapped", func() []byte {
			d := tgaHeaderBytes(TGATypeUncompressed, 1, 1, 24, 0)
			d[1] = 1
			return d
		}()},
		{"grayscale type", tgaHeaderBytes(3, 1, 1, 24, 0)},
		{"16-bit", tgaHeaderBytes(TGATypeUncompressed, 1, 1, 16, 0)},
		{"truncated pixels", tgaHeaderBytes(TGATypeUncompressed, 2, 2, 24, 0)},
		{"truncated rle", append(tgaHeaderBytes(TGATypeRLE, 4, 1, 24, 0), 0x83)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); !errors.Is(err, ErrTGA) {
				t.Errorf("DecodeTGA error = %v, want ErrTGA", err)
			}
		})
	}
}

func TestLoadTGAByExtension(t *testing.T) {
	data := tgaHeaderBytes(TGATypeUncompressed, 1, 1, 24, 0)
	data = append(data, 0, 255, 0)
	path := filepath.Join(t.TempDir(), "green.TGA")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	img, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel = %v, want green", got)
	}
}
