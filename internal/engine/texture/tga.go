package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrTGA is wrapped by every TGA decoding failure.
var ErrTGA = errors.New("tga")

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

type tgaHeader struct {
	idLength   int
	colorMap   byte
	imageType  byte
	width      int
	height     int
	bpp        int
	descriptor byte
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < 18 {
		return tgaHeader{}, fmt.Errorf("%w: header too short", ErrTGA)
	}
	h := tgaHeader{
		idLength:   int(data[0]),
		colorMap:   data[1],
		imageType:  data[2],
		width:      int(data[12]) | int(data[13])<<8,
		height:     int(data[14]) | int(data[15])<<8,
		bpp:        int(data[16]),
		descriptor: data[17],
	}
	switch {
	case h.colorMap != 0:
		return h, fmt.Errorf("%w: color-mapped images not supported", ErrTGA)
	case h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE:
		return h, fmt.Errorf("%w: unsupported image type %d", ErrTGA, h.imageType)
	case h.bpp != 24 && h.bpp != 32:
		return h, fmt.Errorf("%w: unsupported bit depth %d", ErrTGA, h.bpp)
	case h.width == 0 || h.height == 0:
		return h, fmt.Errorf("%w: empty image", ErrTGA)
	}
	return h, nil
}

// DecodeTGA decodes an uncompressed or RLE compressed true-color TGA image.
// TGA has no magic number, so callers choose this decoder by file extension.
func DecodeTGA(data []byte) (image.Image, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := 18 + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: truncated id field", ErrTGA)
	}
	src := data[offset:]
	stride := h.bpp / 8
	count := h.width * h.height

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	// Rows are stored bottom-up unless descriptor bit 5 is set.
	topDown := h.descriptor&0x20 != 0
	put := func(i int, c color.RGBA) {
		x, y := i%h.width, i/h.width
		if !topDown {
			y = h.height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}
	pixel := func(p []byte) color.RGBA {
		c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
		if stride == 4 {
			c.A = p[3]
		}
		return c
	}

	if h.imageType == TGATypeUncompressed {
		if len(src) < count*stride {
			return nil, fmt.Errorf("%w: truncated pixel data", ErrTGA)
		}
		for i := range count {
			put(i, pixel(src[i*stride:]))
		}
		return img, nil
	}

	i, pos := 0, 0
	for i < count {
		if pos >= len(src) {
			return nil, fmt.Errorf("%w: truncated RLE data at pixel %d", ErrTGA, i)
		}
		packet := src[pos]
		pos++
		n := min(int(packet&0x7f)+1, count-i)

		if packet&0x80 != 0 {
			if pos+stride > len(src) {
				return nil, fmt.Errorf("%w: truncated RLE packet", ErrTGA)
			}
			c := pixel(src[pos:])
			pos += stride
			for range n {
				put(i, c)
				i++
			}
			continue
		}

		if pos+n*stride > len(src) {
			return nil, fmt.Errorf("%w: truncated raw packet", ErrTGA)
		}
		for range n {
			put(i, pixel(src[pos:]))
			pos += stride
			i++
		}
	}
	return img, nil
}
