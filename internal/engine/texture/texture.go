// Package texture decodes image files into texture-ready RGBA pixels.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned for an unknown image file extension.
var ErrUnsupportedFormat = errors.New("unsupported texture format")

// decoders maps lowercase file extensions to decoders. Formats are chosen by
// extension because TGA has no magic number to sniff.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
	".tga":  tga.Decode,
	".webp": nativewebp.Decode,
}

// Extensions lists the supported file extensions.
func Extensions() []string {
	return []string{".bmp", ".jpeg", ".jpg", ".png", ".tga", ".webp"}
}

// Decode reads an image of the format implied by ext (".png", ".tga", ...).
func Decode(r io.Reader, ext string) (*image.NRGBA, error) {
	decode, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	img, err := decode(r)
	if err != nil {
		return nil, err
	}
	return ToNRGBA(img), nil
}

// Load reads and decodes an image file.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	defer f.Close()

	img, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// ToNRGBA converts any image to NRGBA with its origin at (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}

// FlipVertical returns a copy of img with rows in reverse order. GL textures
// start at the bottom row.
func FlipVertical(img *image.NRGBA) *image.NRGBA {
	h := img.Rect.Dy()
	rowSize := img.Rect.Dx() * 4
	out := image.NewNRGBA(image.Rect(0, 0, img.Rect.Dx(), h))
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+rowSize]
		copy(out.Pix[(h-1-y)*out.Stride:], src)
	}
	return out
}

// Checkerboard generates a size x size pattern of cell-sized squares.
// It stands in for textures that cannot be loaded.
func Checkerboard(size, cell int, a, b color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if cell <= 0 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// LoadOrFallback loads path, returning a checkerboard and the load error
// when the file is missing or unreadable.
func LoadOrFallback(path string) (*image.NRGBA, error) {
	img, err := Load(path)
	if err != nil {
		return Checkerboard(64, 8,
			color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			color.NRGBA{R: 200, G: 60, B: 200, A: 255},
		), err
	}
	return img, nil
}
