package push

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Image is a single-channel byte image in row-major order. The
// observation contract treats it as an HxWx1 tensor; the trailing
// channel dimension is implicit in the single Pix plane.
type Image struct {
	W, H int
	Pix  []uint8
}

// NewImage allocates a zeroed single-channel image.
func NewImage(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]uint8, w*h)}
}

// At returns the pixel at (x, y).
func (im *Image) At(x, y int) uint8 { return im.Pix[y*im.W+x] }

// Set writes the pixel at (x, y).
func (im *Image) Set(x, y int, v uint8) { im.Pix[y*im.W+x] = v }

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := &Image{W: im.W, H: im.H, Pix: make([]uint8, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

// SameSize reports whether two images share dimensions.
func (im *Image) SameSize(other *Image) bool {
	return other != nil && im.W == other.W && im.H == other.H
}

// DefaultBorderAssets synthesizes a border mask and reference image
// for runs without calibrated sensor assets: a ring of the given
// thickness around the frame edge, filled with mid-gray.
func DefaultBorderAssets(w, h, thickness int) (mask, gray *Image) {
	mask = NewImage(w, h)
	gray = NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray.Set(x, y, 127)
			if x < thickness || y < thickness || x >= w-thickness || y >= h-thickness {
				mask.Set(x, y, 1)
			}
		}
	}
	return mask, gray
}

// LoadGrayPNG reads a grayscale PNG asset (border masks and reference
// images). Any load failure is a configuration error: the assets are
// fixed per sensor geometry and the environment cannot run without
// them.
func LoadGrayPNG(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image asset: %w", err)
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image asset %s: %w", path, err)
	}

	b := src.Bounds()
	out := NewImage(b.Dx(), b.Dy())
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, src.At(x, y))
			out.Set(x-b.Min.X, y-b.Min.Y, gray.GrayAt(x, y).Y)
		}
	}
	return out, nil
}

// SaveGrayPNG writes a single-channel image as a grayscale PNG.
func SaveGrayPNG(path string, im *Image) error {
	gray := image.NewGray(image.Rect(0, 0, im.W, im.H))
	copy(gray.Pix, im.Pix)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, gray); err != nil {
		return fmt.Errorf("encode png %s: %w", path, err)
	}
	return nil
}
