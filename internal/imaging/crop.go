package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Crop extracts a rectangular region from an image into a new buffer.
//
// Parameters:
//   - img: Source image. It is not modified.
//   - r: Region in img's coordinate space. It must be non-empty and lie
//     entirely inside img.Bounds().
//
// Returns:
//   - *image.NRGBA: A copy of the region with bounds (0,0)-(r.Dx(),r.Dy()).
//     It shares no pixels with img, so drawing on either leaves the other
//     untouched.
//   - error: Non-nil if the region is invalid.
//
// # Errors
//
//   - Returns error if r is empty (zero or negative width or height)
//   - Returns error if r extends outside img's bounds
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: width and height must be positive", r)
	}
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	return imaging.Crop(img, r), nil
}

// Grayscale converts img to a single-channel image of the same size.
//
// Luminance uses bild's 0.3R + 0.6G + 0.1B weighting. The result has bounds
// (0,0)-(w,h) and one byte per pixel; an empty img yields an empty image.
func Grayscale(img image.Image) *image.Gray {
	rgba := effect.Grayscale(img)
	b := rgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := rgba.PixOffset(b.Min.X, b.Min.Y+y)
		dst := gray.PixOffset(0, y)
		// bild writes the same value to R, G and B; keep R.
		for x := 0; x < b.Dx(); x++ {
			gray.Pix[dst+x] = rgba.Pix[src+x*4]
		}
	}
	return gray
}
