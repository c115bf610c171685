package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// DefaultMaxDimension is the largest width or height a frame keeps before it
// is downscaled for detection.
const DefaultMaxDimension = 800

// FitSize returns the dimensions of a width x height image after fitting it
// within a max x max box.
//
// Sizes already within the box are returned unchanged. Otherwise the larger
// side becomes exactly max and the smaller side is scaled by the same ratio,
// rounded to the nearest pixel and never below 1. A non-positive max disables
// fitting.
func FitSize(width, height, max int) (int, int) {
	if max <= 0 || (width <= max && height <= max) {
		return width, height
	}
	if width >= height {
		return max, scaleSide(height, max, width)
	}
	return scaleSide(width, max, height), max
}

func scaleSide(side, max, larger int) int {
	n := int(math.Round(float64(side) * float64(max) / float64(larger)))
	if n < 1 {
		n = 1
	}
	return n
}

// Fit returns a copy of img fitted within a max x max box.
//
// Parameters:
//   - img: Source image. It is not modified.
//   - max: Largest allowed width or height in pixels. Zero or negative
//     keeps the original size.
//
// Returns:
//   - *image.NRGBA: A new buffer with bounds starting at (0,0), sized by
//     FitSize. Images already within the box are copied unchanged; larger
//     ones are downscaled with a Lanczos filter.
//
// Callers may draw on the result without touching img.
func Fit(img image.Image, max int) *image.NRGBA {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), max)
	if w == b.Dx() && h == b.Dy() {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
