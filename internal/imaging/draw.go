package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelPadding is the background margin around label text, in pixels.
const labelPadding = 2

// ParseColor parses a hex color string like "#00FF00" or "00ff00" into an
// opaque RGBA color. Short "#RGB" strings are accepted as well.
func ParseColor(hex string) (color.RGBA, error) {
	s := strings.TrimSpace(hex)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// DrawRect draws the outline of r onto dst with the given line thickness.
//
// The outline is drawn inside r and clipped to dst's bounds. A thickness
// below 1 is treated as 1.
func DrawRect(dst draw.Image, r image.Rectangle, c color.Color, thickness int) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	if thickness < 1 {
		thickness = 1
	}
	src := image.NewUniform(c)
	bands := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), // top
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y), // left
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, band := range bands {
		band = band.Intersect(r).Intersect(dst.Bounds())
		if band.Empty() {
			continue
		}
		draw.Draw(dst, band, src, image.Point{}, draw.Src)
	}
}

// DrawLabel draws text onto dst with its top-left corner at (x, y).
//
// The text uses a fixed 7x13 bitmap face over a filled background box. Any
// part of the label outside dst's bounds is clipped.
func DrawLabel(dst draw.Image, x, y int, text string, fg, bg color.Color) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	width := font.MeasureString(face, text).Ceil()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	box := image.Rect(x, y, x+width+2*labelPadding, y+height+2*labelPadding).Intersect(dst.Bounds())
	if !box.Empty() {
		draw.Draw(dst, box, image.NewUniform(bg), image.Point{}, draw.Over)
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x+labelPadding, y+labelPadding+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
}
