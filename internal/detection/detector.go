package detection

import (
	"errors"
	"fmt"
	"image"
	"sort"
)

// Region is an axis-aligned detection rectangle in pixel coordinates.
type Region struct {
	X      int `json:"x" yaml:"x"`           // Left edge (inclusive)
	Y      int `json:"y" yaml:"y"`           // Top edge (inclusive)
	Width  int `json:"width" yaml:"width"`   // Horizontal extent in pixels
	Height int `json:"height" yaml:"height"` // Vertical extent in pixels
}

// RegionFromRect converts an image.Rectangle to a Region.
func RegionFromRect(r image.Rectangle) Region {
	r = r.Canon()
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Detector finds regions of interest in an image.
//
// Implementations may hold native resources; callers must Close a Detector
// when they are done with it.
type Detector interface {
	// Detect returns the regions found in img, possibly none.
	Detect(img image.Image) ([]Region, error)

	// Close releases the resources held by the detector.
	Close() error
}

// Params configures the multi-scale sliding-window search.
type Params struct {
	// ScaleFactor is the window growth between scales (must be > 1).
	ScaleFactor float64 `yaml:"scale_factor"`

	// MinNeighbors is the number of overlapping raw hits a region needs to
	// be kept (opencv only; pigo filters with IoUThreshold and MinQuality).
	MinNeighbors int `yaml:"min_neighbors"`

	// MinSize and MaxSize bound the window side length in pixels. A zero
	// MaxSize means no upper bound.
	MinSize int `yaml:"min_size"`
	MaxSize int `yaml:"max_size"`

	// ShiftFactor is the window step as a fraction of its size (pigo only).
	ShiftFactor float64 `yaml:"shift_factor"`

	// IoUThreshold is the overlap above which raw hits are merged (pigo only).
	IoUThreshold float64 `yaml:"iou_threshold"`

	// MinQuality is the minimum clustered detection score (pigo only).
	MinQuality float64 `yaml:"min_quality"`
}

// DefaultParams returns the search settings used by the archive pipeline.
func DefaultParams() Params {
	return Params{
		ScaleFactor:  1.3,
		MinNeighbors: 5,
		MinSize:      30,
		MaxSize:      1000,
		ShiftFactor:  0.1,
		IoUThreshold: 0.2,
		MinQuality:   5.0,
	}
}

// Validate reports the first invalid setting.
func (p Params) Validate() error {
	switch {
	case p.ScaleFactor <= 1:
		return fmt.Errorf("scale_factor must be greater than 1, got %v", p.ScaleFactor)
	case p.MinNeighbors < 0:
		return fmt.Errorf("min_neighbors must not be negative, got %d", p.MinNeighbors)
	case p.MinSize < 0:
		return fmt.Errorf("min_size must not be negative, got %d", p.MinSize)
	case p.MaxSize != 0 && p.MaxSize < p.MinSize:
		return fmt.Errorf("max_size %d is smaller than min_size %d", p.MaxSize, p.MinSize)
	case p.ShiftFactor <= 0 || p.ShiftFactor > 1:
		return fmt.Errorf("shift_factor must be in (0, 1], got %v", p.ShiftFactor)
	case p.IoUThreshold < 0 || p.IoUThreshold > 1:
		return fmt.Errorf("iou_threshold must be in [0, 1], got %v", p.IoUThreshold)
	}
	return nil
}

// clampRegions intersects every rectangle with bounds, shifts it so bounds.Min
// is the origin, and drops the ones left empty. The result is ordered top to
// bottom, then left to right, so item indices are stable across backends.
func clampRegions(rects []image.Rectangle, bounds image.Rectangle) []Region {
	regions := make([]Region, 0, len(rects))
	for _, r := range rects {
		r = r.Canon().Intersect(bounds)
		if r.Empty() {
			continue
		}
		regions = append(regions, RegionFromRect(r.Sub(bounds.Min)))
	}
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Y != regions[j].Y {
			return regions[i].Y < regions[j].Y
		}
		return regions[i].X < regions[j].X
	})
	return regions
}

var (
	// ErrUnknownBackend is returned by New for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown detection backend")

	// ErrBackendUnavailable is returned by New when a backend was not compiled in.
	ErrBackendUnavailable = errors.New("detection backend not available in this build")
)
