package detection

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// PigoDetector runs a pigo binary cascade.
type PigoDetector struct {
	classifier *pigo.Pigo
	params     Params
}

// NewPigoDetector reads and unpacks the cascade file at modelPath.
func NewPigoDetector(modelPath string, params Params) (*PigoDetector, error) {
	cascade, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade file: %w", err)
	}
	classifier, err := unpackCascade(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack cascade file %s: %w", modelPath, err)
	}
	return &PigoDetector{classifier: classifier, params: params}, nil
}

// unpackCascade converts the panics pigo raises on truncated input into errors.
func unpackCascade(cascade []byte) (classifier *pigo.Pigo, err error) {
	if len(cascade) == 0 {
		return nil, fmt.Errorf("empty cascade")
	}
	defer func() {
		if r := recover(); r != nil {
			classifier, err = nil, fmt.Errorf("malformed cascade: %v", r)
		}
	}()
	return pigo.NewPigo().Unpack(cascade)
}

// Detect runs the cascade over img at every scale between MinSize and MaxSize.
func (d *PigoDetector) Detect(img image.Image) ([]Region, error) {
	src := pigo.ImgToNRGBA(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()
	if cols == 0 || rows == 0 {
		return nil, nil
	}

	maxSize := d.params.MaxSize
	if maxSize == 0 {
		maxSize = max(cols, rows)
	}

	params := pigo.CascadeParams{
		MinSize:     d.params.MinSize,
		MaxSize:     maxSize,
		ShiftFactor: d.params.ShiftFactor,
		ScaleFactor: d.params.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	// Angle 0: upright faces only.
	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.params.IoUThreshold)

	return clampRegions(squareRects(dets, d.params.MinQuality), image.Rect(0, 0, cols, rows)), nil
}

// squareRects converts pigo's centre and side length detections into
// rectangles, dropping those scoring below minQuality. Rectangles may extend
// past the frame.
func squareRects(dets []pigo.Detection, minQuality float64) []image.Rectangle {
	rects := make([]image.Rectangle, 0, len(dets))
	for _, det := range dets {
		if float64(det.Q) < minQuality {
			continue
		}
		x0, y0 := det.Col-det.Scale/2, det.Row-det.Scale/2
		rects = append(rects, image.Rect(x0, y0, x0+det.Scale, y0+det.Scale))
	}
	return rects
}

// Close is a no-op; the pigo classifier holds no native resources.
func (d *PigoDetector) Close() error {
	return nil
}
