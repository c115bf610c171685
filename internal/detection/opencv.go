//go:build opencv

package detection

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

// OpenCVDetector runs an OpenCV Haar cascade through gocv.
type OpenCVDetector struct {
	classifier gocv.CascadeClassifier
	params     Params
}

// NewOpenCVDetector loads the Haar cascade XML file at modelPath.
func NewOpenCVDetector(modelPath string, params Params) (Detector, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("failed to read cascade file: %w", err)
	}
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(modelPath) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load cascade file %s", modelPath)
	}
	return &OpenCVDetector{classifier: classifier, params: params}, nil
}

// Detect converts img to grayscale and runs detectMultiScale over it.
func (d *OpenCVDetector) Detect(img image.Image) ([]Region, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to mat: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	minSize := image.Pt(d.params.MinSize, d.params.MinSize)
	maxSize := image.Point{}
	if d.params.MaxSize > 0 {
		maxSize = image.Pt(d.params.MaxSize, d.params.MaxSize)
	}

	rects := d.classifier.DetectMultiScaleWithParams(
		gray, d.params.ScaleFactor, d.params.MinNeighbors, 0, minSize, maxSize,
	)
	return clampRegions(rects, image.Rect(0, 0, gray.Cols(), gray.Rows())), nil
}

// Close releases the native classifier.
func (d *OpenCVDetector) Close() error {
	return d.classifier.Close()
}
