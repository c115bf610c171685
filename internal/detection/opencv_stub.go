//go:build !opencv

package detection

import "fmt"

// NewOpenCVDetector reports that the OpenCV backend was not compiled in.
// Build with -tags opencv (cgo and OpenCV required) to enable it.
func NewOpenCVDetector(modelPath string, params Params) (Detector, error) {
	return nil, fmt.Errorf("%w: %s (build with -tags opencv)", ErrBackendUnavailable, BackendOpenCV)
}
