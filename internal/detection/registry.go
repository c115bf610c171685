package detection

import (
	"fmt"
	"strings"
)

// Backend names accepted by New.
const (
	BackendPigo   = "pigo"
	BackendOpenCV = "opencv"
)

// Backends lists the backend names accepted by New.
func Backends() []string {
	return []string{BackendPigo, BackendOpenCV}
}

// New creates a detector for backend that runs the cascade stored in modelPath.
func New(backend, modelPath string, params Params) (Detector, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector params: %w", err)
	}
	switch strings.ToLower(backend) {
	case BackendPigo, "":
		d, err := NewPigoDetector(modelPath, params)
		if err != nil {
			return nil, err
		}
		return d, nil
	case BackendOpenCV:
		return NewOpenCVDetector(modelPath, params)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
