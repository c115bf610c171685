// Package detection locates regions of interest with pretrained cascade classifiers.
//
// The package hides the cascade library behind the Detector interface so the
// archive pipeline does not depend on which implementation runs the model.
//
// # Backends
//
// Two backends are available:
//
//   - "pigo": a pure-Go pixel-intensity-comparison cascade (github.com/esimov/pigo).
//     It reads pigo's binary cascade files (e.g. "facefinder") and is always built.
//   - "opencv": OpenCV Haar cascades via gocv (gocv.io/x/gocv). It reads the
//     standard haarcascade_*.xml files. It requires cgo and an OpenCV installation
//     and is only compiled with the "opencv" build tag:
//
//     go build -tags opencv ./...
//
//     Without the tag, New returns ErrBackendUnavailable for this backend.
//
// # Variants
//
// A Variant names what is being looked for ("face_frontal" or "body") and
// supplies the default model file for each backend. Variants are plain
// configuration: any model file can be passed to New instead.
//
// # Coordinate System
//
// Regions are reported in the pixel coordinates of the image passed to
// Detect, with (0, 0) at the top-left. Every region lies inside the image
// bounds and has positive width and height.
//
// # Parameters
//
// Params carries the multi-scale search settings. ScaleFactor and MinNeighbors
// map directly onto OpenCV's detectMultiScale. The pigo backend uses
// ScaleFactor, ShiftFactor, MinSize and MaxSize for its sliding window, and
// replaces the neighbor count with IoU clustering (IoUThreshold) followed by a
// minimum detection score (MinQuality).
package detection
