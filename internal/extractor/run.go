package extractor

import (
	"fmt"
	"image"

	"github.com/ironsheep/cascade-archive/internal/archive"
	"github.com/ironsheep/cascade-archive/internal/config"
	"github.com/ironsheep/cascade-archive/internal/detection"
	"github.com/ironsheep/cascade-archive/internal/imaging"
)

// OptionsFromConfig builds Options for c around an already opened detector.
func OptionsFromConfig(c config.Config, det detection.Detector) (Options, error) {
	box, err := imaging.ParseColor(c.BoxColor)
	if err != nil {
		return Options{}, fmt.Errorf("box_color: %w", err)
	}
	fg, err := imaging.ParseColor(c.LabelColor)
	if err != nil {
		return Options{}, fmt.Errorf("label_color: %w", err)
	}
	bg, err := imaging.ParseColor(c.LabelBackground)
	if err != nil {
		return Options{}, fmt.Errorf("label_background: %w", err)
	}
	model, _ := c.Model()

	return Options{
		ImagePath:        c.ImagePath,
		ArchiveDir:       c.ArchiveDir,
		Debug:            c.DebugLogging(),
		Variant:          c.Variant,
		Detector:         det,
		Backend:          c.Backend,
		Model:            model,
		MaxDimension:     c.MaxDimension,
		JPEGQuality:      c.JPEGQuality,
		Annotate:         c.Annotate,
		ArchiveGrayscale: c.ArchiveGrayscale,
		BoxColor:         box,
		BoxThickness:     c.BoxThickness,
		LabelColor:       fg,
		LabelBackground:  bg,
	}, nil
}

// Opener opens a detector; detection.New is the production implementation.
type Opener func(backend, modelPath string, params detection.Params) (detection.Detector, error)

// RunConfig runs the whole pipeline described by c.
//
// The image and archive directory preconditions are checked before the
// cascade model is loaded. load may be nil to decode from disk and open may
// be nil to use detection.New.
func RunConfig(c config.Config, load func(string) (image.Image, error), open Opener) (*Result, error) {
	if open == nil {
		open = detection.New
	}
	if err := imaging.CheckFile(c.ImagePath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageNotFound, err)
	}
	if err := archive.CheckDir(c.ArchiveDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveNotFound, err)
	}

	model, err := c.Model()
	if err != nil {
		return nil, err
	}
	det, err := open(c.Backend, model, c.Detector)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s classifier: %w", c.Variant, err)
	}
	defer det.Close()

	opts, err := OptionsFromConfig(c, det)
	if err != nil {
		return nil, err
	}
	opts.Load = load

	e, err := New(opts)
	if err != nil {
		return nil, err
	}
	return e.Run()
}
