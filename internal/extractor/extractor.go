package extractor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"path/filepath"
	"time"

	"github.com/ironsheep/cascade-archive/internal/archive"
	"github.com/ironsheep/cascade-archive/internal/detection"
	"github.com/ironsheep/cascade-archive/internal/imaging"
)

// LabelLayout formats the timestamp drawn on the full frame.
const LabelLayout = "2006-01-02 15:04:05"

// labelOffset is the distance of the timestamp label from the frame's top-left corner.
const labelOffset = 5

var (
	// ErrImageNotFound is returned by New when the image path does not name
	// a readable file.
	ErrImageNotFound = errors.New("image not found")

	// ErrArchiveNotFound is returned by New when the archive directory does
	// not exist.
	ErrArchiveNotFound = errors.New("archive directory not found")
)

// Options configures an Extractor. ImagePath, ArchiveDir, Variant and
// Detector are required; every other field has a default.
type Options struct {
	ImagePath  string
	ArchiveDir string

	// Debug logs every step and detection.
	Debug bool

	Variant  detection.Variant
	Detector detection.Detector

	// Backend and Model are recorded in the manifest only.
	Backend string
	Model   string

	// MaxDimension bounds the frame's width and height (default 800).
	MaxDimension int

	// JPEGQuality of archived files (default 95).
	JPEGQuality int

	// Annotate draws detection boxes and the timestamp label on the full
	// frame before it is archived.
	Annotate bool

	// ArchiveGrayscale writes crops as single-channel images.
	ArchiveGrayscale bool

	BoxColor        color.Color // default green
	BoxThickness    int         // default 2
	LabelColor      color.Color // default white
	LabelBackground color.Color // default black

	// Load decodes the image file. Defaults to imaging.Load.
	Load func(path string) (image.Image, error)

	// Now supplies the run timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Item is one extracted crop and the region it was cut from.
type Item struct {
	Image  image.Image
	Region detection.Region
}

// Result summarizes a completed Run.
type Result struct {
	Timestamp string             `json:"timestamp"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Regions   []detection.Region `json:"regions"`
	Items     []string           `json:"items"`
	Full      string             `json:"full"`
	Manifest  string             `json:"manifest"`
}

// Extractor runs the pipeline for a single image.
type Extractor struct {
	opts    Options
	archive *archive.Archive
	stamp   time.Time

	source image.Point
	frame  *image.NRGBA

	regions []detection.Region
	items   []Item

	found     bool
	extracted bool
	annotated bool
}

// New validates the preconditions, then loads and fits the image.
//
// Parameters:
//   - opts: Run settings. ImagePath, ArchiveDir, Variant and Detector are
//     required; zero values of the other fields take their defaults.
//
// Returns:
//   - *Extractor: Ready to run, holding the fitted frame and the run
//     timestamp that every archived file will share.
//   - error: Non-nil if a precondition fails or the image cannot be decoded.
//
// Both preconditions are checked before the image is decoded. New never
// writes a file and never creates the archive directory.
//
// # Errors
//
//   - ErrImageNotFound if opts.ImagePath is not a readable regular file
//   - ErrArchiveNotFound if opts.ArchiveDir does not exist or is not a directory
//   - Returns error if Detector is nil or Variant is unknown
//   - Returns error if the image cannot be decoded
func New(opts Options) (*Extractor, error) {
	if err := imaging.CheckFile(opts.ImagePath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageNotFound, err)
	}
	if err := archive.CheckDir(opts.ArchiveDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveNotFound, err)
	}
	if opts.Detector == nil {
		return nil, fmt.Errorf("no detector configured")
	}
	if _, err := detection.ParseVariant(string(opts.Variant)); err != nil {
		return nil, err
	}
	applyDefaults(&opts)

	stamp := opts.Now()
	arc, err := archive.New(opts.ArchiveDir, string(opts.Variant), stamp, opts.JPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveNotFound, err)
	}

	img, err := opts.Load(opts.ImagePath)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		opts:    opts,
		archive: arc,
		stamp:   stamp,
		source:  img.Bounds().Size(),
		frame:   imaging.Fit(img, opts.MaxDimension),
	}
	e.debugf("loaded %s: %dx%d, frame %dx%d",
		opts.ImagePath, e.source.X, e.source.Y, e.frame.Bounds().Dx(), e.frame.Bounds().Dy())
	return e, nil
}

func applyDefaults(opts *Options) {
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = imaging.DefaultMaxDimension
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = archive.DefaultQuality
	}
	if opts.BoxColor == nil {
		opts.BoxColor = color.RGBA{0, 255, 0, 255}
	}
	if opts.BoxThickness <= 0 {
		opts.BoxThickness = 2
	}
	if opts.LabelColor == nil {
		opts.LabelColor = color.White
	}
	if opts.LabelBackground == nil {
		opts.LabelBackground = color.Black
	}
	if opts.Load == nil {
		opts.Load = imaging.Load
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
}

// Frame returns the full frame. It is drawn on in place by AddLabel,
// DrawItems and ArchiveWithItems.
func (e *Extractor) Frame() *image.NRGBA { return e.frame }

// SourceSize returns the size of the decoded image before fitting.
func (e *Extractor) SourceSize() image.Point { return e.source }

// Timestamp returns the run timestamp shared by every archived file.
func (e *Extractor) Timestamp() time.Time { return e.stamp }

// Archive returns the archive the run writes to.
func (e *Extractor) Archive() *archive.Archive { return e.archive }

// FindItems runs the detector over the frame once and returns the regions it
// found. Later calls return the same regions.
func (e *Extractor) FindItems() ([]detection.Region, error) {
	if e.found {
		return e.regions, nil
	}
	regions, err := e.opts.Detector.Detect(e.frame)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	e.regions = regions
	e.found = true

	e.debugf("found %d %s region(s)", len(regions), e.opts.Variant)
	for i, r := range regions {
		e.debugf("  region %d: %v", i, r)
	}
	return e.regions, nil
}

// ExtractItems crops every region into an independent buffer, running
// FindItems first if needed.
func (e *Extractor) ExtractItems() ([]Item, error) {
	if e.extracted {
		return e.items, nil
	}
	regions, err := e.FindItems()
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(regions))
	for i, r := range regions {
		crop, err := imaging.Crop(e.frame, r.Rect())
		if err != nil {
			return nil, fmt.Errorf("failed to extract item %d: %w", i, err)
		}
		items = append(items, Item{Image: crop, Region: r})
	}
	e.items = items
	e.extracted = true
	return e.items, nil
}

// Items returns the extracted items, or none if ExtractItems has not run.
// With grayscale set, every crop is returned as a single-channel copy.
func (e *Extractor) Items(grayscale bool) []Item {
	out := make([]Item, len(e.items))
	for i, it := range e.items {
		if grayscale {
			it.Image = imaging.Grayscale(it.Image)
		}
		out[i] = it
	}
	return out
}

// AddLabel draws text on the full frame with its top-left corner at (x, y).
func (e *Extractor) AddLabel(text string, x, y int) {
	imaging.DrawLabel(e.frame, x, y, text, e.opts.LabelColor, e.opts.LabelBackground)
}

// DrawItems draws a box around every found region on the full frame.
func (e *Extractor) DrawItems() {
	for _, r := range e.regions {
		imaging.DrawRect(e.frame, r.Rect(), e.opts.BoxColor, e.opts.BoxThickness)
	}
}

// ArchiveItems writes every extracted item to the archive and returns the
// written paths in item order.
func (e *Extractor) ArchiveItems() ([]string, error) {
	items, err := e.ExtractItems()
	if err != nil {
		return nil, err
	}
	if e.opts.ArchiveGrayscale {
		items = e.Items(true)
	}

	paths := make([]string, 0, len(items))
	for i, it := range items {
		path, err := e.archive.SaveItem(i, it.Image)
		if err != nil {
			return nil, err
		}
		e.debugf("archived item %d to %s", i, path)
		paths = append(paths, path)
	}
	return paths, nil
}

// ArchiveWithItems writes the full frame to the archive. When annotation is
// enabled, boxes around the found regions and the timestamp label are drawn
// first.
func (e *Extractor) ArchiveWithItems() (string, error) {
	if _, err := e.FindItems(); err != nil {
		return "", err
	}
	if e.opts.Annotate && !e.annotated {
		e.DrawItems()
		e.AddLabel(e.stamp.Format(LabelLayout), labelOffset, labelOffset)
		e.annotated = true
	}
	path, err := e.archive.SaveFull(e.frame)
	if err != nil {
		return "", err
	}
	e.debugf("archived full frame to %s", path)
	return path, nil
}

// Run performs the whole pipeline: find, extract, archive the items, archive
// the full frame, and write the manifest.
func (e *Extractor) Run() (*Result, error) {
	regions, err := e.FindItems()
	if err != nil {
		return nil, err
	}
	items, err := e.ArchiveItems()
	if err != nil {
		return nil, err
	}
	full, err := e.ArchiveWithItems()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Timestamp: e.archive.Prefix(),
		Width:     e.frame.Bounds().Dx(),
		Height:    e.frame.Bounds().Dy(),
		Regions:   regions,
		Items:     items,
		Full:      full,
	}
	manifest, err := e.archive.WriteManifest(e.manifest(result))
	if err != nil {
		return nil, err
	}
	result.Manifest = manifest

	log.Printf("archived %d %s item(s) from %s to %s", len(items), e.opts.Variant, e.opts.ImagePath, e.archive.Dir())
	return result, nil
}

func (e *Extractor) manifest(r *Result) *archive.Manifest {
	m := &archive.Manifest{
		Timestamp:    r.Timestamp,
		Source:       e.opts.ImagePath,
		Variant:      string(e.opts.Variant),
		Backend:      e.opts.Backend,
		Model:        e.opts.Model,
		SourceWidth:  e.source.X,
		SourceHeight: e.source.Y,
		Width:        r.Width,
		Height:       r.Height,
		Items:        make([]archive.ManifestItem, len(r.Regions)),
		Full:         filepath.Base(r.Full),
	}
	for i, reg := range r.Regions {
		m.Items[i] = archive.ManifestItem{
			Index:     i,
			X:         reg.X,
			Y:         reg.Y,
			Width:     reg.Width,
			Height:    reg.Height,
			Grayscale: e.opts.ArchiveGrayscale,
		}
		if i < len(r.Items) {
			m.Items[i].File = filepath.Base(r.Items[i])
		}
	}
	return m
}

func (e *Extractor) debugf(format string, args ...interface{}) {
	if e.opts.Debug {
		log.Printf("[debug] "+format, args...)
	}
}
