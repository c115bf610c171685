// Package archive writes the output of one detection run to an archive directory.
//
// Every file of a run shares a timestamp prefix captured when the Archive is
// created:
//
//	{timestamp}_{variant}_item_{index}.jpg   one per extracted item
//	{timestamp}_{variant}_full.jpg           the annotated full frame
//	{timestamp}_{variant}_manifest.yaml      the run manifest
package archive

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"
)

// TimestampLayout formats the per-run file name prefix.
const TimestampLayout = "2006-01-02_15-04-05"

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 95

// ErrDirNotFound is returned by New when the archive directory is missing or
// is not a directory.
var ErrDirNotFound = errors.New("archive directory not found")

// Archive names and writes the files of a single run.
type Archive struct {
	dir     string
	variant string
	prefix  string
	quality int
}

// New returns an Archive writing into dir. The directory must already exist;
// New never creates it.
func New(dir, variant string, stamp time.Time, quality int) (*Archive, error) {
	if err := CheckDir(dir); err != nil {
		return nil, err
	}
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Archive{
		dir:     dir,
		variant: variant,
		prefix:  stamp.Format(TimestampLayout),
		quality: quality,
	}, nil
}

// CheckDir reports whether dir exists and is a directory.
func CheckDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: empty path", ErrDirNotFound)
	}
	stat, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDirNotFound, err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrDirNotFound, dir)
	}
	return nil
}

// Dir returns the archive directory.
func (a *Archive) Dir() string { return a.dir }

// Prefix returns the timestamp prefix shared by the run's files.
func (a *Archive) Prefix() string { return a.prefix }

// ItemPath returns the path of the crop with the given index.
func (a *Archive) ItemPath(index int) string {
	return filepath.Join(a.dir, fmt.Sprintf("%s_%s_item_%d.jpg", a.prefix, a.variant, index))
}

// FullPath returns the path of the full-frame image.
func (a *Archive) FullPath() string {
	return filepath.Join(a.dir, fmt.Sprintf("%s_%s_full.jpg", a.prefix, a.variant))
}

// ManifestPath returns the path of the run manifest.
func (a *Archive) ManifestPath() string {
	return filepath.Join(a.dir, fmt.Sprintf("%s_%s_manifest.yaml", a.prefix, a.variant))
}

// SaveItem writes a crop as JPEG and returns its path.
func (a *Archive) SaveItem(index int, img image.Image) (string, error) {
	return a.save(a.ItemPath(index), img)
}

// SaveFull writes the full frame as JPEG and returns its path.
func (a *Archive) SaveFull(img image.Image) (string, error) {
	return a.save(a.FullPath(), img)
}

func (a *Archive) save(path string, img image.Image) (string, error) {
	if err := imaging.Save(img, path, imaging.JPEGQuality(a.quality)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteManifest writes m as YAML and returns its path.
func (a *Archive) WriteManifest(m *Manifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	path := a.ManifestPath()
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
