// Package config holds the settings of an archive run.
//
// Settings are resolved in three layers: built-in defaults, then an optional
// YAML file, then environment variables. Validate must be called on the
// final result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/cascade-archive/internal/archive"
	"github.com/ironsheep/cascade-archive/internal/detection"
	"github.com/ironsheep/cascade-archive/internal/imaging"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig   = "CASCADE_ARCHIVE_CONFIG"
	EnvLogLevel = "CASCADE_ARCHIVE_LOG_LEVEL"
	EnvImage    = "CASCADE_ARCHIVE_IMAGE"
	EnvDir      = "CASCADE_ARCHIVE_DIR"
	EnvVariant  = "CASCADE_ARCHIVE_VARIANT"
	EnvBackend  = "CASCADE_ARCHIVE_BACKEND"
	EnvModel    = "CASCADE_ARCHIVE_MODEL"
	EnvModelDir = "CASCADE_ARCHIVE_MODEL_DIR"
	EnvDebug    = "CASCADE_ARCHIVE_DEBUG"
)

// Config is the full set of run settings.
type Config struct {
	ImagePath  string `yaml:"image"`
	ArchiveDir string `yaml:"archive_dir"`
	Debug      bool   `yaml:"debug"`
	LogLevel   string `yaml:"log_level"`

	Variant detection.Variant `yaml:"variant"`
	Backend string            `yaml:"backend"`

	// ModelPath overrides the variant's default model. When empty the
	// default model file name is looked up in ModelDir.
	ModelPath string `yaml:"model"`
	ModelDir  string `yaml:"model_dir"`

	MaxDimension     int    `yaml:"max_dimension"`
	JPEGQuality      int    `yaml:"jpeg_quality"`
	Annotate         bool   `yaml:"annotate"`
	ArchiveGrayscale bool   `yaml:"archive_grayscale"`
	BoxColor         string `yaml:"box_color"`
	BoxThickness     int    `yaml:"box_thickness"`
	LabelColor       string `yaml:"label_color"`
	LabelBackground  string `yaml:"label_background"`

	Detector detection.Params `yaml:"detector"`
}

// Default returns the built-in settings: the sample image and archive folder
// relative to the working directory, the frontal-face variant on pigo, debug
// logging and full-frame annotation enabled.
func Default() Config {
	return Config{
		ImagePath:       "./img/visage.jpg",
		ArchiveDir:      "./archive/",
		Debug:           true,
		LogLevel:        "info",
		Variant:         detection.VariantFaceFrontal,
		Backend:         detection.BackendPigo,
		ModelDir:        "./cascades",
		MaxDimension:    imaging.DefaultMaxDimension,
		JPEGQuality:     archive.DefaultQuality,
		Annotate:        true,
		BoxColor:        "#00FF00",
		BoxThickness:    2,
		LabelColor:      "#FFFFFF",
		LabelBackground: "#000000",
		Detector:        detection.DefaultParams(),
	}
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the CASCADE_ARCHIVE_* variables found by lookup onto c.
// Pass os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvLogLevel, &c.LogLevel},
		{EnvImage, &c.ImagePath},
		{EnvDir, &c.ArchiveDir},
		{EnvBackend, &c.Backend},
		{EnvModel, &c.ModelPath},
		{EnvModelDir, &c.ModelDir},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.dst = v
		}
	}
	if v, ok := lookup(EnvVariant); ok && v != "" {
		c.Variant = detection.Variant(v)
	}
	if v, ok := lookup(EnvDebug); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvDebug, v, err)
		}
		c.Debug = b
	}
	return nil
}

// Load resolves the configuration from defaults, the file named by
// CASCADE_ARCHIVE_CONFIG (if set) and the environment, then validates it.
func Load(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	if path, ok := lookup(EnvConfig); ok && path != "" {
		if err := c.LoadFile(path); err != nil {
			return c, err
		}
	}
	if err := c.ApplyEnv(lookup); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// DebugLogging reports whether debug log lines should be printed.
func (c Config) DebugLogging() bool {
	return c.Debug || strings.EqualFold(c.LogLevel, "debug")
}

// Model returns the cascade file to load for the configured variant and
// backend.
func (c Config) Model() (string, error) {
	if c.ModelPath != "" {
		return c.ModelPath, nil
	}
	name := c.Variant.DefaultModel(c.Backend)
	if name == "" {
		return "", fmt.Errorf("no default %s model for variant %s; set model explicitly", c.Backend, c.Variant)
	}
	return filepath.Join(c.ModelDir, name), nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := detection.ParseVariant(string(c.Variant)); err != nil {
		errs = append(errs, err)
	}
	if !validBackend(c.Backend) {
		errs = append(errs, fmt.Errorf("unknown backend %q (want one of %s)",
			c.Backend, strings.Join(detection.Backends(), ", ")))
	}
	if c.MaxDimension < 1 {
		errs = append(errs, fmt.Errorf("max_dimension must be positive, got %d", c.MaxDimension))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be in [1, 100], got %d", c.JPEGQuality))
	}
	if c.BoxThickness < 1 {
		errs = append(errs, fmt.Errorf("box_thickness must be positive, got %d", c.BoxThickness))
	}
	colors := []struct{ name, hex string }{
		{"box_color", c.BoxColor},
		{"label_color", c.LabelColor},
		{"label_background", c.LabelBackground},
	}
	for _, col := range colors {
		if _, err := imaging.ParseColor(col.hex); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", col.name, err))
		}
	}
	if err := c.Detector.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("detector: %w", err))
	}
	return errors.Join(errs...)
}

func validBackend(b string) bool {
	for _, known := range detection.Backends() {
		if b == known {
			return true
		}
	}
	return false
}

// IsNotExist reports whether err was caused by a missing config file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
