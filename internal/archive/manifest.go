package archive

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest records what one run found and wrote.
type Manifest struct {
	Timestamp string `yaml:"timestamp"`
	Source    string `yaml:"source"`
	Variant   string `yaml:"variant"`
	Backend   string `yaml:"backend"`
	Model     string `yaml:"model"`

	// SourceWidth and SourceHeight are the decoded image size; Width and
	// Height the size of the frame detection ran on.
	SourceWidth  int `yaml:"source_width"`
	SourceHeight int `yaml:"source_height"`
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`

	Items []ManifestItem `yaml:"items"`
	Full  string         `yaml:"full,omitempty"`
}

// ManifestItem is one archived crop and the region it came from.
type ManifestItem struct {
	Index     int    `yaml:"index"`
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Grayscale bool   `yaml:"grayscale,omitempty"`
	File      string `yaml:"file,omitempty"`
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return &m, nil
}
