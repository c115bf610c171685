package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/cascade-archive/internal/detection"
)

// envMap adapts a map to the lookup signature used by ApplyEnv and Load.
func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault_Valid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.MaxDimension != 800 {
		t.Errorf("MaxDimension: got %d, want 800", c.MaxDimension)
	}
	if !c.Debug {
		t.Error("Debug should default to true")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
image: /data/crowd.png
archive_dir: /data/out
variant: body
backend: opencv
debug: false
detector:
  min_neighbors: 3
`)

	c := Default()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if c.ImagePath != "/data/crowd.png" || c.ArchiveDir != "/data/out" {
		t.Errorf("paths: got %s, %s", c.ImagePath, c.ArchiveDir)
	}
	if c.Variant != detection.VariantBody || c.Backend != detection.BackendOpenCV {
		t.Errorf("variant/backend: got %s/%s", c.Variant, c.Backend)
	}
	if c.Debug {
		t.Error("Debug: got true, want false")
	}
	if c.Detector.MinNeighbors != 3 {
		t.Errorf("MinNeighbors: got %d, want 3", c.Detector.MinNeighbors)
	}
	// Keys absent from the file keep their defaults
	if c.Detector.ScaleFactor != 1.3 {
		t.Errorf("ScaleFactor: got %v, want 1.3", c.Detector.ScaleFactor)
	}
	if c.MaxDimension != 800 {
		t.Errorf("MaxDimension: got %d, want 800", c.MaxDimension)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	c := Default()
	err := c.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	if err := c.LoadFile(writeConfig(t, "max_dimension: [1, 2")); err == nil {
		t.Error("LoadFile should fail for invalid YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	err := c.ApplyEnv(envMap(map[string]string{
		EnvImage:    "/tmp/in.jpg",
		EnvDir:      "/tmp/out",
		EnvVariant:  "body",
		EnvBackend:  "opencv",
		EnvModel:    "/models/body.xml",
		EnvDebug:    "false",
		EnvLogLevel: "debug",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if c.ImagePath != "/tmp/in.jpg" || c.ArchiveDir != "/tmp/out" {
		t.Errorf("paths: got %s, %s", c.ImagePath, c.ArchiveDir)
	}
	if c.Variant != detection.VariantBody {
		t.Errorf("Variant: got %s", c.Variant)
	}
	if c.Debug {
		t.Error("Debug: got true, want false")
	}
	if !c.DebugLogging() {
		t.Error("DebugLogging should follow log level debug")
	}
	if model, _ := c.Model(); model != "/models/body.xml" {
		t.Errorf("Model: got %s", model)
	}
}

func TestApplyEnv_InvalidDebug(t *testing.T) {
	c := Default()
	if err := c.ApplyEnv(envMap(map[string]string{EnvDebug: "sometimes"})); err == nil {
		t.Error("ApplyEnv should fail for a non-boolean debug value")
	}
}

func TestApplyEnv_EmptyValuesIgnored(t *testing.T) {
	c := Default()
	if err := c.ApplyEnv(envMap(map[string]string{EnvImage: ""})); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if c.ImagePath != Default().ImagePath {
		t.Errorf("empty env value overrode ImagePath: %s", c.ImagePath)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "variant: body\nmodel: /models/a.xml\n")

	c, err := Load(envMap(map[string]string{
		EnvConfig:  path,
		EnvBackend: "opencv",
	}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Variant != detection.VariantBody || c.Backend != "opencv" {
		t.Errorf("got variant %s backend %s", c.Variant, c.Backend)
	}
}

func TestLoad_Invalid(t *testing.T) {
	if _, err := Load(envMap(map[string]string{EnvVariant: "cat"})); err == nil {
		t.Error("Load should fail for an unknown variant")
	}
}

func TestModel_Defaults(t *testing.T) {
	tests := []struct {
		variant detection.Variant
		backend string
		want    string
		wantErr bool
	}{
		{detection.VariantFaceFrontal, detection.BackendPigo, filepath.Join("m", "facefinder"), false},
		{detection.VariantFaceFrontal, detection.BackendOpenCV, filepath.Join("m", "haarcascade_frontalface_default.xml"), false},
		{detection.VariantBody, detection.BackendOpenCV, filepath.Join("m", "haarcascade_fullbody.xml"), false},
		{detection.VariantBody, detection.BackendPigo, "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant)+"/"+tt.backend, func(t *testing.T) {
			c := Default()
			c.ModelDir = "m"
			c.Variant = tt.variant
			c.Backend = tt.backend

			got, err := c.Model()
			if tt.wantErr {
				if err == nil {
					t.Error("Model should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("Model failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantMsg string
	}{
		{"variant", func(c *Config) { c.Variant = "car" }, "unknown variant"},
		{"backend", func(c *Config) { c.Backend = "yolo" }, "unknown backend"},
		{"max dimension", func(c *Config) { c.MaxDimension = 0 }, "max_dimension"},
		{"quality", func(c *Config) { c.JPEGQuality = 101 }, "jpeg_quality"},
		{"thickness", func(c *Config) { c.BoxThickness = 0 }, "box_thickness"},
		{"box color", func(c *Config) { c.BoxColor = "green" }, "box_color"},
		{"detector", func(c *Config) { c.Detector.ScaleFactor = 1 }, "detector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("Validate should fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	c := Default()
	c.MaxDimension = 0
	c.JPEGQuality = 0

	err := c.Validate()
	if err == nil {
		t.Fatal("Validate should fail")
	}
	if !strings.Contains(err.Error(), "max_dimension") || !strings.Contains(err.Error(), "jpeg_quality") {
		t.Errorf("expected both errors, got %v", err)
	}
}

func TestValidate_ColorErrorOrder(t *testing.T) {
	c := Default()
	c.BoxColor = "green"
	c.LabelColor = "white"
	c.LabelBackground = "black"

	want := []string{"box_color", "label_color", "label_background"}
	for run := 0; run < 20; run++ {
		err := c.Validate()
		if err == nil {
			t.Fatal("Validate should fail")
		}
		msg := err.Error()
		last := -1
		for _, name := range want {
			i := strings.Index(msg, name+":")
			if i < 0 {
				t.Fatalf("error %q does not mention %s", msg, name)
			}
			if i < last {
				t.Fatalf("run %d: %s reported out of order in %q", run, name, msg)
			}
			last = i
		}
	}
}
