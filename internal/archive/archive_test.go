package archive

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

var testStamp = time.Date(2026, 10, 14, 9, 5, 7, 0, time.UTC)

func solidImage(w, h int) *image.NRGBA {
	return imaging.New(w, h, color.NRGBA{200, 100, 50, 255})
}

func TestNew_MissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := New(missing, "face_frontal", testStamp, 0)
	if !errors.Is(err, ErrDirNotFound) {
		t.Errorf("expected ErrDirNotFound, got %v", err)
	}
}

func TestNew_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := New(file, "face_frontal", testStamp, 0)
	if !errors.Is(err, ErrDirNotFound) {
		t.Errorf("expected ErrDirNotFound, got %v", err)
	}
}

func TestNew_EmptyDir(t *testing.T) {
	if _, err := New("", "body", testStamp, 0); !errors.Is(err, ErrDirNotFound) {
		t.Errorf("expected ErrDirNotFound, got %v", err)
	}
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	a, err := New(dir, "face_frontal", testStamp, 90)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"item 0", a.ItemPath(0), "2026-10-14_09-05-07_face_frontal_item_0.jpg"},
		{"item 12", a.ItemPath(12), "2026-10-14_09-05-07_face_frontal_item_12.jpg"},
		{"full", a.FullPath(), "2026-10-14_09-05-07_face_frontal_full.jpg"},
		{"manifest", a.ManifestPath(), "2026-10-14_09-05-07_face_frontal_manifest.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != filepath.Join(dir, tt.want) {
				t.Errorf("got %s, want %s", tt.got, filepath.Join(dir, tt.want))
			}
		})
	}

	if a.Prefix() != "2026-10-14_09-05-07" {
		t.Errorf("Prefix: got %s", a.Prefix())
	}
	if a.Dir() != dir {
		t.Errorf("Dir: got %s, want %s", a.Dir(), dir)
	}
}

func TestSaveItemAndFull(t *testing.T) {
	dir := t.TempDir()
	a, err := New(dir, "body", testStamp, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	itemPath, err := a.SaveItem(3, solidImage(40, 60))
	if err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}
	fullPath, err := a.SaveFull(solidImage(320, 240))
	if err != nil {
		t.Fatalf("SaveFull failed: %v", err)
	}

	tests := []struct {
		path string
		w, h int
	}{
		{itemPath, 40, 60},
		{fullPath, 320, 240},
	}
	for _, tt := range tests {
		img, err := imaging.Open(tt.path)
		if err != nil {
			t.Fatalf("failed to reopen %s: %v", tt.path, err)
		}
		if img.Bounds().Dx() != tt.w || img.Bounds().Dy() != tt.h {
			t.Errorf("%s: got %dx%d, want %dx%d", filepath.Base(tt.path),
				img.Bounds().Dx(), img.Bounds().Dy(), tt.w, tt.h)
		}
	}
}

func TestSaveItem_Grayscale(t *testing.T) {
	a, err := New(t.TempDir(), "face_frontal", testStamp, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	gray := image.NewGray(image.Rect(0, 0, 16, 16))
	if _, err := a.SaveItem(0, gray); err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}
}

func TestManifest_RoundTrip(t *testing.T) {
	a, err := New(t.TempDir(), "face_frontal", testStamp, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	m := &Manifest{
		Timestamp: a.Prefix(),
		Source:    "img/visage.jpg",
		Variant:   "face_frontal",
		Backend:   "pigo",
		Width:     800,
		Height:    600,
		Items: []ManifestItem{
			{Index: 0, X: 10, Y: 20, Width: 30, Height: 30, File: "a.jpg"},
			{Index: 1, X: 100, Y: 20, Width: 40, Height: 40, Grayscale: true},
		},
		Full: "full.jpg",
	}

	path, err := a.WriteManifest(m)
	if err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}
	if path != a.ManifestPath() {
		t.Errorf("path: got %s, want %s", path, a.ManifestPath())
	}

	got, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if len(got.Items) != 2 || got.Items[1] != m.Items[1] {
		t.Errorf("items: got %+v, want %+v", got.Items, m.Items)
	}
	if got.Width != 800 || got.Source != m.Source {
		t.Errorf("manifest: got %+v", got)
	}
}

func TestReadManifest_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("items: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadManifest(path); err == nil {
		t.Error("ReadManifest should fail for invalid YAML")
	}
}
