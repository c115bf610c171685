// Package imaging provides the image operations behind the archive pipeline.
//
// This package loads and decodes source images, fits them within a maximum
// bounding dimension, crops detection regions into independent buffers,
// converts crops to single-channel grayscale, and draws boxes and text labels
// onto a frame. All operations work with standard Go image.Image types and use
// a coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Rectangles use image.Rectangle semantics: Min is inclusive, Max is exclusive
//
// # Buffers
//
// Fit, Crop and Grayscale always return new buffers whose bounds start at
// (0,0). Drawing on a frame never changes a crop taken from it, and the
// reverse.
//
// # Supported Formats
//
// Load decodes PNG, JPEG, GIF, BMP, TIFF and WebP. JPEG EXIF orientation is
// applied so that detection runs on the image as a viewer would display it.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless. Drawing functions mutate their destination and must not be
// called concurrently on the same image.
package imaging
