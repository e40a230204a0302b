// Package visualization renders sampled slice images to disk for visual
// inspection of the sampling pipeline.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"scanplane3d/internal/models"
)

// Writer saves slice images as 16-bit grayscale JPEGs under a single
// output directory.
type Writer struct {
	// outputDir is where slice files are written
	outputDir string
}

// NewWriter creates a writer rooted at the given output directory.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Render converts a slice image to a 16-bit grayscale image. Intensities
// are normalized to the slice's own min/max range; a constant slice
// renders as black.
func Render(slice *models.SliceImage) *image.Gray16 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range slice.Data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	scale := 0.0
	if hi > lo {
		scale = 65535 / (hi - lo)
	}

	img := image.NewGray16(image.Rect(0, 0, slice.Cols, slice.Rows))
	for r := 0; r < slice.Rows; r++ {
		for c := 0; c < slice.Cols; c++ {
			value := uint16(math.Max(0, math.Min(65535, (slice.At(r, c)-lo)*scale)))
			img.SetGray16(c, r, color.Gray16{Y: value})
		}
	}
	return img
}

// SaveSlice renders one slice and writes it as a JPEG file.
func (w *Writer) SaveSlice(slice *models.SliceImage, filename string) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(filepath.Join(w.outputDir, filename))
	if err != nil {
		return fmt.Errorf("error creating slice file: %w", err)
	}
	defer file.Close()

	if err := jpeg.Encode(file, Render(slice), &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("error encoding slice file: %w", err)
	}
	return nil
}

// SaveExample writes every plane image of one training example, named
// example_<index>_plane_<plane>.jpg.
func (w *Writer) SaveExample(index int, slices []*models.SliceImage) error {
	for p, slice := range slices {
		filename := fmt.Sprintf("example_%04d_plane_%d.jpg", index, p)
		if err := w.SaveSlice(slice, filename); err != nil {
			return err
		}
	}
	return nil
}
