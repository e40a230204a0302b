package models

// Volume represents a 3D scalar intensity volume.
//
// The data is stored as a 1D array in row-major order with x varying
// fastest: index = z*X*Y + y*X + x. The continuous coordinate frame used
// by the sampling engine has its origin at the geometric centre of the
// volume, so array index i along an axis of length N corresponds to
// continuous coordinate i - (N-1)/2.
type Volume struct {
	// Data is the volume intensities as a 1D array in row-major order
	Data []float64

	// X, Y, Z are the dimensions of the volume in voxels
	X, Y, Z int
}

// NewVolume allocates a zero-filled volume with the given dimensions.
func NewVolume(x, y, z int) *Volume {
	return &Volume{
		Data: make([]float64, x*y*z),
		X:    x,
		Y:    y,
		Z:    z,
	}
}

// At returns the intensity at integer voxel indices. The caller is
// responsible for bounds; out-of-range indices are the resampler's
// concern, not the volume's.
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[z*v.X*v.Y+y*v.X+x]
}

// Set stores an intensity at integer voxel indices.
func (v *Volume) Set(x, y, z int, value float64) {
	v.Data[z*v.X*v.Y+y*v.X+x] = value
}

// Shape returns the volume dimensions as a 3-element array.
func (v *Volume) Shape() [3]int {
	return [3]int{v.X, v.Y, v.Z}
}

// SliceImage is a 2D image produced by resampling a plane mesh against a
// volume. Rows follow the first box-size axis and columns the second, in
// the same order the mesh lays out its sample points.
type SliceImage struct {
	// Data is the pixel intensities in row-major order
	Data []float64

	// Rows and Cols are the image dimensions
	Rows, Cols int
}

// NewSliceImage allocates a zero-filled slice image.
func NewSliceImage(rows, cols int) *SliceImage {
	return &SliceImage{
		Data: make([]float64, rows*cols),
		Rows: rows,
		Cols: cols,
	}
}

// At returns the intensity at (row, col).
func (s *SliceImage) At(row, col int) float64 {
	return s.Data[row*s.Cols+col]
}

// Set stores an intensity at (row, col).
func (s *SliceImage) Set(row, col int, value float64) {
	s.Data[row*s.Cols+col] = value
}
