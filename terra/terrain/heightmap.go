// Package terrain produces heightmaps from fractal noise and simulates
// hydraulic and thermal erosion on them. All operations are synchronous and
// CPU-bound; callers that need cancellation run them through terra/job.
package terrain

import "errors"

var (
	// ErrInvalidDimensions is returned when a heightmap is requested with a
	// non-positive width or height.
	ErrInvalidDimensions = errors.New("terrain: width and height must be positive")
	// ErrSizeMismatch is returned when a heightmap's length does not equal
	// width times height.
	ErrSizeMismatch = errors.New("terrain: heightmap length does not match dimensions")
)

// Heightmap is a flat, row-major grid of elevation values. The cell at (x, y)
// of a map with width w sits at index y*w+x. Elevation units are caller
// defined; erosion passes mutate the map in place.
type Heightmap []float64

// NewHeightmap allocates a heightmap for the dimensions passed. The length of
// the returned map always equals width times height.
func NewHeightmap(width, height int) (Heightmap, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return make(Heightmap, width*height), nil
}

// Check validates the map's length against the dimensions passed.
func (m Heightmap) Check(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if len(m) != width*height {
		return ErrSizeMismatch
	}
	return nil
}

// Clone returns an independent copy of the heightmap.
func (m Heightmap) Clone() Heightmap {
	c := make(Heightmap, len(m))
	copy(c, m)
	return c
}

// MinMax returns the lowest and highest elevation in the map. Both are 0 for
// an empty map.
func (m Heightmap) MinMax() (min, max float64) {
	if len(m) == 0 {
		return 0, 0
	}
	min, max = m[0], m[0]
	for _, v := range m[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
