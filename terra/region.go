package terra

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Region is a rectangular map selection in projected metres, the shape the
// studio's bounding-box picker produces. It converts a real-world selection
// into heightmap grid dimensions at a chosen cell size.
type Region struct {
	Min, Max mgl64.Vec2
}

// NewRegion builds a Region from the corner coordinates (minX, minY) and
// (maxX, maxY).
func NewRegion(minX, minY, maxX, maxY float64) Region {
	return Region{Min: mgl64.Vec2{minX, minY}, Max: mgl64.Vec2{maxX, maxY}}
}

// Valid reports whether the region has positive extent on both axes.
func (r Region) Valid() bool {
	return r.Max.X() > r.Min.X() && r.Max.Y() > r.Min.Y()
}

// Size returns the extent of the region on each axis.
func (r Region) Size() mgl64.Vec2 {
	return r.Max.Sub(r.Min)
}

// Contains reports whether the point lies inside the region. Edges are
// inclusive.
func (r Region) Contains(p mgl64.Vec2) bool {
	return p.X() >= r.Min.X() && p.X() <= r.Max.X() &&
		p.Y() >= r.Min.Y() && p.Y() <= r.Max.Y()
}

// Grid returns the heightmap dimensions covering the region at the cell size
// passed, rounding partial cells up so the grid never undershoots the
// selection.
func (r Region) Grid(cellSize float64) (width, height int, err error) {
	if !r.Valid() {
		return 0, 0, fmt.Errorf("terra: region %v has no extent", r)
	}
	if cellSize <= 0 {
		return 0, 0, fmt.Errorf("terra: cell size must be positive")
	}
	size := r.Size()
	return int(math.Ceil(size.X() / cellSize)), int(math.Ceil(size.Y() / cellSize)), nil
}
