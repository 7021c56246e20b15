// Package noise implements the gradient noise primitives that drive heightmap
// generation: a seeded Perlin implementation, an OpenSimplex wrapper and
// fractal (fBm) octave summation over either.
package noise

// Source is a deterministic 2D noise field. Values returned sit roughly
// within [-1, 1] and are bit-identical for equal inputs on equally seeded
// sources.
type Source interface {
	// Noise2D returns the noise value at (x, y).
	Noise2D(x, y float64) float64
}
