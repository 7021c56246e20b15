package noise

import opensimplex "github.com/ojrac/opensimplex-go"

// Simplex is a Source backed by OpenSimplex noise. It produces smoother
// large-scale features than Perlin and is the preferred base for island and
// coastline presets.
type Simplex struct {
	n opensimplex.Noise
}

// NewSimplex creates a Simplex source for the seed passed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{n: opensimplex.New(seed)}
}

// Noise2D ...
func (s *Simplex) Noise2D(x, y float64) float64 {
	return s.n.Eval2(x, y)
}
