package noise

// Default fractal parameters, shared with the generation presets.
const (
	DefaultOctaves     = 4
	DefaultPersistence = 0.5
	DefaultLacunarity  = 2.0
)

// Fractal sums octaves of a base Source into fractal Brownian motion. Each
// octave multiplies the sampling frequency by Lacunarity and the amplitude by
// Persistence; the sum is normalised by the total amplitude so results stay
// roughly within [-1, 1] regardless of octave count. With a single octave the
// result is exactly the base noise.
type Fractal struct {
	Source      Source
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// NewFractal creates a Fractal over a Perlin base with default parameters.
func NewFractal(seed int64) *Fractal {
	return &Fractal{
		Source:      NewPerlin(seed),
		Octaves:     DefaultOctaves,
		Persistence: DefaultPersistence,
		Lacunarity:  DefaultLacunarity,
	}
}

// At returns the fractal sum at (x, y). A non-positive octave count returns 0
// rather than dividing by a zero amplitude sum.
func (f Fractal) At(x, y float64) float64 {
	if f.Octaves <= 0 {
		return 0
	}
	var (
		total     float64
		frequency = 1.0
		amplitude = 1.0
		maxAmp    float64
	)
	for i := 0; i < f.Octaves; i++ {
		total += f.Source.Noise2D(x*frequency, y*frequency) * amplitude
		maxAmp += amplitude
		amplitude *= f.Persistence
		frequency *= f.Lacunarity
	}
	return total / maxAmp
}
