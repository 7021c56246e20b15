package terrain

import (
	"github.com/dgravesa/go-parallel/parallel"
	"github.com/terraforge/engine/terra/noise"
	"github.com/terraforge/engine/terra/rng"
)

// Options configures a single heightmap generation. The zero value is usable;
// unset fields fall back to the documented defaults.
type Options struct {
	// Scale divides the cell coordinates before sampling, stretching features
	// across the grid. Defaults to 100.
	Scale float64
	// Octaves, Persistence and Lacunarity are forwarded to the fractal
	// summation. They default to 4, 0.5 and 2.0.
	Octaves     int
	Persistence float64
	Lacunarity  float64
	// HeightMultiplier scales the normalised fractal value into elevation
	// units. Defaults to 100.
	HeightMultiplier float64
	// Parallel fills rows on all CPUs. Output is identical to the serial
	// fill; rows are independent.
	Parallel bool
}

func (o Options) withDefaults() Options {
	if o.Scale == 0 {
		o.Scale = 100
	}
	if o.Octaves == 0 {
		o.Octaves = noise.DefaultOctaves
	}
	if o.Persistence == 0 {
		o.Persistence = noise.DefaultPersistence
	}
	if o.Lacunarity == 0 {
		o.Lacunarity = noise.DefaultLacunarity
	}
	if o.HeightMultiplier == 0 {
		o.HeightMultiplier = 100
	}
	return o
}

// minParallelRows is the row count below which the parallel fill is not worth
// the goroutine fan-out.
const minParallelRows = 64

// Generator produces heightmaps from a noise source and simulates erosion on
// them. Methods are stateless across calls apart from the droplet placement
// stream; a Generator must not be used from multiple goroutines at once.
type Generator struct {
	source noise.Source
	rand   rng.Source
}

// New creates a Generator over Perlin noise, with droplet placement seeded by
// the same value.
func New(seed int64) *Generator {
	return NewWithSource(noise.NewPerlin(seed), rng.NewLCG(seed))
}

// NewWithSource creates a Generator over an arbitrary noise source. The
// rng.Source drives droplet placement during hydraulic erosion.
func NewWithSource(src noise.Source, r rng.Source) *Generator {
	return &Generator{source: src, rand: r}
}

// Heightmap generates a width by height map by sampling fractal noise at
// (x/Scale, y/Scale) for every cell and scaling the result by
// HeightMultiplier.
func (g *Generator) Heightmap(width, height int, opts Options) (Heightmap, error) {
	opts = opts.withDefaults()
	m, err := NewHeightmap(width, height)
	if err != nil {
		return nil, err
	}
	f := noise.Fractal{
		Source:      g.source,
		Octaves:     opts.Octaves,
		Persistence: opts.Persistence,
		Lacunarity:  opts.Lacunarity,
	}
	row := func(y int) {
		ny := float64(y) / opts.Scale
		base := y * width
		for x := 0; x < width; x++ {
			m[base+x] = f.At(float64(x)/opts.Scale, ny) * opts.HeightMultiplier
		}
	}
	if opts.Parallel && height >= minParallelRows {
		parallel.For(height, func(y, _ int) { row(y) })
	} else {
		for y := 0; y < height; y++ {
			row(y)
		}
	}
	return m, nil
}
