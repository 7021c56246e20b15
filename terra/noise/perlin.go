package noise

import (
	"math"

	"github.com/terraforge/engine/terra/rng"
)

// Perlin is seeded 2D gradient noise. The permutation table is built once at
// construction and immutable afterwards, so a Perlin value may be shared
// between goroutines.
type Perlin struct {
	// perm holds the shuffled range [0, 255] twice, so corner hashing never
	// needs an index wrap.
	perm [512]int
}

// NewPerlin creates a Perlin source whose permutation table is shuffled by
// the default LCG stream for the seed passed. Equal seeds yield bit-identical
// noise across instances.
func NewPerlin(seed int64) *Perlin {
	return NewPerlinSource(rng.NewLCG(seed))
}

// NewPerlinSource creates a Perlin source that draws its permutation shuffle
// from the rng.Source passed. Used by tests to validate the table against
// reference sequences.
func NewPerlinSource(src rng.Source) *Perlin {
	var base [256]int
	for i := range base {
		base[i] = i
	}
	// Fisher-Yates over the full range.
	for i := 255; i > 0; i-- {
		j := src.Intn(i + 1)
		base[i], base[j] = base[j], base[i]
	}

	p := &Perlin{}
	for i, v := range base {
		p.perm[i] = v
		p.perm[i+256] = v
	}
	return p
}

// Noise2D returns the Perlin value at (x, y), in [-1, 1]. Integer lattice
// points evaluate to exactly 0.
func (p *Perlin) Noise2D(x, y float64) float64 {
	xi := int(math.Floor(x)) & 255
	yi := int(math.Floor(y)) & 255

	xf := x - math.Floor(x)
	yf := y - math.Floor(y)

	u := fade(xf)
	v := fade(yf)

	aa := p.perm[p.perm[xi]+yi]
	ab := p.perm[p.perm[xi]+yi+1]
	ba := p.perm[p.perm[xi+1]+yi]
	bb := p.perm[p.perm[xi+1]+yi+1]

	x1 := lerp(u, grad(aa, xf, yf), grad(ba, xf-1, yf))
	x2 := lerp(u, grad(ab, xf, yf-1), grad(bb, xf-1, yf-1))
	return lerp(v, x1, x2)
}

// fade is the quintic curve 6t⁵-15t⁴+10t³.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad selects one of the four diagonal gradients on the low two bits of the
// hash and returns its dot product with the offset vector.
func grad(hash int, x, y float64) float64 {
	switch hash & 3 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	default:
		return -x - y
	}
}
