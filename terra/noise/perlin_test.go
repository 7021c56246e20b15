package noise

import (
	"testing"

	"github.com/terraforge/engine/terra/rng"
)

func TestPerlinDeterminism(t *testing.T) {
	p1 := NewPerlin(12345)
	p2 := NewPerlin(12345)

	for i := 0; i < 1000; i++ {
		x := float64(i) * 0.37
		y := float64(i) * 0.53
		if p1.Noise2D(x, y) != p2.Noise2D(x, y) {
			t.Fatalf("Noise2D not deterministic at (%f, %f)", x, y)
		}
	}
}

func TestPerlinRange(t *testing.T) {
	p := NewPerlin(42)
	r := rng.NewLCG(7)
	for i := 0; i < 10000; i++ {
		x := r.Next()*2000 - 1000
		y := r.Next()*2000 - 1000
		v := p.Noise2D(x, y)
		if v < -1.0001 || v > 1.0001 {
			t.Errorf("Noise2D(%f, %f) = %f, out of range", x, y, v)
		}
	}
}

func TestPerlinLatticePointsAreZero(t *testing.T) {
	p := NewPerlin(42)
	if v := p.Noise2D(0, 0); v != 0 {
		t.Fatalf("Noise2D(0, 0) = %f, want 0", v)
	}
	for x := -8; x <= 8; x++ {
		for y := -8; y <= 8; y++ {
			if v := p.Noise2D(float64(x), float64(y)); v != 0 {
				t.Fatalf("Noise2D(%d, %d) = %f, want 0", x, y, v)
			}
		}
	}
}

func TestPerlinSeedsDiffer(t *testing.T) {
	p1 := NewPerlin(1)
	p2 := NewPerlin(2)
	same := 0
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.51
		y := float64(i) * 0.29
		if p1.Noise2D(x, y) == p2.Noise2D(x, y) {
			same++
		}
	}
	if same > 30 {
		t.Fatalf("different seeds produced %d/100 identical values", same)
	}
}

func TestPerlinPermutationIsBijective(t *testing.T) {
	p := NewPerlinSource(rng.NewLCG(99))
	seen := make(map[int]bool, 256)
	for i := 0; i < 256; i++ {
		v := p.perm[i]
		if v < 0 || v > 255 || seen[v] {
			t.Fatalf("permutation table is not a bijection of [0, 255]: index %d, value %d", i, v)
		}
		seen[v] = true
		if p.perm[i+256] != v {
			t.Fatalf("permutation table not duplicated at index %d", i)
		}
	}
}

func TestPerlinCustomSourceMatchesDefault(t *testing.T) {
	a := NewPerlin(31337)
	b := NewPerlinSource(rng.NewLCG(31337))
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.11
		y := float64(i) * 0.17
		if a.Noise2D(x, y) != b.Noise2D(x, y) {
			t.Fatal("NewPerlin and NewPerlinSource with the default stream disagree")
		}
	}
}
