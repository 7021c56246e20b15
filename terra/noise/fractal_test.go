package noise

import (
	"math"
	"testing"
)

func TestFractalSingleOctaveDegeneratesToBase(t *testing.T) {
	p := NewPerlin(7)
	f := Fractal{Source: p, Octaves: 1, Persistence: 0.5, Lacunarity: 2}
	for i := 0; i < 500; i++ {
		x := float64(i) * 0.013
		y := float64(i) * 0.029
		if f.At(x, y) != p.Noise2D(x, y) {
			t.Fatalf("single-octave fractal differs from base noise at (%f, %f)", x, y)
		}
	}
}

func TestFractalZeroOctaves(t *testing.T) {
	f := Fractal{Source: NewPerlin(7)}
	if v := f.At(1.5, 2.5); v != 0 {
		t.Fatalf("At with zero octaves = %f, want 0", v)
	}
	f.Octaves = -3
	if v := f.At(1.5, 2.5); v != 0 {
		t.Fatalf("At with negative octaves = %f, want 0", v)
	}
}

func TestFractalNormalisedRange(t *testing.T) {
	for _, octaves := range []int{1, 2, 4, 8} {
		f := NewFractal(11)
		f.Octaves = octaves
		for i := 0; i < 2000; i++ {
			x := float64(i)*0.37 - 300
			y := float64(i)*0.51 - 200
			v := f.At(x, y)
			if v < -1.0001 || v > 1.0001 {
				t.Errorf("octaves=%d: At(%f, %f) = %f, out of range", octaves, x, y, v)
			}
		}
	}
}

func TestFractalSmoothness(t *testing.T) {
	f := NewFractal(77)
	prev := f.At(0, 0)
	maxStep := 0.0
	for i := 1; i < 1000; i++ {
		v := f.At(float64(i)*0.01, 0)
		if d := math.Abs(v - prev); d > maxStep {
			maxStep = d
		}
		prev = v
	}
	if maxStep > 0.5 {
		t.Errorf("max step between adjacent samples = %f, expected smooth transitions", maxStep)
	}
}

func TestFractalOverSimplex(t *testing.T) {
	f := Fractal{Source: NewSimplex(3), Octaves: 4, Persistence: 0.5, Lacunarity: 2}
	for i := 0; i < 2000; i++ {
		x := float64(i)*0.21 - 100
		y := float64(i)*0.17 - 150
		v := f.At(x, y)
		if v < -1.0001 || v > 1.0001 {
			t.Errorf("At(%f, %f) = %f, out of range over simplex base", x, y, v)
		}
	}
}

func TestSimplexDeterminism(t *testing.T) {
	a, b := NewSimplex(1234), NewSimplex(1234)
	for i := 0; i < 500; i++ {
		x := float64(i) * 0.41
		y := float64(i) * 0.23
		if a.Noise2D(x, y) != b.Noise2D(x, y) {
			t.Fatalf("simplex not deterministic at (%f, %f)", x, y)
		}
	}
}
