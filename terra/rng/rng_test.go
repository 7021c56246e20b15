package rng

import "testing"

func TestLCGDeterminism(t *testing.T) {
	a, b := NewLCG(981), NewLCG(981)
	for i := 0; i < 1000; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("LCG streams with equal seeds diverged at draw %d", i)
		}
	}
}

func TestLCGRange(t *testing.T) {
	l := NewLCG(5)
	for i := 0; i < 100000; i++ {
		v := l.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("Next() = %f, want value in [0, 1)", v)
		}
	}
}

func TestLCGIntnBounds(t *testing.T) {
	l := NewLCG(77)
	for i := 0; i < 10000; i++ {
		n := l.Intn(13)
		if n < 0 || n >= 13 {
			t.Fatalf("Intn(13) = %d", n)
		}
	}
}

func TestLCGIntnPanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Intn(0) did not panic")
		}
	}()
	NewLCG(1).Intn(0)
}

func TestPCGDeterminism(t *testing.T) {
	a, b := NewPCG(42), NewPCG(42)
	for i := 0; i < 1000; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("PCG streams with equal seeds diverged at draw %d", i)
		}
	}
}

func TestSeedsProduceDistinctStreams(t *testing.T) {
	a, b := NewLCG(1), NewLCG(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Next() == b.Next() {
			same++
		}
	}
	if same > 5 {
		t.Fatalf("seeds 1 and 2 agreed on %d/100 draws", same)
	}
}
