package physics

import (
	"math"
	"testing"
)

func TestSpheresOverlapBoundary(t *testing.T) {
	tests := []struct {
		name string
		b    Vec3
		want bool
	}{
		{"touching", V3(4, 0, 0), true},
		{"just apart", V3(4+1e-9, 0, 0), false},
		{"inside", V3(0, 1, 1), true},
		{"diagonal touch", V3(0, 0, -4), true},
		{"far", V3(10, 0, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpheresOverlap(V3(0, 0, 0), 1.0, tt.b, 3.0)
			if got != tt.want {
				t.Fatalf("SpheresOverlap(..., %v) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}

func TestNormalizeOrFallsBack(t *testing.T) {
	fallback := V3(0, 0, -1)
	if got := (Vec3{}).NormalizeOr(fallback); got != fallback {
		t.Fatalf("zero vector normalized to %v, want %v", got, fallback)
	}
	nan := V3(math.NaN(), 0, 0)
	if got := nan.NormalizeOr(fallback); got != fallback {
		t.Fatalf("NaN vector normalized to %v, want %v", got, fallback)
	}
	got := V3(3, 0, 4).NormalizeOr(fallback)
	if math.Abs(got.Length()-1) > 1e-12 {
		t.Fatalf("length = %v, want 1", got.Length())
	}
}

func TestRotateY(t *testing.T) {
	got := V3(0, 0, 1).RotateY(math.Pi / 2)
	if math.Abs(got.X-1) > 1e-12 || math.Abs(got.Z) > 1e-12 {
		t.Fatalf("RotateY(+Z, 90deg) = %v, want +X", got)
	}
	// Rotation preserves length and the vertical component.
	v := V3(2, 5, -3)
	r := v.RotateY(0.7)
	if math.Abs(r.Length()-v.Length()) > 1e-12 || r.Y != v.Y {
		t.Fatalf("RotateY changed length or height: %v -> %v", v, r)
	}
}

func TestSpatialGridFindsNeighbors(t *testing.T) {
	g := NewSpatialGrid(-10, -40, 10, 10, 2)
	g.Insert(V3(0, 0, 0), 0)
	g.Insert(V3(1.9, 0, 0), 1)
	g.Insert(V3(8, 0, -30), 2)
	g.Insert(V3(-100, 0, 0), 3) // clamped to the left border

	found := map[int]bool{}
	g.QueryAround(V3(0.5, 0, 0.5), func(i int) bool {
		found[i] = true
		return false
	})
	if !found[0] || !found[1] {
		t.Fatalf("expected items 0 and 1 near origin, got %v", found)
	}
	if found[2] {
		t.Fatalf("item 2 should not be near origin")
	}

	found = map[int]bool{}
	g.QueryAround(V3(-99, 0, 0.5), func(i int) bool {
		found[i] = true
		return false
	})
	if !found[3] {
		t.Fatalf("expected clamped item 3, got %v", found)
	}

	g.Clear()
	count := 0
	g.QueryAround(V3(0, 0, 0), func(int) bool {
		count++
		return false
	})
	if count != 0 {
		t.Fatalf("grid not cleared, found %d items", count)
	}
}

func TestSpatialGridEarlyExit(t *testing.T) {
	g := NewSpatialGrid(0, 0, 4, 4, 2)
	for i := 0; i < 5; i++ {
		g.Insert(V3(1, 0, 1), i)
	}
	calls := 0
	g.QueryAround(V3(1, 0, 1), func(int) bool {
		calls++
		return true
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
