package raster

import (
	"testing"

	"volseg/internal/models"
)

func TestFloodFillWholeSlice(t *testing.T) {
	r, _ := New(10, 10, 2)
	filled, err := FloodFill(r, models.Point{X: 0, Y: 0}, 0, 7, 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if filled != 100 {
		t.Errorf("Expected 100 cells filled, got %d", filled)
	}
	if got := r.CountValue(7, 0); got != 100 {
		t.Errorf("Expected slice 0 fully labeled, got %d cells", got)
	}
	if got := r.CountValue(7, 1); got != 0 {
		t.Errorf("Expected slice 1 untouched, got %d cells", got)
	}
}

func TestFloodFillStopsAtBoundary(t *testing.T) {
	// A full-height boundary column at x=5 splits the slice; filling from
	// the left side must not cross it with either connectivity.
	for _, conn := range []int{4, 8} {
		r, _ := New(10, 10, 1)
		for y := 0; y < 10; y++ {
			r.Set(5, y, 0, 2)
		}

		filled, err := FloodFill(r, models.Point{X: 2, Y: 5}, 0, 1, conn)
		if err != nil {
			t.Fatalf("Expected no error with connectivity %d, got %v", conn, err)
		}
		if filled != 50 {
			t.Errorf("Expected 50 cells filled with connectivity %d, got %d", conn, filled)
		}
		if got := r.CountValue(1, 0); got != 50 {
			t.Errorf("Expected 50 labeled cells with connectivity %d, got %d", conn, got)
		}
		if got := r.CountValue(2, 0); got != 10 {
			t.Errorf("Expected boundary intact with connectivity %d, got %d cells", conn, got)
		}
		if got := r.Get(7, 5, 0); got != 0 {
			t.Errorf("Expected right side untouched with connectivity %d, got %d", conn, got)
		}
	}
}

func TestFloodFillConnectivityAcrossDiagonal(t *testing.T) {
	// A single-cell diagonal boundary blocks the 4-connected fill but not
	// the 8-connected one, which crosses between corner-adjacent cells.
	build := func() *LabelRaster {
		r, _ := New(10, 10, 1)
		for i := 0; i < 10; i++ {
			r.Set(i, i, 0, 2)
		}
		return r
	}

	r4 := build()
	filled, err := FloodFill(r4, models.Point{X: 0, Y: 5}, 0, 1, 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if filled != 45 {
		t.Errorf("Expected 45 cells filled with 4-connectivity, got %d", filled)
	}

	r8 := build()
	filled, err = FloodFill(r8, models.Point{X: 0, Y: 5}, 0, 1, 8)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if filled != 90 {
		t.Errorf("Expected 90 cells filled with 8-connectivity, got %d", filled)
	}
}

func TestFloodFillNoops(t *testing.T) {
	r, _ := New(10, 10, 1)

	// Seed already holding the target value.
	r.Set(3, 3, 0, 5)
	filled, err := FloodFill(r, models.Point{X: 3, Y: 3}, 0, 5, 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if filled != 0 {
		t.Errorf("Expected no-op when seed equals target, got %d filled", filled)
	}

	// Out-of-bounds seed and slice.
	if filled, _ = FloodFill(r, models.Point{X: -1, Y: 0}, 0, 5, 4); filled != 0 {
		t.Errorf("Expected no-op for out-of-bounds seed, got %d filled", filled)
	}
	if filled, _ = FloodFill(r, models.Point{X: 0, Y: 0}, 3, 5, 4); filled != 0 {
		t.Errorf("Expected no-op for out-of-bounds slice, got %d filled", filled)
	}
}

func TestFloodFillRejectsBadConnectivity(t *testing.T) {
	r, _ := New(10, 10, 1)
	if _, err := FloodFill(r, models.Point{X: 0, Y: 0}, 0, 1, 6); err == nil {
		t.Error("Expected error for connectivity 6, got nil")
	}
}
