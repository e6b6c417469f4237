package models

import (
	"math"
	"testing"
)

func TestPointDist(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	if got := a.Dist(b); got != 5 {
		t.Errorf("Expected distance 5, got %f", got)
	}
	if got := a.Dist(a); got != 0 {
		t.Errorf("Expected zero distance, got %f", got)
	}
}

func TestPointFRound(t *testing.T) {
	p := PointF{X: 2.5, Y: -1.4}.Round()
	if p.X != 3 || p.Y != -1 {
		t.Errorf("Expected (3,-1), got (%d,%d)", p.X, p.Y)
	}
}

func TestSliceGridAtClampsEdges(t *testing.T) {
	g := NewSliceGrid(3, 2)
	g.Set(0, 0, 1.5)
	g.Set(2, 1, 7.0)

	if got := g.At(-1, -1); got != 1.5 {
		t.Errorf("Expected clamped read 1.5, got %f", got)
	}
	if got := g.At(10, 10); got != 7.0 {
		t.Errorf("Expected clamped read 7.0, got %f", got)
	}
	if math.Abs(g.At(2, 1)-7.0) > 1e-12 {
		t.Errorf("Expected 7.0 at (2,1), got %f", g.At(2, 1))
	}
}
