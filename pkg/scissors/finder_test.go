package scissors

import (
	"math"
	"testing"

	"volseg/internal/models"
)

func uniformCostMap(t *testing.T, w, h int) *CostMap {
	t.Helper()
	costs := make([]float64, w*h)
	for i := range costs {
		costs[i] = 1
	}
	cm, err := NewCostMapFromCosts(costs, w, h)
	if err != nil {
		t.Fatalf("Failed to build cost map: %v", err)
	}
	return cm
}

func TestSearchRejectsOutOfBoundsAnchor(t *testing.T) {
	f := NewFinder(uniformCostMap(t, 10, 10))
	if _, err := f.Search(models.Point{X: 10, Y: 0}); err == nil {
		t.Error("Expected error for out-of-bounds anchor, got nil")
	}
}

func TestPathToStraightOnUniformCosts(t *testing.T) {
	f := NewFinder(uniformCostMap(t, 20, 20))
	res, err := f.Search(models.Point{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.From() != (models.Point{X: 2, Y: 2}) {
		t.Errorf("Expected anchor (2,2), got %v", res.From())
	}

	// With uniform costs and sqrt(2)-scaled diagonals the unique shortest
	// path to a point on the same row is the straight horizontal run.
	pts := res.PathTo(models.Point{X: 10, Y: 2})
	if len(pts) != 9 {
		t.Fatalf("Expected 9-point path, got %d", len(pts))
	}
	if pts[0] != (models.Point{X: 2, Y: 2}) || pts[8] != (models.Point{X: 10, Y: 2}) {
		t.Errorf("Expected path endpoints (2,2) and (10,2), got %v and %v",
			pts[0], pts[8])
	}
	for _, p := range pts {
		if p.Y != 2 {
			t.Errorf("Expected path on row 2, got %v", p)
		}
	}
	if cost := res.CostTo(models.Point{X: 10, Y: 2}); math.Abs(cost-8) > 1e-9 {
		t.Errorf("Expected path cost 8, got %f", cost)
	}
}

func TestPathToSelfAndOutOfBounds(t *testing.T) {
	f := NewFinder(uniformCostMap(t, 10, 10))
	res, err := f.Search(models.Point{X: 3, Y: 3})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	pts := res.PathTo(models.Point{X: 3, Y: 3})
	if len(pts) != 1 || pts[0] != (models.Point{X: 3, Y: 3}) {
		t.Errorf("Expected single-point path to the anchor, got %v", pts)
	}
	if pts = res.PathTo(models.Point{X: -1, Y: 3}); pts != nil {
		t.Errorf("Expected nil path for out-of-bounds target, got %v", pts)
	}
}

func TestPathFollowsLowCostChannel(t *testing.T) {
	// Row y=1 is two orders of magnitude cheaper than the rest; the best
	// route between two row-0 pixels dips into the channel.
	costs := make([]float64, 10*10)
	for i := range costs {
		costs[i] = 1
	}
	for x := 0; x < 10; x++ {
		costs[1*10+x] = 0.01
	}
	cm, err := NewCostMapFromCosts(costs, 10, 10)
	if err != nil {
		t.Fatalf("Failed to build cost map: %v", err)
	}

	res, err := NewFinder(cm).Search(models.Point{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	pts := res.PathTo(models.Point{X: 9, Y: 0})
	if len(pts) == 0 {
		t.Fatal("Expected a path, got none")
	}

	inChannel := false
	for _, p := range pts {
		if p.Y == 1 {
			inChannel = true
			break
		}
	}
	if !inChannel {
		t.Errorf("Expected path to route through the cheap row, got %v", pts)
	}
	if cost := res.CostTo(models.Point{X: 9, Y: 0}); cost >= 2 {
		t.Errorf("Expected channel route cost below 2, got %f", cost)
	}
}
