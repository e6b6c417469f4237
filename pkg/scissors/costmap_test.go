package scissors

import (
	"math"
	"testing"

	"volseg/internal/models"
)

// edgeGrid builds a 32x32 grid with a vertical intensity step at the middle
// column, the canonical fixture for gradient-driven edge costs.
func edgeGrid() *models.SliceGrid {
	g := models.NewSliceGrid(32, 32)
	for y := 0; y < 32; y++ {
		for x := 16; x < 32; x++ {
			g.Set(x, y, 100)
		}
	}
	return g
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("Expected default params valid, got %v", err)
	}

	cases := []struct {
		name string
		p    Params
	}{
		{"weight above one", Params{GradientWeight: 1.2, GaussianSigma: 1.5}},
		{"negative weight", Params{GradientWeight: 0.5, DirectionWeight: -0.1, GaussianSigma: 1.5}},
		{"zero weight sum", Params{GaussianSigma: 1.5}},
		{"weight sum above one", Params{GradientWeight: 0.6, DirectionWeight: 0.6, GaussianSigma: 1.5}},
		{"sigma too small", Params{GradientWeight: 1, GaussianSigma: 0.5}},
		{"sigma too large", Params{GradientWeight: 1, GaussianSigma: 6}},
	}
	for _, c := range cases {
		if err := c.p.Validate(); err == nil {
			t.Errorf("Expected error for %s, got nil", c.name)
		}
	}
}

func TestNewCostMapRejectsBadInput(t *testing.T) {
	if _, err := NewCostMap(nil, DefaultParams()); err == nil {
		t.Error("Expected error for nil grid, got nil")
	}
	bad := &models.SliceGrid{Data: make([]float64, 5), Width: 3, Height: 3}
	if _, err := NewCostMap(bad, DefaultParams()); err == nil {
		t.Error("Expected error for mismatched data length, got nil")
	}
	if _, err := NewCostMap(edgeGrid(), Params{GaussianSigma: 1.5}); err == nil {
		t.Error("Expected error for invalid params, got nil")
	}
}

func TestCostMapLowCostAlongEdge(t *testing.T) {
	params := Params{GradientWeight: 1.0, GaussianSigma: 1.0, SmoothingEnabled: false}
	cm, err := NewCostMap(edgeGrid(), params)
	if err != nil {
		t.Fatalf("Failed to build cost map: %v", err)
	}
	if cm.Width() != 32 || cm.Height() != 32 {
		t.Fatalf("Expected 32x32 cost map, got %dx%d", cm.Width(), cm.Height())
	}

	// Stepping along the step column is nearly free; stepping through the
	// flat region costs the full gradient term.
	onEdge := cm.EdgeCost(models.Point{X: 15, Y: 10}, models.Point{X: 15, Y: 11})
	flat := cm.EdgeCost(models.Point{X: 5, Y: 10}, models.Point{X: 5, Y: 11})
	if onEdge > 1e-9 {
		t.Errorf("Expected near-zero cost along the edge, got %f", onEdge)
	}
	if flat < 0.99 {
		t.Errorf("Expected full cost in the flat region, got %f", flat)
	}
}

func TestCostMapDiagonalStepScaling(t *testing.T) {
	costs := make([]float64, 10*10)
	for i := range costs {
		costs[i] = 1
	}
	cm, err := NewCostMapFromCosts(costs, 10, 10)
	if err != nil {
		t.Fatalf("Failed to build cost map: %v", err)
	}

	axis := cm.EdgeCost(models.Point{X: 4, Y: 4}, models.Point{X: 5, Y: 4})
	diag := cm.EdgeCost(models.Point{X: 4, Y: 4}, models.Point{X: 5, Y: 5})
	if math.Abs(axis-1) > 1e-12 {
		t.Errorf("Expected axis step cost 1, got %f", axis)
	}
	if math.Abs(diag-math.Sqrt2) > 1e-12 {
		t.Errorf("Expected diagonal step cost sqrt(2), got %f", diag)
	}
}

func TestNewCostMapFromCostsValidation(t *testing.T) {
	if _, err := NewCostMapFromCosts(make([]float64, 5), 3, 3); err == nil {
		t.Error("Expected error for mismatched length, got nil")
	}
	if _, err := NewCostMapFromCosts([]float64{0, -1, 0, 0}, 2, 2); err == nil {
		t.Error("Expected error for negative cost, got nil")
	}
	if _, err := NewCostMapFromCosts([]float64{0, math.NaN(), 0, 0}, 2, 2); err == nil {
		t.Error("Expected error for NaN cost, got nil")
	}
}

func TestDirectionPenaltyFavorsEdgeDirection(t *testing.T) {
	params := Params{
		GradientWeight:   0.5,
		DirectionWeight:  0.5,
		GaussianSigma:    1.0,
		SmoothingEnabled: false,
	}
	cm, err := NewCostMap(edgeGrid(), params)
	if err != nil {
		t.Fatalf("Failed to build cost map: %v", err)
	}

	// On a vertical edge the perpendicular-to-gradient direction is
	// vertical, so a vertical link draws a smaller direction penalty than
	// a horizontal one between the same columns.
	along := cm.directionPenalty(models.Point{X: 15, Y: 10}, models.Point{X: 15, Y: 11})
	across := cm.directionPenalty(models.Point{X: 15, Y: 10}, models.Point{X: 16, Y: 10})
	if along >= across {
		t.Errorf("Expected along-edge penalty %f below across-edge penalty %f",
			along, across)
	}
}

func TestCostMapInBounds(t *testing.T) {
	costs := make([]float64, 4*3)
	cm, err := NewCostMapFromCosts(costs, 4, 3)
	if err != nil {
		t.Fatalf("Failed to build cost map: %v", err)
	}
	if !cm.InBounds(models.Point{X: 3, Y: 2}) {
		t.Error("Expected (3,2) in bounds")
	}
	if cm.InBounds(models.Point{X: 4, Y: 0}) || cm.InBounds(models.Point{X: 0, Y: -1}) {
		t.Error("Expected out-of-range points rejected")
	}
}
