// Package scissors implements the live-wire ("smart scissors") edge tracing
// machinery: a per-slice edge cost map derived from gradient magnitude,
// gradient direction continuity and Laplacian zero-crossings, and a
// Dijkstra shortest-path finder over the 8-connected pixel graph.
package scissors

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"volseg/internal/models"
)

// Params holds the cost-map weighting configuration. The three component
// weights follow the classic live-wire formulation: gradient magnitude
// dominates, direction continuity discourages sharp turns and the Laplacian
// term rewards zero-crossing proximity.
type Params struct {
	// GradientWeight scales the inverted normalized gradient magnitude.
	GradientWeight float64

	// DirectionWeight scales the gradient direction discontinuity penalty.
	DirectionWeight float64

	// LaplacianWeight scales the Laplacian zero-crossing penalty.
	LaplacianWeight float64

	// GaussianSigma is the pre-smoothing sigma in [1.0, 5.0], applied to
	// the source slice before gradients when SmoothingEnabled is set.
	GaussianSigma float64

	// SmoothingEnabled toggles the Gaussian pre-smoothing pass.
	SmoothingEnabled bool
}

const weightSumSlack = 1e-9

// Validate checks all parameter invariants together.
func (p Params) Validate() error {
	for _, w := range []struct {
		name string
		v    float64
	}{
		{"gradient weight", p.GradientWeight},
		{"direction weight", p.DirectionWeight},
		{"laplacian weight", p.LaplacianWeight},
	} {
		if w.v < 0 || w.v > 1 {
			return fmt.Errorf("%s %f out of range [0, 1]", w.name, w.v)
		}
	}
	sum := p.GradientWeight + p.DirectionWeight + p.LaplacianWeight
	if sum <= 0 || sum > 1+weightSumSlack {
		return fmt.Errorf("weight sum %f out of range (0, 1]", sum)
	}
	if p.GaussianSigma < 1.0 || p.GaussianSigma > 5.0 {
		return fmt.Errorf("gaussian sigma %f out of range [1.0, 5.0]", p.GaussianSigma)
	}
	return nil
}

// DefaultParams returns the standard live-wire weighting.
func DefaultParams() Params {
	return Params{
		GradientWeight:   0.6,
		DirectionWeight:  0.2,
		LaplacianWeight:  0.2,
		GaussianSigma:    1.5,
		SmoothingEnabled: true,
	}
}

// CostMap holds the per-pixel cost components for one slice. Edge costs are
// evaluated lazily per neighbor pair by EdgeCost.
type CostMap struct {
	width  int
	height int

	// gradCost is wG-weighted 1 - normalized gradient magnitude.
	gradCost []float64

	// dirX, dirY are unit vectors perpendicular to the gradient, used by
	// the direction continuity penalty. Zero where the gradient vanishes.
	dirX, dirY []float64

	// lapCost is 0 at Laplacian zero-crossings, 1 elsewhere.
	lapCost []float64

	params Params

	// external marks a caller-supplied cost map: gradCost then holds the
	// full per-pixel cost and the other components are disabled.
	external bool
}

// NewCostMap computes the cost components from a grayscale sample grid.
func NewCostMap(grid *models.SliceGrid, params Params) (*CostMap, error) {
	if grid == nil || len(grid.Data) == 0 {
		return nil, fmt.Errorf("nil or empty source grid")
	}
	if len(grid.Data) != grid.Width*grid.Height {
		return nil, fmt.Errorf("grid data length %d does not match %dx%d",
			len(grid.Data), grid.Width, grid.Height)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	w, h := grid.Width, grid.Height
	data := append([]float64(nil), grid.Data...)
	if params.SmoothingEnabled {
		data = gaussianSmooth(data, w, h, params.GaussianSigma)
	}

	cm := &CostMap{
		width:    w,
		height:   h,
		gradCost: make([]float64, w*h),
		dirX:     make([]float64, w*h),
		dirY:     make([]float64, w*h),
		lapCost:  make([]float64, w*h),
		params:   params,
	}

	src := &models.SliceGrid{Data: data, Width: w, Height: h}
	gx := make([]float64, w*h)
	gy := make([]float64, w*h)
	mag := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			// Sobel kernels; At clamps at the grid edges.
			gx[i] = src.At(x+1, y-1) + 2*src.At(x+1, y) + src.At(x+1, y+1) -
				src.At(x-1, y-1) - 2*src.At(x-1, y) - src.At(x-1, y+1)
			gy[i] = src.At(x-1, y+1) + 2*src.At(x, y+1) + src.At(x+1, y+1) -
				src.At(x-1, y-1) - 2*src.At(x, y-1) - src.At(x+1, y-1)
			mag[i] = math.Hypot(gx[i], gy[i])
		}
	}

	maxMag := floats.Max(mag)
	if maxMag > 0 {
		floats.Scale(1/maxMag, mag)
	}
	for i := range mag {
		cm.gradCost[i] = 1 - mag[i]
		g := math.Hypot(gx[i], gy[i])
		if g > 0 {
			// Direction vector perpendicular to the gradient, i.e. along
			// the edge the path should follow.
			cm.dirX[i] = gy[i] / g
			cm.dirY[i] = -gx[i] / g
		}
	}

	lap := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lap[y*w+x] = src.At(x+1, y) + src.At(x-1, y) +
				src.At(x, y+1) + src.At(x, y-1) - 4*src.At(x, y)
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			cm.lapCost[i] = 1
			if isZeroCrossing(lap, w, h, x, y) {
				cm.lapCost[i] = 0
			}
		}
	}

	return cm, nil
}

// NewCostMapFromCosts wraps a caller-supplied per-pixel cost map; each value
// is used directly as the cost of entering that pixel.
func NewCostMapFromCosts(costs []float64, width, height int) (*CostMap, error) {
	if len(costs) != width*height || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("cost data length %d does not match %dx%d",
			len(costs), width, height)
	}
	for i, v := range costs {
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("negative or NaN cost %f at index %d", v, i)
		}
	}
	return &CostMap{
		width:    width,
		height:   height,
		gradCost: append([]float64(nil), costs...),
		external: true,
	}, nil
}

// Width returns the cost map width in pixels.
func (cm *CostMap) Width() int { return cm.width }

// Height returns the cost map height in pixels.
func (cm *CostMap) Height() int { return cm.height }

// InBounds reports whether p addresses a pixel of the cost map.
func (cm *CostMap) InBounds(p models.Point) bool {
	return p.X >= 0 && p.X < cm.width && p.Y >= 0 && p.Y < cm.height
}

// EdgeCost returns the non-negative cost of stepping from u to an adjacent
// pixel v, scaled by the Euclidean step length so diagonal moves are not
// preferred over axis moves in uniform regions.
func (cm *CostMap) EdgeCost(u, v models.Point) float64 {
	step := 1.0
	if u.X != v.X && u.Y != v.Y {
		step = math.Sqrt2
	}
	vi := v.Y*cm.width + v.X
	if cm.external {
		return cm.gradCost[vi] * step
	}
	cost := cm.params.GradientWeight*cm.gradCost[vi] +
		cm.params.DirectionWeight*cm.directionPenalty(u, v) +
		cm.params.LaplacianWeight*cm.lapCost[vi]
	return cost * step
}

// directionPenalty implements the Mortensen-Barrett direction continuity
// term: the penalty grows as the link between u and v departs from the edge
// direction at either pixel.
func (cm *CostMap) directionPenalty(u, v models.Point) float64 {
	ui := u.Y*cm.width + u.X
	vi := v.Y*cm.width + v.X

	lx := float64(v.X - u.X)
	ly := float64(v.Y - u.Y)
	norm := math.Hypot(lx, ly)
	if norm == 0 {
		return 0
	}
	lx /= norm
	ly /= norm

	// Orient the link so it agrees with the edge direction at u.
	if cm.dirX[ui]*lx+cm.dirY[ui]*ly < 0 {
		lx, ly = -lx, -ly
	}

	du := clampUnit(cm.dirX[ui]*lx + cm.dirY[ui]*ly)
	dv := clampUnit(cm.dirX[vi]*lx + cm.dirY[vi]*ly)
	return (math.Acos(du) + math.Acos(dv)) / math.Pi
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// isZeroCrossing reports whether the Laplacian changes sign between (x, y)
// and any of its 4-neighbors, the classic second-derivative edge indicator.
func isZeroCrossing(lap []float64, w, h, x, y int) bool {
	c := lap[y*w+x]
	if c == 0 {
		return true
	}
	for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			continue
		}
		n := lap[ny*w+nx]
		if (c > 0 && n < 0) || (c < 0 && n > 0) {
			// The crossing belongs to the pixel closer to zero.
			if math.Abs(c) <= math.Abs(n) {
				return true
			}
		}
	}
	return false
}

// gaussianSmooth applies a separable Gaussian blur with the given sigma,
// clamping at the grid edges.
func gaussianSmooth(data []float64, w, h int, sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	for k := -radius; k <= radius; k++ {
		kernel[k+radius] = math.Exp(-float64(k*k) / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	clampX := func(x int) int {
		if x < 0 {
			return 0
		}
		if x >= w {
			return w - 1
		}
		return x
	}
	clampY := func(y int) int {
		if y < 0 {
			return 0
		}
		if y >= h {
			return h - 1
		}
		return y
	}

	tmp := make([]float64, len(data))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var s float64
			for k := -radius; k <= radius; k++ {
				s += kernel[k+radius] * data[y*w+clampX(x+k)]
			}
			tmp[y*w+x] = s
		}
	}
	out := make([]float64, len(data))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var s float64
			for k := -radius; k <= radius; k++ {
				s += kernel[k+radius] * tmp[clampY(y+k)*w+x]
			}
			out[y*w+x] = s
		}
	}
	return out
}
