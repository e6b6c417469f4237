// Package pathproc post-processes captured freehand point sequences:
// Gaussian-window smoothing, Douglas-Peucker simplification and auto-close
// detection. All functions leave their input untouched.
package pathproc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"volseg/internal/models"
)

// Options controls the post-processing pipeline applied at commit time.
type Options struct {
	// SmoothingEnabled applies the Gaussian-window smoother first.
	SmoothingEnabled bool

	// SmoothingWindow is the smoothing window length; odd, in [3, 11],
	// so the window is symmetric around each point.
	SmoothingWindow int

	// SimplificationEnabled applies Douglas-Peucker after smoothing.
	SimplificationEnabled bool

	// SimplificationTolerance is the perpendicular distance threshold.
	SimplificationTolerance float64

	// CloseThreshold is the maximum first-to-last distance at which the
	// processed path is treated as closed.
	CloseThreshold float64
}

// Validate checks all option invariants together; an invalid set is
// rejected wholesale.
func (o Options) Validate() error {
	if o.SmoothingWindow < 3 || o.SmoothingWindow > 11 {
		return fmt.Errorf("smoothing window %d out of range [3, 11]", o.SmoothingWindow)
	}
	if o.SmoothingWindow%2 == 0 {
		return fmt.Errorf("smoothing window %d must be odd", o.SmoothingWindow)
	}
	if o.SimplificationTolerance < 0 {
		return fmt.Errorf("simplification tolerance %f must be >= 0", o.SimplificationTolerance)
	}
	if o.CloseThreshold < 0 {
		return fmt.Errorf("close threshold %f must be >= 0", o.CloseThreshold)
	}
	return nil
}

// Process runs the configured pipeline over a captured path and reports
// whether the result should be treated as a closed loop.
func Process(pts []models.Point, opts Options) (out []models.Point, closed bool) {
	out = append([]models.Point(nil), pts...)
	if opts.SmoothingEnabled {
		out = Smooth(out, opts.SmoothingWindow)
	}
	if opts.SimplificationEnabled {
		out = Simplify(out, opts.SimplificationTolerance)
	}
	closed = IsClosed(out, opts.CloseThreshold)
	return out, closed
}

// Smooth applies a Gaussian-weighted moving average with the given odd
// window length. Near the path ends the window shrinks symmetrically, so
// the first and last points keep their original positions exactly.
func Smooth(pts []models.Point, window int) []models.Point {
	if len(pts) < 3 || window < 3 {
		return append([]models.Point(nil), pts...)
	}

	half := window / 2
	sigma := float64(window) / 4.0
	weights := make([]float64, window)
	for k := -half; k <= half; k++ {
		weights[k+half] = math.Exp(-float64(k*k) / (2 * sigma * sigma))
	}

	out := make([]models.Point, len(pts))
	for i := range pts {
		// Symmetric shrink: the reach is limited by the nearer path end,
		// which pins the endpoints to their captured positions.
		reach := half
		if i < reach {
			reach = i
		}
		if len(pts)-1-i < reach {
			reach = len(pts) - 1 - i
		}
		if reach == 0 {
			out[i] = pts[i]
			continue
		}

		w := weights[half-reach : half+reach+1]
		norm := floats.Sum(w)
		var sx, sy float64
		for k := -reach; k <= reach; k++ {
			wk := w[k+reach]
			sx += wk * float64(pts[i+k].X)
			sy += wk * float64(pts[i+k].Y)
		}
		out[i] = models.PointF{X: sx / norm, Y: sy / norm}.Round()
	}
	return out
}

// Simplify reduces the point count with the Douglas-Peucker algorithm,
// preserving every point whose perpendicular distance from the current
// segment exceeds tolerance. Endpoints are always retained.
func Simplify(pts []models.Point, tolerance float64) []models.Point {
	if len(pts) < 3 {
		return append([]models.Point(nil), pts...)
	}
	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true
	simplifySegment(pts, 0, len(pts)-1, tolerance, keep)

	out := make([]models.Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

func simplifySegment(pts []models.Point, first, last int, tolerance float64, keep []bool) {
	if last-first < 2 {
		return
	}
	maxDist := 0.0
	maxIdx := first
	for i := first + 1; i < last; i++ {
		d := perpendicularDistance(pts[i], pts[first], pts[last])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist > tolerance {
		keep[maxIdx] = true
		simplifySegment(pts, first, maxIdx, tolerance, keep)
		simplifySegment(pts, maxIdx, last, tolerance, keep)
	}
}

// perpendicularDistance returns the distance from p to the line through a
// and b, falling back to point distance for a degenerate segment.
func perpendicularDistance(p, a, b models.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return p.Dist(a)
	}
	return math.Abs(dy*float64(p.X)-dx*float64(p.Y)+
		float64(b.X)*float64(a.Y)-float64(b.Y)*float64(a.X)) / length
}

// IsClosed reports whether the first and last points are within
// closeThreshold of each other. Paths of fewer than 3 points never close.
func IsClosed(pts []models.Point, closeThreshold float64) bool {
	if len(pts) < 3 {
		return false
	}
	return pts[0].Dist(pts[len(pts)-1]) <= closeThreshold
}
