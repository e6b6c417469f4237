package models

import "math"

// Point is an integer raster-space coordinate within a single slice.
type Point struct {
	X, Y int
}

// PointF is a float64 2D point used during path post-processing,
// where smoothing produces sub-pixel positions.
type PointF struct {
	X, Y float64
}

// Round converts a float point back to the nearest raster cell.
func (p PointF) Round() Point {
	return Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// ToF converts a raster cell coordinate to a float point.
func (p Point) ToF() PointF {
	return PointF{X: float64(p.X), Y: float64(p.Y)}
}

// Dist returns the Euclidean distance between two raster points.
func (p Point) Dist(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Hypot(dx, dy)
}

// Dist returns the Euclidean distance between two float points.
func (p PointF) Dist(q PointF) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}
