package raster

import (
	"volseg/internal/models"
)

// BrushShape selects the footprint used when stamping.
type BrushShape int

const (
	// Circle includes every cell whose Euclidean distance from the stamp
	// center is at most half the brush size.
	Circle BrushShape = iota

	// Square includes every cell whose axis offsets from the stamp center
	// are both at most half the brush size.
	Square
)

// Canvas is the mutable cell target the rasterization primitives draw on.
// *LabelRaster satisfies it directly; the history recorder wraps one to
// capture before-values while an operation is in progress.
type Canvas interface {
	Width() int
	Height() int
	Depth() int
	Get(x, y, z int) uint8
	Set(x, y, z int, v uint8) bool
}

// Stamp sets every cell within the brush footprint centered at center on the
// given slice to value. Cells outside the raster are silently skipped.
func Stamp(c Canvas, center models.Point, slice, size int, shape BrushShape, value uint8) {
	if size < 1 {
		return
	}
	radius := float64(size) / 2.0
	extent := size / 2
	if size%2 != 0 {
		extent = (size + 1) / 2
	}
	for dy := -extent; dy <= extent; dy++ {
		for dx := -extent; dx <= extent; dx++ {
			switch shape {
			case Circle:
				if float64(dx*dx+dy*dy) > radius*radius {
					continue
				}
			case Square:
				if float64(abs(dx)) > radius || float64(abs(dy)) > radius {
					continue
				}
			}
			c.Set(center.X+dx, center.Y+dy, slice, value)
		}
	}
}

// LinePoints returns the integer Bresenham interpolation between from and to,
// inclusive of both endpoints. Consecutive points are 8-connected, so a
// stroke stamped at each point has no gaps regardless of pointer speed.
func LinePoints(from, to models.Point) []models.Point {
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)
	sx := 1
	if from.X > to.X {
		sx = -1
	}
	sy := 1
	if from.Y > to.Y {
		sy = -1
	}

	capacity := dx + 1
	if dy > dx {
		capacity = dy + 1
	}
	pts := make([]models.Point, 0, capacity)
	x, y := from.X, from.Y
	errTerm := dx - dy
	for {
		pts = append(pts, models.Point{X: x, Y: y})
		if x == to.X && y == to.Y {
			break
		}
		e2 := 2 * errTerm
		if e2 > -dy {
			errTerm -= dy
			x += sx
		}
		if e2 < dx {
			errTerm += dx
			y += sy
		}
	}
	return pts
}

// StrokeLine stamps the brush at every Bresenham point from from to to.
// A zero-length line degenerates to a single stamp.
func StrokeLine(c Canvas, from, to models.Point, slice, size int, shape BrushShape, value uint8) {
	for _, p := range LinePoints(from, to) {
		Stamp(c, p, slice, size, shape, value)
	}
}

// StrokePolyline strokes consecutive point pairs of an open path.
func StrokePolyline(c Canvas, pts []models.Point, slice, size int, shape BrushShape, value uint8) {
	if len(pts) == 0 {
		return
	}
	if len(pts) == 1 {
		Stamp(c, pts[0], slice, size, shape, value)
		return
	}
	for i := 1; i < len(pts); i++ {
		StrokeLine(c, pts[i-1], pts[i], slice, size, shape, value)
	}
}

// StrokePolygon strokes a closed path: the polyline plus the closing edge
// from the last point back to the first.
func StrokePolygon(c Canvas, pts []models.Point, slice, size int, shape BrushShape, value uint8) {
	StrokePolyline(c, pts, slice, size, shape, value)
	if len(pts) > 2 {
		StrokeLine(c, pts[len(pts)-1], pts[0], slice, size, shape, value)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
