package raster

import (
	"math"
	"sort"

	"volseg/internal/models"
)

// FillPolygon rasterizes the interior of a closed polygon on one slice using
// the even-odd scanline parity rule. The polygon is implicitly closed from
// the last vertex back to the first. Self-intersecting polygons fill by
// parity with no repair; horizontal edges contribute no crossings. Cells
// outside the raster are silently skipped.
func FillPolygon(c Canvas, verts []models.Point, slice int, value uint8) {
	if len(verts) < 3 {
		return
	}

	minY, maxY := verts[0].Y, verts[0].Y
	for _, v := range verts[1:] {
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= c.Height() {
		maxY = c.Height() - 1
	}

	crossings := make([]float64, 0, 8)
	for y := minY; y <= maxY; y++ {
		crossings = crossings[:0]
		fy := float64(y)

		for i := range verts {
			a := verts[i]
			b := verts[(i+1)%len(verts)]
			ay, by := float64(a.Y), float64(b.Y)
			if ay == by {
				continue
			}
			// Half-open span [min(ay,by), max(ay,by)) so shared vertices
			// are counted exactly once per adjoining edge pair.
			if (ay <= fy && by > fy) || (by <= fy && ay > fy) {
				t := (fy - ay) / (by - ay)
				crossings = append(crossings, float64(a.X)+t*float64(b.X-a.X))
			}
		}
		if len(crossings) < 2 {
			continue
		}
		sort.Float64s(crossings)

		for i := 0; i+1 < len(crossings); i += 2 {
			x0 := int(math.Ceil(crossings[i]))
			x1 := int(math.Floor(crossings[i+1]))
			for x := x0; x <= x1; x++ {
				c.Set(x, y, slice, value)
			}
		}
	}
}
