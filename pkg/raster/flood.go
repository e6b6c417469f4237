package raster

import (
	"fmt"

	"volseg/internal/models"
)

// Neighbor offset tables for the two supported connectivities. The 8-way
// table orders the edge neighbors first so BFS expansion stays compact.
var (
	neighbors4 = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	neighbors8 = [][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
)

// FloodFill performs a breadth-first region fill on one slice, replacing the
// connected region of the seed's original value with target. The original
// value read at the seed is the membership test for the whole traversal;
// mutated cells are never re-read, and an explicit visited mask guarantees
// each cell is visited exactly once.
//
// connectivity must be 4 (edge-adjacent) or 8 (edge+corner-adjacent). With
// 8-connectivity the fill crosses single-cell diagonal gaps in a boundary:
// corner-adjacent same-valued cells are always neighbors of the region.
//
// An out-of-bounds seed, or a seed already holding target, is a no-op.
// Returns the number of cells filled.
func FloodFill(c Canvas, seed models.Point, slice int, target uint8, connectivity int) (int, error) {
	var offsets [][2]int
	switch connectivity {
	case 4:
		offsets = neighbors4
	case 8:
		offsets = neighbors8
	default:
		return 0, fmt.Errorf("unsupported connectivity %d: must be 4 or 8", connectivity)
	}

	width, height := c.Width(), c.Height()
	if seed.X < 0 || seed.X >= width || seed.Y < 0 || seed.Y >= height ||
		slice < 0 || slice >= c.Depth() {
		return 0, nil
	}

	original := c.Get(seed.X, seed.Y, slice)
	if original == target {
		return 0, nil
	}

	visited := make([]bool, width*height)
	queue := make([]models.Point, 0, 64)

	visit := func(p models.Point) {
		visited[p.Y*width+p.X] = true
		c.Set(p.X, p.Y, slice, target)
		queue = append(queue, p)
	}
	visit(seed)

	filled := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		filled++

		for _, d := range offsets {
			nx, ny := p.X+d[0], p.Y+d[1]
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			if visited[ny*width+nx] {
				continue
			}
			if c.Get(nx, ny, slice) != original {
				continue
			}
			visit(models.Point{X: nx, Y: ny})
		}
	}
	return filled, nil
}
