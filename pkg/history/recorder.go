package history

import "volseg/pkg/raster"

// Recorder wraps a label raster as a raster.Canvas and notes the original
// value of every cell touched while an interactive operation is in progress.
// At commit time it materializes one bounding-region Diff covering the whole
// operation, however many strokes or fills it contained.
type Recorder struct {
	target *raster.LabelRaster

	// originals maps the linear cell index to its pre-operation value,
	// first touch wins.
	originals map[int]uint8

	minX, minY, minZ int
	maxX, maxY, maxZ int
	touched          bool
	writes           int
}

var _ raster.Canvas = (*Recorder)(nil)

// NewRecorder starts recording changes against the given raster.
func NewRecorder(target *raster.LabelRaster) *Recorder {
	return &Recorder{
		target:    target,
		originals: make(map[int]uint8),
	}
}

// Width returns the target raster width.
func (rec *Recorder) Width() int { return rec.target.Width() }

// Height returns the target raster height.
func (rec *Recorder) Height() int { return rec.target.Height() }

// Depth returns the target raster depth.
func (rec *Recorder) Depth() int { return rec.target.Depth() }

// Get reads through to the target raster.
func (rec *Recorder) Get(x, y, z int) uint8 { return rec.target.Get(x, y, z) }

// Set records the cell's original value on first touch, then writes through.
func (rec *Recorder) Set(x, y, z int, v uint8) bool {
	if !rec.target.InBounds(x, y, z) {
		return false
	}
	idx := (z*rec.target.Height()+y)*rec.target.Width() + x
	if _, seen := rec.originals[idx]; !seen {
		rec.originals[idx] = rec.target.Get(x, y, z)
	}
	if !rec.touched {
		rec.minX, rec.maxX = x, x
		rec.minY, rec.maxY = y, y
		rec.minZ, rec.maxZ = z, z
		rec.touched = true
	} else {
		if x < rec.minX {
			rec.minX = x
		}
		if x > rec.maxX {
			rec.maxX = x
		}
		if y < rec.minY {
			rec.minY = y
		}
		if y > rec.maxY {
			rec.maxY = y
		}
		if z < rec.minZ {
			rec.minZ = z
		}
		if z > rec.maxZ {
			rec.maxZ = z
		}
	}
	rec.writes++
	return rec.target.Set(x, y, z, v)
}

// Touched reports whether any cell was written since recording began.
func (rec *Recorder) Touched() bool { return rec.touched }

// Writes returns the number of in-bounds cell writes recorded so far, used
// to detect whether an event actually mutated the raster.
func (rec *Recorder) Writes() int { return rec.writes }

// Revert writes every recorded original value back onto the raster,
// discarding the in-progress operation. Used when a live-preview tool is
// cancelled before commit.
func (rec *Recorder) Revert() {
	w, h := rec.target.Width(), rec.target.Height()
	for idx, orig := range rec.originals {
		x := idx % w
		y := (idx / w) % h
		z := idx / (w * h)
		rec.target.Set(x, y, z, orig)
	}
	rec.originals = make(map[int]uint8)
	rec.touched = false
}

// Diff materializes the bounding-region diff of everything recorded so far.
// The After buffer is the raster's current region contents; the Before
// buffer is the same region with the recorded originals substituted back.
// Returns nil when nothing was touched.
func (rec *Recorder) Diff(slice int) *Diff {
	if !rec.touched {
		return nil
	}
	d := &Diff{
		Slice:  slice,
		X:      rec.minX,
		Y:      rec.minY,
		Z:      rec.minZ,
		Width:  rec.maxX - rec.minX + 1,
		Height: rec.maxY - rec.minY + 1,
		Depth:  rec.maxZ - rec.minZ + 1,
	}
	n := d.Width * d.Height * d.Depth
	d.Before = make([]uint8, n)
	d.After = make([]uint8, n)

	w, h := rec.target.Width(), rec.target.Height()
	i := 0
	for z := d.Z; z <= rec.maxZ; z++ {
		for y := d.Y; y <= rec.maxY; y++ {
			for x := d.X; x <= rec.maxX; x++ {
				cur := rec.target.Get(x, y, z)
				d.After[i] = cur
				if orig, ok := rec.originals[(z*h+y)*w+x]; ok {
					d.Before[i] = orig
				} else {
					d.Before[i] = cur
				}
				i++
			}
		}
	}
	return d
}
