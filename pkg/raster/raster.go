// Package raster implements the editable label raster and the digital
// rasterization primitives (brush stamping, line strokes, flood fill and
// polygon fill) that the interactive tools build on.
package raster

import "fmt"

// LabelRaster is a width x height x depth grid of 8-bit label values.
// Value 0 is reserved for background; values 1-255 are label ids.
// The grid is stored flat in row-major order (z*w*h + y*w + x), matching
// the volume layout used throughout this codebase.
type LabelRaster struct {
	width  int
	height int
	depth  int
	data   []uint8
}

// New creates a label raster with the given dimensions, all background.
func New(width, height, depth int) (*LabelRaster, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid raster dimensions %dx%dx%d", width, height, depth)
	}
	return &LabelRaster{
		width:  width,
		height: height,
		depth:  depth,
		data:   make([]uint8, width*height*depth),
	}, nil
}

// Resize re-initializes the raster to new dimensions, discarding all labels.
func (r *LabelRaster) Resize(width, height, depth int) error {
	if width <= 0 || height <= 0 || depth <= 0 {
		return fmt.Errorf("invalid raster dimensions %dx%dx%d", width, height, depth)
	}
	r.width = width
	r.height = height
	r.depth = depth
	r.data = make([]uint8, width*height*depth)
	return nil
}

// Width returns the raster width in cells.
func (r *LabelRaster) Width() int { return r.width }

// Height returns the raster height in cells.
func (r *LabelRaster) Height() int { return r.height }

// Depth returns the number of slices.
func (r *LabelRaster) Depth() int { return r.depth }

// InBounds reports whether (x, y, z) addresses a cell of the raster.
func (r *LabelRaster) InBounds(x, y, z int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height && z >= 0 && z < r.depth
}

// Get returns the label at (x, y, z), or 0 for out-of-bounds cells.
func (r *LabelRaster) Get(x, y, z int) uint8 {
	if !r.InBounds(x, y, z) {
		return 0
	}
	return r.data[r.index(x, y, z)]
}

// Set writes a label value and reports whether the cell was inside the
// raster. Out-of-bounds writes are silently skipped, never an error.
func (r *LabelRaster) Set(x, y, z int, v uint8) bool {
	if !r.InBounds(x, y, z) {
		return false
	}
	r.data[r.index(x, y, z)] = v
	return true
}

func (r *LabelRaster) index(x, y, z int) int {
	return z*r.width*r.height + y*r.width + x
}

// Data exposes the underlying buffer. Callers must treat it as read-only;
// all mutation goes through Set so that change recording stays accurate.
func (r *LabelRaster) Data() []uint8 { return r.data }

// Clone returns a deep copy of the raster.
func (r *LabelRaster) Clone() *LabelRaster {
	data := make([]uint8, len(r.data))
	copy(data, r.data)
	return &LabelRaster{width: r.width, height: r.height, depth: r.depth, data: data}
}

// FillValue sets every cell of the raster to v.
func (r *LabelRaster) FillValue(v uint8) {
	for i := range r.data {
		r.data[i] = v
	}
}

// ReplaceValue rewrites every cell holding old to new and returns the number
// of cells changed. Used by label-wide clears.
func (r *LabelRaster) ReplaceValue(old, new uint8) int {
	n := 0
	for i, v := range r.data {
		if v == old {
			r.data[i] = new
			n++
		}
	}
	return n
}

// CountValue returns the number of cells holding v, optionally restricted to
// one slice (slice < 0 counts the whole volume).
func (r *LabelRaster) CountValue(v uint8, slice int) int {
	n := 0
	if slice < 0 {
		for _, cell := range r.data {
			if cell == v {
				n++
			}
		}
		return n
	}
	if slice >= r.depth {
		return 0
	}
	base := slice * r.width * r.height
	for _, cell := range r.data[base : base+r.width*r.height] {
		if cell == v {
			n++
		}
	}
	return n
}
