package models

// SliceGrid is a generic grayscale sample grid for a single slice of the
// source volume. It abstracts whatever image library produced the samples:
// cost-map computation depends only on sample values, dimensions and
// physical spacing, never on the originating container type.
type SliceGrid struct {
	// Data holds the samples in row-major order (y*Width + x).
	Data []float64

	// Width and Height are the grid dimensions in samples.
	Width  int
	Height int

	// SpacingX and SpacingY are the physical sample spacings in mm.
	// A zero spacing is treated as 1.0 by consumers.
	SpacingX float64
	SpacingY float64
}

// NewSliceGrid allocates a zero-filled sample grid.
func NewSliceGrid(width, height int) *SliceGrid {
	return &SliceGrid{
		Data:     make([]float64, width*height),
		Width:    width,
		Height:   height,
		SpacingX: 1.0,
		SpacingY: 1.0,
	}
}

// InBounds reports whether (x, y) addresses a sample in the grid.
func (g *SliceGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the sample at (x, y). Out-of-bounds coordinates are clamped to
// the nearest edge sample, which keeps convolution loops branch-light.
func (g *SliceGrid) At(x, y int) float64 {
	if x < 0 {
		x = 0
	} else if x >= g.Width {
		x = g.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.Height {
		y = g.Height - 1
	}
	return g.Data[y*g.Width+x]
}

// Set stores a sample value; out-of-bounds coordinates are ignored.
func (g *SliceGrid) Set(x, y int, v float64) {
	if !g.InBounds(x, y) {
		return
	}
	g.Data[y*g.Width+x] = v
}
