package engine

import (
	"fmt"

	"volseg/pkg/pathproc"
	"volseg/pkg/raster"
	"volseg/pkg/scissors"
)

// Tool identifies the active interactive tool. Exactly one tool is active
// at a time; switching cancels the previous tool's in-progress state.
type Tool int

const (
	ToolNone Tool = iota
	ToolBrush
	ToolEraser
	ToolFill
	ToolFreehand
	ToolPolygon
	ToolSmartScissors
)

// String returns the tool name for logging and error messages.
func (t Tool) String() string {
	switch t {
	case ToolNone:
		return "none"
	case ToolBrush:
		return "brush"
	case ToolEraser:
		return "eraser"
	case ToolFill:
		return "fill"
	case ToolFreehand:
		return "freehand"
	case ToolPolygon:
		return "polygon"
	case ToolSmartScissors:
		return "smart-scissors"
	default:
		return fmt.Sprintf("tool(%d)", int(t))
	}
}

// BrushParams configures the brush and eraser footprint.
type BrushParams struct {
	// Size is the brush diameter in cells, in [1, 50].
	Size int

	// Shape selects the circular or square footprint.
	Shape raster.BrushShape
}

// Validate checks the brush invariants.
func (p BrushParams) Validate() error {
	if p.Size < 1 || p.Size > 50 {
		return fmt.Errorf("brush size %d out of range [1, 50]", p.Size)
	}
	if p.Shape != raster.Circle && p.Shape != raster.Square {
		return fmt.Errorf("unknown brush shape %d", p.Shape)
	}
	return nil
}

// FillParams configures the flood fill tool.
type FillParams struct {
	// Connectivity is the neighbor relation, 4 or 8.
	Connectivity int

	// Tolerance is reserved for non-discrete sources; must be >= 0.
	// The uint8 label raster is discrete, so it is held but unused.
	Tolerance float64
}

// Validate checks the fill invariants.
func (p FillParams) Validate() error {
	if p.Connectivity != 4 && p.Connectivity != 8 {
		return fmt.Errorf("connectivity %d must be 4 or 8", p.Connectivity)
	}
	if p.Tolerance < 0 {
		return fmt.Errorf("tolerance %f must be >= 0", p.Tolerance)
	}
	return nil
}

// FreehandParams configures freehand capture post-processing and rendering.
// All invariants are validated together; an invalid set is rejected
// wholesale with the prior configuration retained.
type FreehandParams struct {
	SmoothingEnabled        bool
	SmoothingWindow         int
	SimplificationEnabled   bool
	SimplificationTolerance float64
	FillInterior            bool
	CloseThreshold          float64

	// StrokeWidth is the brush size used to rasterize the committed path.
	StrokeWidth int
}

// Validate checks the freehand invariants as a unit.
func (p FreehandParams) Validate() error {
	opts := p.options()
	if err := opts.Validate(); err != nil {
		return err
	}
	if p.StrokeWidth < 1 || p.StrokeWidth > 50 {
		return fmt.Errorf("stroke width %d out of range [1, 50]", p.StrokeWidth)
	}
	return nil
}

func (p FreehandParams) options() pathproc.Options {
	return pathproc.Options{
		SmoothingEnabled:        p.SmoothingEnabled,
		SmoothingWindow:         p.SmoothingWindow,
		SimplificationEnabled:   p.SimplificationEnabled,
		SimplificationTolerance: p.SimplificationTolerance,
		CloseThreshold:          p.CloseThreshold,
	}
}

// PolygonParams configures the polygon tool.
type PolygonParams struct {
	FillInterior bool
	DrawOutline  bool

	// MinimumVertices is the completion threshold, at least 3.
	MinimumVertices int
}

// Validate checks the polygon invariants.
func (p PolygonParams) Validate() error {
	if p.MinimumVertices < 3 {
		return fmt.Errorf("minimum vertices %d must be >= 3", p.MinimumVertices)
	}
	return nil
}

// ScissorsParams configures the smart scissors tool: the cost-map weighting
// plus the commit behavior.
type ScissorsParams struct {
	scissors.Params

	FillInterior   bool
	CloseThreshold float64
}

// Validate checks the scissors invariants as a unit.
func (p ScissorsParams) Validate() error {
	if err := p.Params.Validate(); err != nil {
		return err
	}
	if p.CloseThreshold < 0 {
		return fmt.Errorf("close threshold %f must be >= 0", p.CloseThreshold)
	}
	return nil
}

// Defaults for every parameter set; these match pkg/config's DefaultConfig.

// DefaultBrushParams returns a 3-cell circular brush.
func DefaultBrushParams() BrushParams {
	return BrushParams{Size: 3, Shape: raster.Circle}
}

// DefaultFillParams returns a 4-connected fill.
func DefaultFillParams() FillParams {
	return FillParams{Connectivity: 4}
}

// DefaultFreehandParams returns smoothing and simplification enabled with
// conservative thresholds.
func DefaultFreehandParams() FreehandParams {
	return FreehandParams{
		SmoothingEnabled:        true,
		SmoothingWindow:         5,
		SimplificationEnabled:   true,
		SimplificationTolerance: 1.0,
		FillInterior:            false,
		CloseThreshold:          5.0,
		StrokeWidth:             1,
	}
}

// DefaultPolygonParams returns an outlined, unfilled polygon tool.
func DefaultPolygonParams() PolygonParams {
	return PolygonParams{FillInterior: false, DrawOutline: true, MinimumVertices: 3}
}

// DefaultScissorsParams returns the standard live-wire weighting with
// interior fill disabled.
func DefaultScissorsParams() ScissorsParams {
	return ScissorsParams{
		Params:         scissors.DefaultParams(),
		FillInterior:   false,
		CloseThreshold: 5.0,
	}
}
