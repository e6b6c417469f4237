// Package engine implements the interactive segmentation engine: the tool
// state machine that routes pointer events to the active tool, the per-tool
// transient state, parameter management and the undo/redo surface.
//
// The engine is single-threaded and synchronous: every operation runs to
// completion on the calling goroutine in response to a pointer event, and
// the label raster is exclusively owned by the engine. Collaborators read
// the raster only after a modification notification.
package engine

import (
	"errors"
	"fmt"

	"volseg/internal/models"
	"volseg/pkg/history"
	"volseg/pkg/raster"
	"volseg/pkg/scissors"
)

// Error taxonomy. All failures are synchronous; no operation is retried and
// the raster is never left inconsistent relative to the last committed diff.
var (
	// ErrInvalidParameters marks an out-of-range parameter set; the prior
	// valid configuration is retained.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrInvalidInput marks a nil or absent required input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientVertices is returned by polygon completion below the
	// configured minimum; the collected vertices are preserved.
	ErrInsufficientVertices = errors.New("insufficient vertices")

	// ErrInsufficientAnchors is returned by scissors completion with fewer
	// than two anchors; the collected anchors are preserved.
	ErrInsufficientAnchors = errors.New("insufficient anchors")

	// ErrNoCostSource is returned when a scissors anchor is placed before
	// a source grid or cost map was supplied for the working slice.
	ErrNoCostSource = errors.New("no cost source for slice")
)

// ModificationFunc receives the affected slice index after every raster
// mutation; AllSlices (-1) means the whole volume changed.
type ModificationFunc func(slice int)

// AllSlices mirrors history.AllSlices for modification callbacks.
const AllSlices = history.AllSlices

// Engine owns the label raster, the command history and all tool state.
type Engine struct {
	raster  *raster.LabelRaster
	history *history.History

	activeTool  Tool
	activeLabel uint8
	drawing     bool

	brush    BrushParams
	fill     FillParams
	freehand FreehandParams
	polygon  PolygonParams
	sciss    ScissorsParams

	// Stroke state (brush/eraser).
	recorder    *history.Recorder
	strokeSlice int
	strokeValue uint8
	lastPoint   models.Point

	// Freehand capture state.
	freehandPath  []models.Point
	freehandSlice int

	// Polygon capture state.
	polyVertices []models.Point
	polySlice    int

	// Smart scissors state.
	scissorsState scissorsState

	onModified ModificationFunc
}

// scissorsState bundles the live-wire transient data: anchors, the confirmed
// path, per-anchor search results and the current preview.
type scissorsState struct {
	slice     int
	anchors   []models.Point
	confirmed []models.Point
	// segStart[i] is the confirmed-path length before anchor i's segment
	// was appended, so UndoLastAnchor can truncate exactly.
	segStart []int
	results  []*scissors.Result
	preview  []models.Point

	// Cost source, supplied per slice by the caller.
	sourceGrid  *models.SliceGrid
	sourceSlice int
	costMap     *scissors.CostMap
	costSlice   int
	hasSource   bool
	hasCostMap  bool
}

// New creates an engine over a fresh label raster of the given dimensions,
// with default tool parameters and history depth.
func New(width, height, depth int) (*Engine, error) {
	r, err := raster.New(width, height, depth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	e := &Engine{
		raster:      r,
		history:     history.New(history.DefaultLimit),
		activeTool:  ToolNone,
		activeLabel: 1,
		brush:       DefaultBrushParams(),
		fill:        DefaultFillParams(),
		freehand:    DefaultFreehandParams(),
		polygon:     DefaultPolygonParams(),
		sciss:       DefaultScissorsParams(),
	}
	return e, nil
}

// ResizeRaster re-initializes the raster, discarding labels, history and
// any in-progress operation.
func (e *Engine) ResizeRaster(width, height, depth int) error {
	e.cancelInProgress(false)
	if err := e.raster.Resize(width, height, depth); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	e.history.Clear()
	e.fireModified(AllSlices)
	return nil
}

// SetModificationCallback installs the raster mutation notification hook.
func (e *Engine) SetModificationCallback(fn ModificationFunc) {
	e.onModified = fn
}

// SetUndoRedoCallback installs the (canUndo, canRedo) availability hook,
// fired after every commit, undo and redo.
func (e *Engine) SetUndoRedoCallback(fn history.AvailabilityFunc) {
	e.history.SetAvailabilityCallback(fn)
}

func (e *Engine) fireModified(slice int) {
	if e.onModified != nil {
		e.onModified(slice)
	}
}

// SetActiveTool switches tools, atomically cancelling any in-progress
// operation of the previous tool without mutating the raster.
func (e *Engine) SetActiveTool(t Tool) error {
	if t < ToolNone || t > ToolSmartScissors {
		return fmt.Errorf("%w: unknown tool %d", ErrInvalidParameters, int(t))
	}
	if t != e.activeTool {
		e.CancelOperation()
	}
	e.activeTool = t
	return nil
}

// ActiveTool returns the currently active tool.
func (e *Engine) ActiveTool() Tool { return e.activeTool }

// IsDrawing reports whether a tool operation is between its start and end
// events. Fill draws for zero duration.
func (e *Engine) IsDrawing() bool { return e.drawing }

// SetActiveLabel selects the label value drawn by the tools. Value 0 is
// reserved for background and rejected.
func (e *Engine) SetActiveLabel(label uint8) error {
	if label == 0 {
		return fmt.Errorf("%w: label 0 is reserved for background", ErrInvalidParameters)
	}
	e.activeLabel = label
	return nil
}

// ActiveLabel returns the current drawing label.
func (e *Engine) ActiveLabel() uint8 { return e.activeLabel }

// Parameter setters. Each is all-or-nothing: an invalid set is rejected and
// the prior valid configuration stays in effect.

// SetBrushParams replaces the brush/eraser configuration.
func (e *Engine) SetBrushParams(p BrushParams) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	e.brush = p
	return nil
}

// BrushParams returns the active brush configuration.
func (e *Engine) BrushParams() BrushParams { return e.brush }

// SetFillParams replaces the flood fill configuration.
func (e *Engine) SetFillParams(p FillParams) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	e.fill = p
	return nil
}

// FillParams returns the active fill configuration.
func (e *Engine) FillParams() FillParams { return e.fill }

// SetFreehandParams replaces the freehand configuration.
func (e *Engine) SetFreehandParams(p FreehandParams) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	e.freehand = p
	return nil
}

// FreehandParams returns the active freehand configuration.
func (e *Engine) FreehandParams() FreehandParams { return e.freehand }

// SetPolygonParams replaces the polygon configuration.
func (e *Engine) SetPolygonParams(p PolygonParams) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	e.polygon = p
	return nil
}

// PolygonParams returns the active polygon configuration.
func (e *Engine) PolygonParams() PolygonParams { return e.polygon }

// SetScissorsParams replaces the smart scissors configuration. A changed
// weighting invalidates any cost map derived from the source grid.
func (e *Engine) SetScissorsParams(p ScissorsParams) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	changed := p.Params != e.sciss.Params
	e.sciss = p
	if changed && e.scissorsState.hasSource {
		// Derived cost maps are stale; external ones keep their data.
		if e.scissorsState.hasCostMap && e.scissorsState.sourceGrid != nil {
			e.scissorsState.costMap = nil
			e.scissorsState.hasCostMap = false
		}
	}
	return nil
}

// ScissorsParams returns the active smart scissors configuration.
func (e *Engine) ScissorsParams() ScissorsParams { return e.sciss }

// SetScissorsSource supplies the grayscale sample grid for one slice; the
// edge cost map is derived from it on the next anchor press.
func (e *Engine) SetScissorsSource(grid *models.SliceGrid, slice int) error {
	if grid == nil || len(grid.Data) == 0 {
		return fmt.Errorf("%w: nil or empty source grid", ErrInvalidInput)
	}
	s := &e.scissorsState
	s.sourceGrid = grid
	s.sourceSlice = slice
	s.hasSource = true
	s.costMap = nil
	s.hasCostMap = false
	return nil
}

// SetScissorsCostMap supplies a precomputed per-pixel cost map for one
// slice, bypassing the internal gradient computation.
func (e *Engine) SetScissorsCostMap(cm *scissors.CostMap, slice int) error {
	if cm == nil {
		return fmt.Errorf("%w: nil cost map", ErrInvalidInput)
	}
	s := &e.scissorsState
	s.sourceGrid = nil
	s.sourceSlice = slice
	s.hasSource = true
	s.costMap = cm
	s.costSlice = slice
	s.hasCostMap = true
	return nil
}

// Accessors for in-progress tool state. All return copies.

// LabelRaster exposes the engine's raster for rendering collaborators.
// Readers must treat it as a consistent snapshot between modification
// notifications; only the engine writes it.
func (e *Engine) LabelRaster() *raster.LabelRaster { return e.raster }

// PolygonVertices returns the in-progress polygon vertices.
func (e *Engine) PolygonVertices() []models.Point {
	return append([]models.Point(nil), e.polyVertices...)
}

// FreehandPath returns the in-progress freehand capture.
func (e *Engine) FreehandPath() []models.Point {
	return append([]models.Point(nil), e.freehandPath...)
}

// ScissorsAnchors returns the placed live-wire anchors.
func (e *Engine) ScissorsAnchors() []models.Point {
	return append([]models.Point(nil), e.scissorsState.anchors...)
}

// ScissorsPreviewPath returns the live path from the last anchor to the
// most recent pointer position.
func (e *Engine) ScissorsPreviewPath() []models.Point {
	return append([]models.Point(nil), e.scissorsState.preview...)
}

// ScissorsConfirmedPath returns the committed-so-far live-wire path.
func (e *Engine) ScissorsConfirmedPath() []models.Point {
	return append([]models.Point(nil), e.scissorsState.confirmed...)
}

// Undo/redo surface.

// CanUndo reports undo availability.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports redo availability.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// Undo restores the raster to its state before the last committed
// operation, byte for byte.
func (e *Engine) Undo() error {
	slice, err := e.history.Undo(e.raster)
	if err != nil {
		return err
	}
	e.fireModified(slice)
	return nil
}

// Redo re-applies the most recently undone operation.
func (e *Engine) Redo() error {
	slice, err := e.history.Redo(e.raster)
	if err != nil {
		return err
	}
	e.fireModified(slice)
	return nil
}

// ClearAll resets every cell to background as one undoable operation.
func (e *Engine) ClearAll() {
	e.cancelInProgress(false)
	before := e.raster.Clone()
	e.raster.FillValue(0)
	e.history.Commit(history.FullDiff(before, e.raster))
	e.fireModified(AllSlices)
}

// ClearLabel resets every cell holding the given label to background as one
// undoable operation. Clearing background itself is rejected.
func (e *Engine) ClearLabel(label uint8) error {
	if label == 0 {
		return fmt.Errorf("%w: label 0 is reserved for background", ErrInvalidParameters)
	}
	before := e.raster.Clone()
	if e.raster.ReplaceValue(label, 0) == 0 {
		return nil
	}
	e.history.Commit(history.FullDiff(before, e.raster))
	e.fireModified(AllSlices)
	return nil
}
