package engine

import (
	"fmt"

	"volseg/internal/models"
	"volseg/pkg/history"
	"volseg/pkg/pathproc"
	"volseg/pkg/raster"
	"volseg/pkg/scissors"
)

// PointerDown routes a press event to the active tool. Events outside the
// raster bounds are accepted but mutate nothing.
func (e *Engine) PointerDown(p models.Point, slice int) error {
	switch e.activeTool {
	case ToolBrush:
		e.beginStroke(p, slice, e.activeLabel)
	case ToolEraser:
		e.beginStroke(p, slice, 0)
	case ToolFill:
		return e.runFill(p, slice)
	case ToolFreehand:
		e.freehandPath = append(e.freehandPath[:0], p)
		e.freehandSlice = slice
		e.drawing = true
	case ToolPolygon:
		e.addPolygonVertex(p, slice)
	case ToolSmartScissors:
		return e.addScissorsAnchor(p, slice)
	}
	return nil
}

// PointerMove routes a move event to the active tool.
func (e *Engine) PointerMove(p models.Point, slice int) error {
	switch e.activeTool {
	case ToolBrush, ToolEraser:
		e.continueStroke(p, slice)
	case ToolFreehand:
		e.captureFreehandPoint(p, slice)
	case ToolSmartScissors:
		e.updateScissorsPreview(p, slice)
	}
	return nil
}

// PointerUp routes a release event to the active tool.
func (e *Engine) PointerUp(p models.Point, slice int) error {
	switch e.activeTool {
	case ToolBrush, ToolEraser:
		e.endStroke()
	case ToolFreehand:
		e.captureFreehandPoint(p, slice)
		return e.commitFreehand()
	}
	return nil
}

// CancelOperation discards any in-progress, uncommitted tool state. A
// half-finished brush stroke is reverted so the raster matches the last
// committed diff; captured vertices, paths and anchors are dropped.
func (e *Engine) CancelOperation() {
	e.cancelInProgress(true)
}

func (e *Engine) cancelInProgress(notify bool) {
	if e.recorder != nil {
		reverted := e.recorder.Touched()
		e.recorder.Revert()
		e.recorder = nil
		if reverted && notify {
			e.fireModified(e.strokeSlice)
		}
	}
	e.freehandPath = nil
	e.polyVertices = nil
	s := &e.scissorsState
	s.anchors = nil
	s.confirmed = nil
	s.segStart = nil
	s.results = nil
	s.preview = nil
	e.drawing = false
}

// Brush / eraser stroke handling. The raster mutates immediately for live
// preview; one diff covering the whole press-to-release stroke is committed
// on release.

func (e *Engine) beginStroke(p models.Point, slice int, value uint8) {
	e.recorder = history.NewRecorder(e.raster)
	e.strokeSlice = slice
	e.strokeValue = value
	e.lastPoint = p
	e.drawing = true
	raster.Stamp(e.recorder, p, slice, e.brush.Size, e.brush.Shape, value)
	if e.recorder.Touched() {
		e.fireModified(slice)
	}
}

func (e *Engine) continueStroke(p models.Point, slice int) {
	if !e.drawing || e.recorder == nil || slice != e.strokeSlice {
		return
	}
	before := e.recorder.Writes()
	raster.StrokeLine(e.recorder, e.lastPoint, p, slice, e.brush.Size, e.brush.Shape, e.strokeValue)
	e.lastPoint = p
	if e.recorder.Writes() > before {
		e.fireModified(slice)
	}
}

func (e *Engine) endStroke() {
	if e.recorder == nil {
		e.drawing = false
		return
	}
	if d := e.recorder.Diff(e.strokeSlice); d != nil {
		e.history.Commit(d)
	}
	e.recorder = nil
	e.drawing = false
}

// runFill executes the flood fill tool: an immediate, non-interactive
// commit with zero drawing duration.
func (e *Engine) runFill(p models.Point, slice int) error {
	rec := history.NewRecorder(e.raster)
	filled, err := raster.FloodFill(rec, p, slice, e.activeLabel, e.fill.Connectivity)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	if filled == 0 {
		return nil
	}
	e.history.Commit(rec.Diff(slice))
	e.fireModified(slice)
	return nil
}

// Freehand capture and commit.

func (e *Engine) captureFreehandPoint(p models.Point, slice int) {
	if !e.drawing || e.activeTool != ToolFreehand {
		return
	}
	if slice != e.freehandSlice {
		return
	}
	if n := len(e.freehandPath); n > 0 && e.freehandPath[n-1] == p {
		return
	}
	e.freehandPath = append(e.freehandPath, p)
}

// commitFreehand post-processes the captured path (smoothing, then
// Douglas-Peucker, then auto-close detection), rasterizes it as a polyline
// and optionally scan-fills a closed interior, all as one diff.
func (e *Engine) commitFreehand() error {
	if !e.drawing {
		return nil
	}
	e.drawing = false
	pts := e.freehandPath
	e.freehandPath = nil
	if len(pts) == 0 {
		return nil
	}

	processed, closed := pathproc.Process(pts, e.freehand.options())

	rec := history.NewRecorder(e.raster)
	if closed {
		raster.StrokePolygon(rec, processed, e.freehandSlice, e.freehand.StrokeWidth, raster.Circle, e.activeLabel)
		if e.freehand.FillInterior {
			raster.FillPolygon(rec, processed, e.freehandSlice, e.activeLabel)
		}
	} else {
		raster.StrokePolyline(rec, processed, e.freehandSlice, e.freehand.StrokeWidth, raster.Circle, e.activeLabel)
	}

	if d := rec.Diff(e.freehandSlice); d != nil {
		e.history.Commit(d)
		e.fireModified(e.freehandSlice)
	}
	return nil
}

// Polygon tool.

func (e *Engine) addPolygonVertex(p models.Point, slice int) {
	if len(e.polyVertices) > 0 && slice != e.polySlice {
		// Vertices on other slices are rejected.
		return
	}
	if len(e.polyVertices) == 0 {
		e.polySlice = slice
	}
	e.polyVertices = append(e.polyVertices, p)
	e.drawing = true
}

// UndoLastVertex removes the most recently added polygon vertex. It fails
// on an empty vertex list, leaving state unchanged.
func (e *Engine) UndoLastVertex() error {
	if len(e.polyVertices) == 0 {
		return fmt.Errorf("%w: no vertices to remove", ErrInsufficientVertices)
	}
	e.polyVertices = e.polyVertices[:len(e.polyVertices)-1]
	if len(e.polyVertices) == 0 {
		e.drawing = false
	}
	return nil
}

// CanCompletePolygon reports whether enough vertices were placed.
func (e *Engine) CanCompletePolygon() bool {
	return len(e.polyVertices) >= e.polygon.MinimumVertices
}

// CompletePolygon closes the polygon, optionally draws the outline and
// fills the interior, and commits one diff. Below the vertex minimum it
// fails without mutation and the vertices are retained.
func (e *Engine) CompletePolygon() error {
	if len(e.polyVertices) < e.polygon.MinimumVertices {
		return fmt.Errorf("%w: have %d, need %d",
			ErrInsufficientVertices, len(e.polyVertices), e.polygon.MinimumVertices)
	}
	rec := history.NewRecorder(e.raster)
	if e.polygon.DrawOutline {
		raster.StrokePolygon(rec, e.polyVertices, e.polySlice, 1, raster.Circle, e.activeLabel)
	}
	if e.polygon.FillInterior {
		raster.FillPolygon(rec, e.polyVertices, e.polySlice, e.activeLabel)
	}
	if d := rec.Diff(e.polySlice); d != nil {
		e.history.Commit(d)
		e.fireModified(e.polySlice)
	}
	e.polyVertices = nil
	e.drawing = false
	return nil
}

// Smart scissors tool.

// ensureCostMap resolves the cost map for the working slice, deriving it
// from the source grid on first use.
func (e *Engine) ensureCostMap(slice int) (*scissors.CostMap, error) {
	s := &e.scissorsState
	if !s.hasSource || s.sourceSlice != slice {
		return nil, fmt.Errorf("%w: slice %d", ErrNoCostSource, slice)
	}
	if s.hasCostMap && s.costSlice == slice {
		return s.costMap, nil
	}
	cm, err := scissors.NewCostMap(s.sourceGrid, e.sciss.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	s.costMap = cm
	s.costSlice = slice
	s.hasCostMap = true
	return cm, nil
}

// addScissorsAnchor places an anchor: the previewed segment to the new
// anchor becomes part of the confirmed path, and a fresh Dijkstra search
// from the anchor makes subsequent preview lookups cheap.
func (e *Engine) addScissorsAnchor(p models.Point, slice int) error {
	s := &e.scissorsState
	if len(s.anchors) > 0 && slice != s.slice {
		// Anchors on other slices are rejected.
		return nil
	}
	cm, err := e.ensureCostMap(slice)
	if err != nil {
		return err
	}
	if !cm.InBounds(p) {
		return nil
	}

	finder := scissors.NewFinder(cm)
	if len(s.anchors) == 0 {
		res, err := finder.Search(p)
		if err != nil {
			return err
		}
		s.slice = slice
		s.anchors = append(s.anchors, p)
		s.confirmed = append(s.confirmed, p)
		s.segStart = append(s.segStart, 1)
		s.results = append(s.results, res)
		s.preview = nil
		e.drawing = true
		return nil
	}

	last := s.results[len(s.results)-1]
	seg := last.PathTo(p)
	if len(seg) == 0 {
		return nil
	}
	res, err := finder.Search(p)
	if err != nil {
		return err
	}
	s.segStart = append(s.segStart, len(s.confirmed))
	s.confirmed = append(s.confirmed, seg[1:]...)
	s.anchors = append(s.anchors, p)
	s.results = append(s.results, res)
	s.preview = nil
	return nil
}

// updateScissorsPreview recomputes only the live segment from the last
// anchor to the pointer, reusing the retained search result.
func (e *Engine) updateScissorsPreview(p models.Point, slice int) {
	s := &e.scissorsState
	if len(s.anchors) == 0 || slice != s.slice {
		return
	}
	last := s.results[len(s.results)-1]
	s.preview = last.PathTo(p)
}

// UndoLastAnchor removes the last anchor and its confirmed segment,
// restoring the previous preview target. It fails on an empty anchor list.
func (e *Engine) UndoLastAnchor() error {
	s := &e.scissorsState
	if len(s.anchors) == 0 {
		return fmt.Errorf("%w: no anchors to remove", ErrInsufficientAnchors)
	}
	n := len(s.anchors)
	s.confirmed = s.confirmed[:s.segStart[n-1]]
	if n == 1 {
		s.anchors = nil
		s.confirmed = nil
		s.segStart = nil
		s.results = nil
		s.preview = nil
		e.drawing = false
		return nil
	}
	s.anchors = s.anchors[:n-1]
	s.segStart = s.segStart[:n-1]
	s.results = s.results[:n-1]
	s.preview = nil
	return nil
}

// CanCompleteScissors reports whether at least two anchors were placed.
func (e *Engine) CanCompleteScissors() bool {
	return len(e.scissorsState.anchors) >= 2
}

// CompleteScissors rasterizes the confirmed path, closing it with one more
// shortest-path segment when the path end is within the close threshold of
// the first anchor, optionally scan-fills the closed interior, and commits
// one diff. All transient scissors state is cleared.
func (e *Engine) CompleteScissors() error {
	s := &e.scissorsState
	if len(s.anchors) < 2 {
		return fmt.Errorf("%w: have %d, need 2", ErrInsufficientAnchors, len(s.anchors))
	}

	full := append([]models.Point(nil), s.confirmed...)
	closed := false
	endPt := full[len(full)-1]
	if endPt.Dist(s.anchors[0]) <= e.sciss.CloseThreshold {
		last := s.results[len(s.results)-1]
		if seg := last.PathTo(s.anchors[0]); len(seg) > 1 {
			full = append(full, seg[1:]...)
		}
		closed = true
	}

	rec := history.NewRecorder(e.raster)
	raster.StrokePolyline(rec, full, s.slice, 1, raster.Circle, e.activeLabel)
	if closed && e.sciss.FillInterior {
		verts := full
		if len(verts) > 1 && verts[0] == verts[len(verts)-1] {
			verts = verts[:len(verts)-1]
		}
		raster.FillPolygon(rec, verts, s.slice, e.activeLabel)
	}

	slice := s.slice
	if d := rec.Diff(slice); d != nil {
		e.history.Commit(d)
		e.fireModified(slice)
	}

	s.anchors = nil
	s.confirmed = nil
	s.segStart = nil
	s.results = nil
	s.preview = nil
	e.drawing = false
	return nil
}
