// Package history provides diff-based undo/redo for label raster edits.
// Each committed operation is captured as one Diff: a bounding region plus
// before/after value buffers, applied back onto the raster for undo/redo.
package history

import (
	"errors"

	"volseg/pkg/raster"
)

// AllSlices marks a diff that spans the whole volume (bulk clears).
const AllSlices = -1

// ErrNothingToUndo is returned by Undo on an empty undo stack.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNothingToRedo is returned by Redo on an empty redo stack.
var ErrNothingToRedo = errors.New("nothing to redo")

// Diff records one committed raster operation: the bounding region of every
// touched cell and the region's full contents before and after the edit.
type Diff struct {
	// Slice is the affected slice index, or AllSlices for bulk edits.
	Slice int

	// X, Y, Z anchor the bounding region; Width/Height/Depth size it.
	X, Y, Z              int
	Width, Height, Depth int

	// Before and After hold the region contents in row-major order.
	Before []uint8
	After  []uint8
}

// apply writes one of the diff's buffers back onto the raster.
func (d *Diff) apply(r *raster.LabelRaster, buf []uint8) {
	i := 0
	for z := d.Z; z < d.Z+d.Depth; z++ {
		for y := d.Y; y < d.Y+d.Height; y++ {
			for x := d.X; x < d.X+d.Width; x++ {
				r.Set(x, y, z, buf[i])
				i++
			}
		}
	}
}

// AvailabilityFunc receives the new (canUndo, canRedo) pair after every
// commit, undo and redo.
type AvailabilityFunc func(canUndo, canRedo bool)

// History is a bounded linear undo/redo stack of diffs. Committing while
// redo entries exist discards them (no branching).
type History struct {
	undo   []*Diff
	redo   []*Diff
	limit  int
	notify AvailabilityFunc
}

// DefaultLimit is the undo depth used when none is configured.
const DefaultLimit = 64

// New creates a history bounded to limit entries; non-positive limits fall
// back to DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// SetAvailabilityCallback installs the notification hook. A nil callback
// disables notifications.
func (h *History) SetAvailabilityCallback(fn AvailabilityFunc) {
	h.notify = fn
}

// SetLimit adjusts the undo depth, dropping the oldest entries if the new
// limit is smaller. Non-positive limits fall back to DefaultLimit.
func (h *History) SetLimit(limit int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	h.limit = limit
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
}

// Commit pushes a diff onto the undo stack and clears the redo stack.
// The oldest entry is dropped once the depth limit is reached.
func (h *History) Commit(d *Diff) {
	h.undo = append(h.undo, d)
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
	h.fireAvailability()
}

// Undo re-applies the most recent diff's before state to the raster and
// moves the diff to the redo stack. Returns the affected slice index.
func (h *History) Undo(r *raster.LabelRaster) (int, error) {
	if len(h.undo) == 0 {
		return 0, ErrNothingToUndo
	}
	d := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	d.apply(r, d.Before)
	h.redo = append(h.redo, d)
	h.fireAvailability()
	return d.Slice, nil
}

// Redo is the mirror of Undo: it re-applies the after state.
func (h *History) Redo(r *raster.LabelRaster) (int, error) {
	if len(h.redo) == 0 {
		return 0, ErrNothingToRedo
	}
	d := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	d.apply(r, d.After)
	h.undo = append(h.undo, d)
	h.fireAvailability()
	return d.Slice, nil
}

// CanUndo reports whether an undo entry is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo entry is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear discards both stacks without touching the raster.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
	h.fireAvailability()
}

func (h *History) fireAvailability() {
	if h.notify != nil {
		h.notify(h.CanUndo(), h.CanRedo())
	}
}

// FullDiff snapshots the entire raster against a pre-edit clone, for bulk
// operations that bypass per-stroke recording.
func FullDiff(before, after *raster.LabelRaster) *Diff {
	d := &Diff{
		Slice:  AllSlices,
		Width:  after.Width(),
		Height: after.Height(),
		Depth:  after.Depth(),
		Before: append([]uint8(nil), before.Data()...),
		After:  append([]uint8(nil), after.Data()...),
	}
	return d
}
