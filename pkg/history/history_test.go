package history

import (
	"bytes"
	"errors"
	"testing"

	"volseg/pkg/raster"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	r, _ := raster.New(8, 8, 2)
	original := append([]uint8(nil), r.Data()...)

	rec := NewRecorder(r)
	rec.Set(1, 1, 0, 5)
	rec.Set(2, 1, 0, 5)
	rec.Set(3, 2, 0, 5)

	h := New(10)
	h.Commit(rec.Diff(0))
	edited := append([]uint8(nil), r.Data()...)

	slice, err := h.Undo(r)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if slice != 0 {
		t.Errorf("Expected undo to report slice 0, got %d", slice)
	}
	if !bytes.Equal(r.Data(), original) {
		t.Error("Expected undo to restore the original raster byte for byte")
	}

	slice, err = h.Redo(r)
	if err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if slice != 0 {
		t.Errorf("Expected redo to report slice 0, got %d", slice)
	}
	if !bytes.Equal(r.Data(), edited) {
		t.Error("Expected redo to restore the edited raster byte for byte")
	}
}

func TestUndoRedoOnEmptyStacks(t *testing.T) {
	r, _ := raster.New(4, 4, 1)
	h := New(10)

	if _, err := h.Undo(r); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Expected ErrNothingToUndo, got %v", err)
	}
	if _, err := h.Redo(r); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Expected ErrNothingToRedo, got %v", err)
	}
}

func TestCommitClearsRedo(t *testing.T) {
	r, _ := raster.New(4, 4, 1)
	h := New(10)

	commitCell := func(x int, v uint8) {
		rec := NewRecorder(r)
		rec.Set(x, 0, 0, v)
		h.Commit(rec.Diff(0))
	}

	commitCell(0, 1)
	if _, err := h.Undo(r); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !h.CanRedo() {
		t.Fatal("Expected redo available after undo")
	}

	commitCell(1, 2)
	if h.CanRedo() {
		t.Error("Expected commit to discard the redo stack")
	}
}

func TestHistoryDepthBound(t *testing.T) {
	r, _ := raster.New(4, 4, 1)
	h := New(2)

	for i := 0; i < 3; i++ {
		rec := NewRecorder(r)
		rec.Set(i, 0, 0, uint8(i+1))
		h.Commit(rec.Diff(0))
	}

	// Only the two most recent diffs survive.
	for i := 0; i < 2; i++ {
		if _, err := h.Undo(r); err != nil {
			t.Fatalf("Undo %d failed: %v", i, err)
		}
	}
	if _, err := h.Undo(r); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Expected depth bound of 2, got %v", err)
	}
	// The oldest commit is no longer undoable, so its cell stays set.
	if got := r.Get(0, 0, 0); got != 1 {
		t.Errorf("Expected oldest edit retained at depth bound, got %d", got)
	}
}

func TestSetLimitDropsOldest(t *testing.T) {
	r, _ := raster.New(4, 4, 1)
	h := New(10)
	for i := 0; i < 4; i++ {
		rec := NewRecorder(r)
		rec.Set(i, 0, 0, 9)
		h.Commit(rec.Diff(0))
	}

	h.SetLimit(2)
	undos := 0
	for h.CanUndo() {
		if _, err := h.Undo(r); err != nil {
			t.Fatalf("Undo failed: %v", err)
		}
		undos++
	}
	if undos != 2 {
		t.Errorf("Expected 2 undoable entries after SetLimit(2), got %d", undos)
	}
}

func TestAvailabilityNotifications(t *testing.T) {
	r, _ := raster.New(4, 4, 1)
	h := New(10)

	type state struct{ undo, redo bool }
	var calls []state
	h.SetAvailabilityCallback(func(canUndo, canRedo bool) {
		calls = append(calls, state{canUndo, canRedo})
	})

	rec := NewRecorder(r)
	rec.Set(0, 0, 0, 1)
	h.Commit(rec.Diff(0))
	h.Undo(r)
	h.Redo(r)

	want := []state{{true, false}, {false, true}, {true, false}}
	if len(calls) != len(want) {
		t.Fatalf("Expected %d notifications, got %d", len(want), len(calls))
	}
	for i, w := range want {
		if calls[i] != w {
			t.Errorf("Notification %d: expected %+v, got %+v", i, w, calls[i])
		}
	}
}

func TestFullDiffRoundTrip(t *testing.T) {
	r, _ := raster.New(6, 6, 2)
	r.Set(1, 1, 0, 3)
	r.Set(4, 4, 1, 7)
	before := r.Clone()

	r.FillValue(0)
	d := FullDiff(before, r)
	if d.Slice != AllSlices {
		t.Errorf("Expected full diff slice %d, got %d", AllSlices, d.Slice)
	}

	h := New(10)
	h.Commit(d)
	if _, err := h.Undo(r); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !bytes.Equal(r.Data(), before.Data()) {
		t.Error("Expected undo of a full diff to restore the snapshot")
	}
}

func TestRecorderCapturesFirstTouchOriginals(t *testing.T) {
	r, _ := raster.New(8, 8, 1)
	r.Set(2, 2, 0, 7)

	rec := NewRecorder(r)
	rec.Set(2, 2, 0, 1)
	rec.Set(2, 2, 0, 9)
	rec.Set(4, 3, 0, 9)

	d := rec.Diff(0)
	if d == nil {
		t.Fatal("Expected a diff after writes, got nil")
	}
	if d.X != 2 || d.Y != 2 || d.Width != 3 || d.Height != 2 {
		t.Errorf("Expected bounding region (2,2) 3x2, got (%d,%d) %dx%d",
			d.X, d.Y, d.Width, d.Height)
	}
	// Before holds the pre-operation value despite the double write.
	if d.Before[0] != 7 {
		t.Errorf("Expected original value 7 in Before, got %d", d.Before[0])
	}
	if d.After[0] != 9 {
		t.Errorf("Expected final value 9 in After, got %d", d.After[0])
	}
}

func TestRecorderRevert(t *testing.T) {
	r, _ := raster.New(8, 8, 1)
	r.Set(1, 1, 0, 4)
	original := append([]uint8(nil), r.Data()...)

	rec := NewRecorder(r)
	rec.Set(1, 1, 0, 9)
	rec.Set(5, 5, 0, 9)
	if !rec.Touched() {
		t.Fatal("Expected recorder touched after writes")
	}

	rec.Revert()
	if !bytes.Equal(r.Data(), original) {
		t.Error("Expected revert to restore the raster byte for byte")
	}
	if rec.Touched() {
		t.Error("Expected recorder reset after revert")
	}
	if d := rec.Diff(0); d != nil {
		t.Errorf("Expected nil diff after revert, got %+v", d)
	}
}

func TestRecorderUntouchedDiffIsNil(t *testing.T) {
	r, _ := raster.New(4, 4, 1)
	rec := NewRecorder(r)
	// Out-of-bounds writes record nothing.
	rec.Set(-1, 0, 0, 5)
	if d := rec.Diff(0); d != nil {
		t.Errorf("Expected nil diff for untouched recorder, got %+v", d)
	}
}
