package engine

import "testing"

func TestInitWindow(t *testing.T) {
	// Short series shows everything
	w := InitWindow(10)
	if w.Start != 0 || w.End != 9 {
		t.Errorf("Expected [0,9], got [%d,%d]", w.Start, w.End)
	}

	// Long series anchors DefaultWidth points to the live edge
	w = InitWindow(200)
	if w.Start != 150 || w.End != 199 {
		t.Errorf("Expected [150,199], got [%d,%d]", w.Start, w.End)
	}
	if !w.AtLiveEdge(200) {
		t.Error("Initial window should be at the live edge")
	}

	// Empty series
	w = InitWindow(0)
	if w.Start != 0 || w.End != 0 {
		t.Errorf("Expected zero window for empty series, got [%d,%d]", w.Start, w.End)
	}
}

func TestRebase_AutoscrollAtLiveEdge(t *testing.T) {
	// Window pinned to the edge follows an appended tick
	w := ViewWindow{Start: 50, End: 99}
	got := Rebase(w, 101)
	if got.Start != 51 || got.End != 100 {
		t.Errorf("Expected [51,100], got [%d,%d]", got.Start, got.End)
	}
	if got.Size() != w.Size() {
		t.Errorf("Autoscroll changed size: %d -> %d", w.Size(), got.Size())
	}
}

func TestRebase_DetachedWindowStaysPut(t *testing.T) {
	// Window panned into history must not move when data arrives
	w := ViewWindow{Start: 0, End: 49}
	got := Rebase(w, 102) // previous length was 101, End != 100
	if got != w {
		t.Errorf("Detached window moved: [%d,%d]", got.Start, got.End)
	}
}

func TestRebase_GrowsYoungSeries(t *testing.T) {
	// A series born with one tick widens as data arrives instead of
	// staying one point wide forever
	w := InitWindow(1)
	for length := 2; length <= 10; length++ {
		w = Rebase(w, length)
		if w.Start != 0 || w.End != length-1 {
			t.Fatalf("length %d: expected [0,%d], got [%d,%d]", length, length-1, w.Start, w.End)
		}
	}

	// Once past DefaultWidth the window slides instead of growing
	w = ViewWindow{Start: 0, End: 49}
	got := Rebase(w, 51)
	if got.Start != 1 || got.End != 50 {
		t.Errorf("Expected [1,50], got [%d,%d]", got.Start, got.End)
	}
	if got.Size() != DefaultWidth {
		t.Errorf("Expected width %d, got %d", DefaultWidth, got.Size())
	}
}

func TestPan_SmallDragIsNoOp(t *testing.T) {
	// One visible point: any sub-viewport drag rounds to zero indices
	w := ViewWindow{Start: 3, End: 3}
	got := Pan(w, 10, 120, 800)
	if got != w {
		t.Errorf("Expected no-op, got [%d,%d]", got.Start, got.End)
	}
}

func TestPan_ShiftAndDirection(t *testing.T) {
	w := ViewWindow{Start: 100, End: 149}
	length := 200

	// Dragging left (negative delta) moves the window toward newer data
	got := Pan(w, length, -80, 800)
	if got.Start != 105 || got.End != 154 {
		t.Errorf("Expected [105,154], got [%d,%d]", got.Start, got.End)
	}

	// Dragging right moves toward history
	got = Pan(w, length, 80, 800)
	if got.Start != 95 || got.End != 144 {
		t.Errorf("Expected [95,144], got [%d,%d]", got.Start, got.End)
	}
}

func TestPan_ClampPreservesSize(t *testing.T) {
	length := 100

	// Hard drag right pins at the oldest data
	w := ViewWindow{Start: 2, End: 51}
	got := Pan(w, length, 5000, 800)
	if got.Start != 0 || got.End != 49 {
		t.Errorf("Expected [0,49], got [%d,%d]", got.Start, got.End)
	}

	// Hard drag left pins at the live edge
	w = ViewWindow{Start: 40, End: 89}
	got = Pan(w, length, -5000, 800)
	if got.Start != 50 || got.End != 99 {
		t.Errorf("Expected [50,99], got [%d,%d]", got.Start, got.End)
	}
}

func TestZoom_InAndOut(t *testing.T) {
	length := 200
	w := ViewWindow{Start: 100, End: 149}

	// Scroll up zooms in: 50 * 0.9 = 45, recentered
	got := Zoom(w, length, -1)
	if got.Size() != 45 {
		t.Errorf("Expected size 45, got %d", got.Size())
	}
	if got.Start != 103 || got.End != 147 {
		t.Errorf("Expected [103,147], got [%d,%d]", got.Start, got.End)
	}

	// Scroll down zooms out: 50 * 1.1 = 55
	got = Zoom(w, length, 1)
	if got.Size() != 55 {
		t.Errorf("Expected size 55, got %d", got.Size())
	}
}

func TestZoom_ClampsToMinWindow(t *testing.T) {
	length := 100
	w := ViewWindow{Start: 48, End: 52}
	got := Zoom(w, length, -1)
	if got.Size() != MinWindow {
		t.Errorf("Expected min size %d, got %d", MinWindow, got.Size())
	}
	if got != w {
		t.Errorf("Zoom at min size should be a no-op, got [%d,%d]", got.Start, got.End)
	}
}

func TestZoom_ClampsToSeriesLength(t *testing.T) {
	// Zooming out past the series shows everything
	length := 60
	w := ViewWindow{Start: 2, End: 59}
	got := Zoom(w, length, 1)
	if got.Start != 0 || got.End != 59 {
		t.Errorf("Expected [0,59], got [%d,%d]", got.Start, got.End)
	}

	// The length bound wins over MinWindow on a tiny series
	w = ViewWindow{Start: 0, End: 2}
	got = Zoom(w, 3, -1)
	if got.Start != 0 || got.End != 2 {
		t.Errorf("Expected [0,2], got [%d,%d]", got.Start, got.End)
	}
}

func TestZoom_StaysInBoundsNearEdge(t *testing.T) {
	// Zooming out at the live edge must not run past the newest index
	length := 100
	w := ViewWindow{Start: 50, End: 99}
	got := Zoom(w, length, 1)
	if got.End > 99 || got.Start < 0 {
		t.Errorf("Window out of bounds: [%d,%d]", got.Start, got.End)
	}
	if got.Size() != 55 {
		t.Errorf("Expected size 55, got %d", got.Size())
	}
}
