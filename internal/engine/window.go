package engine

import "math"

const (
	// DefaultWidth is the initial number of visible points, anchored to the
	// most recent data.
	DefaultWidth = 50

	// MinWindow is the minimum visible point count once the series is at
	// least that long. Zooming in clamps here.
	MinWindow = 5
)

// ViewWindow is an inclusive index range [Start, End] into one asset's
// series. The pair is the whole window state; every transition is a pure
// function of (Start, End, series length) plus the event parameters.
// Transitions never fail: out-of-range results are clamped into validity.
type ViewWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Size returns the number of visible points.
func (w ViewWindow) Size() int { return w.End - w.Start + 1 }

// AtLiveEdge reports whether the window currently shows the newest tick.
func (w ViewWindow) AtLiveEdge(length int) bool { return w.End == length-1 }

// InitWindow creates the window for a series that just became non-empty (or
// an asset newly displayed): DefaultWidth points, or the whole series if
// shorter, anchored to the live edge.
func InitWindow(length int) ViewWindow {
	if length <= 0 {
		return ViewWindow{}
	}
	end := length - 1
	width := length
	if width > DefaultWidth {
		width = DefaultWidth
	}
	return ViewWindow{Start: end - width + 1, End: end}
}

// Rebase adjusts the window after one tick was appended; length is the new
// series length. Autoscroll happens only while already at the edge: if End
// was the previous last index the window advances to keep showing live data,
// otherwise its absolute position is preserved and the data simply moves one
// tick further from the edge.
//
// While pinned at the edge from index 0 and narrower than DefaultWidth, the
// window widens toward DefaultWidth instead of sliding. Without this a
// series born with one tick would stay one point wide forever and never
// satisfy the MinWindow bound.
func Rebase(w ViewWindow, length int) ViewWindow {
	if length <= 1 {
		return InitWindow(length)
	}
	if w.End != length-2 {
		return w
	}
	end := length - 1
	width := w.Size()
	if w.Start == 0 {
		target := DefaultWidth
		if length < target {
			target = length
		}
		if width < target {
			width = target
		}
	}
	start := end - width + 1
	if start < 0 {
		start = 0
	}
	return ViewWindow{Start: start, End: end}
}

// Pan shifts the window by a pixel drag delta converted to whole indices:
// moveCount = round(-delta * size / viewport). A moveCount of zero is a
// valid no-op. The window size is always preserved; pan never zooms.
func Pan(w ViewWindow, length int, deltaPixels, viewportWidth float64) ViewWindow {
	if length <= 0 || viewportWidth <= 0 {
		return w
	}
	size := w.Size()
	moveCount := int(math.Round(-deltaPixels * float64(size) / viewportWidth))
	if moveCount == 0 {
		return w
	}
	return clampShift(w.Start+moveCount, w.End+moveCount, size, length)
}

// Zoom grows or shrinks the window by 10% around its midpoint. Scrolling up
// (negative deltaY) zooms in. The new size clamps to [MinWindow, length],
// the length bound winning when the series is shorter than MinWindow.
// A size that rounds back to the current one is a valid no-op.
func Zoom(w ViewWindow, length int, deltaY float64) ViewWindow {
	if length <= 0 {
		return w
	}
	size := w.Size()
	factor := 1.1
	if deltaY < 0 {
		factor = 0.9
	}
	newSize := int(math.Round(float64(size) * factor))
	if newSize < MinWindow {
		newSize = MinWindow
	}
	if newSize > length {
		newSize = length
	}
	if newSize == size {
		return w
	}
	center := float64(w.Start+w.End) / 2.0
	start := int(math.Round(center - float64(newSize-1)/2.0))
	return clampShift(start, start+newSize-1, newSize, length)
}

// clampShift forces an index range back into [0, length) without changing
// its size.
func clampShift(start, end, size, length int) ViewWindow {
	if start < 0 {
		start = 0
		end = size - 1
	}
	if end >= length {
		end = length - 1
		start = end - size + 1
		if start < 0 {
			start = 0
		}
	}
	return ViewWindow{Start: start, End: end}
}
