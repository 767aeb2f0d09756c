package event

import (
	"sync"

	"github.com/hangerine/coin-trader/internal/domain"
)

// Pools for the two high-frequency event kinds. Drag moves arrive at pointer
// sampling rate and snapshots every poll cycle; pooling keeps the event loop
// allocation-free.
//
// Usage:
//
//	ev := AcquireDragMoveEvent()
//	ev.Symbol = "BTC"
//	// ... send and process ...
//	ReleaseDragMoveEvent(ev)
var dragMovePool = sync.Pool{
	New: func() interface{} {
		return &DragMoveEvent{}
	},
}

// AcquireDragMoveEvent gets a DragMoveEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireDragMoveEvent() *DragMoveEvent {
	return dragMovePool.Get().(*DragMoveEvent)
}

// ReleaseDragMoveEvent returns a DragMoveEvent to the pool.
func ReleaseDragMoveEvent(ev *DragMoveEvent) {
	if ev == nil {
		return
	}
	ev.Symbol = ""
	ev.PixelX = 0
	ev.ViewportWidth = 0

	dragMovePool.Put(ev)
}

// SnapshotEvent pool
var snapshotPool = sync.Pool{
	New: func() interface{} {
		return &SnapshotEvent{}
	},
}

// AcquireSnapshotEvent gets a SnapshotEvent from the pool.
func AcquireSnapshotEvent() *SnapshotEvent {
	return snapshotPool.Get().(*SnapshotEvent)
}

// ReleaseSnapshotEvent returns a SnapshotEvent to the pool.
func ReleaseSnapshotEvent(ev *SnapshotEvent) {
	if ev == nil {
		return
	}
	ev.Snapshot = domain.MarketSnapshot{}

	snapshotPool.Put(ev)
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
func Warmup() {
	const batchSize = 256

	moves := make([]*DragMoveEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		moves = append(moves, AcquireDragMoveEvent())
	}
	for _, ev := range moves {
		ReleaseDragMoveEvent(ev)
	}

	snaps := make([]*SnapshotEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		snaps = append(snaps, AcquireSnapshotEvent())
	}
	for _, ev := range snaps {
		ReleaseSnapshotEvent(ev)
	}
}
