package event

import (
	"github.com/hangerine/coin-trader/internal/domain"
)

// Type identifies the kind of event flowing through the controller inbox.
type Type string

const (
	TypeSnapshot    Type = "SNAPSHOT"
	TypeDragStart   Type = "DRAG_START"
	TypeDragMove    Type = "DRAG_MOVE"
	TypeDragEnd     Type = "DRAG_END"
	TypeWheel       Type = "WHEEL"
	TypeRemoveAsset Type = "REMOVE_ASSET"
)

// Event is what the controller consumes, strictly in arrival order. Two
// producers compete for the same inbox: the market poller (snapshots) and
// the presentation layer (pointer/wheel input).
type Event interface {
	GetType() Type
}

// SnapshotEvent carries one polling cycle's raw market data.
type SnapshotEvent struct {
	Snapshot domain.MarketSnapshot
}

func (e *SnapshotEvent) GetType() Type { return TypeSnapshot }

// DragStartEvent begins a pointer drag over one asset's chart. It always
// resets the drag anchor, regardless of any drag state left behind by a
// previous pointer.
type DragStartEvent struct {
	Symbol string
	PixelX float64
}

func (e *DragStartEvent) GetType() Type { return TypeDragStart }

// DragMoveEvent is one pointer movement during a drag.
type DragMoveEvent struct {
	Symbol        string
	PixelX        float64
	ViewportWidth float64
}

func (e *DragMoveEvent) GetType() Type { return TypeDragMove }

// DragEndEvent ends a drag (pointer released or left the surface). There is
// no pending work to flush.
type DragEndEvent struct {
	Symbol string
}

func (e *DragEndEvent) GetType() Type { return TypeDragEnd }

// WheelEvent is one wheel scroll over an asset's chart. Only the sign of
// DeltaY matters: negative zooms in, positive zooms out.
type WheelEvent struct {
	Symbol string
	DeltaY float64
}

func (e *WheelEvent) GetType() Type { return TypeWheel }

// RemoveAssetEvent drops an asset from the dashboard. Its window state is
// discarded; there is no transition back.
type RemoveAssetEvent struct {
	Symbol string
}

func (e *RemoveAssetEvent) GetType() Type { return TypeRemoveAsset }
