package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hangerine/coin-trader/internal/domain"
	"github.com/hangerine/coin-trader/internal/event"
	"github.com/hangerine/coin-trader/internal/service"
)

// View is the read-only snapshot handed to the presentation layer after
// every mutating event: the visible series slice, the window bounds, the
// derived metrics, and the latest tick.
type View struct {
	Symbol  string                `json:"symbol"`
	Window  ViewWindow            `json:"window"`
	Points  []domain.Tick         `json:"points"`
	Latest  domain.Tick           `json:"latest"`
	Metrics domain.DerivedMetrics `json:"metrics"`
}

// assetView is the per-asset mutable state: the view window plus the drag
// anchor. Only the controller goroutine touches it.
type assetView struct {
	window   ViewWindow
	dragging bool
	anchorX  float64
}

// Controller is the single-threaded owner of all window state. Events
// (periodic snapshots and user pointer/wheel input) are consumed from one
// channel strictly in arrival order, so a rebase that lands mid-drag is
// applied before the next pan computes its shift. Run it in exactly one
// goroutine.
type Controller struct {
	inbox chan event.Event
	store *service.MarketStore
	views map[string]*assetView

	// onUpdate publishes a fresh View after a mutating event; onTick fires
	// once per accepted tick (persistence hook); onRemove reports an asset
	// leaving the dashboard.
	onUpdate func(View)
	onTick   func(symbol string, tick domain.Tick)
	onRemove func(symbol string)

	mu sync.RWMutex // guards views for external reads
}

// NewController creates a controller over the given store.
func NewController(inboxSize int, store *service.MarketStore, onUpdate func(View)) *Controller {
	return &Controller{
		inbox:    make(chan event.Event, inboxSize),
		store:    store,
		views:    make(map[string]*assetView),
		onUpdate: onUpdate,
	}
}

// OnUpdate registers the view-publish hook. Call before Run. Exists because
// the hub that consumes views also needs the inbox, so wiring is two-step.
func (c *Controller) OnUpdate(fn func(View)) { c.onUpdate = fn }

// OnTick registers the per-tick hook. Call before Run.
func (c *Controller) OnTick(fn func(symbol string, tick domain.Tick)) { c.onTick = fn }

// OnRemove registers the asset-removal hook. Call before Run.
func (c *Controller) OnRemove(fn func(symbol string)) { c.onRemove = fn }

// Inbox returns the event channel. The poller and the presentation layer
// send events here.
func (c *Controller) Inbox() chan<- event.Event {
	return c.inbox
}

// Run starts the main event loop. This MUST be run in a single goroutine.
func (c *Controller) Run(ctx context.Context) {
	slog.Info("Window controller started")

	for {
		select {
		case <-ctx.Done():
			slog.Info("Window controller stopping...")
			return
		case ev := <-c.inbox:
			c.processEvent(ev)
		}
	}
}

// processEvent dispatches one event. Nothing here is fatal: bad input is
// skipped, out-of-range geometry is clamped.
func (c *Controller) processEvent(ev event.Event) {
	c.mu.Lock()

	switch e := ev.(type) {
	case *event.SnapshotEvent:
		c.handleSnapshot(e)
	case *event.DragStartEvent:
		if av, ok := c.views[e.Symbol]; ok {
			av.dragging = true
			av.anchorX = e.PixelX
		}
		c.mu.Unlock()
		return
	case *event.DragMoveEvent:
		c.handleDragMove(e)
	case *event.DragEndEvent:
		if av, ok := c.views[e.Symbol]; ok {
			av.dragging = false
		}
		c.mu.Unlock()
		return
	case *event.WheelEvent:
		c.handleWheel(e)
	case *event.RemoveAssetEvent:
		c.handleRemove(e)
	default:
		c.mu.Unlock()
		slog.Warn("Unknown event type", slog.Any("type", ev.GetType()))
	}
}

func (c *Controller) handleSnapshot(e *event.SnapshotEvent) {
	appended := c.store.Ingest(e.Snapshot)
	event.ReleaseSnapshotEvent(e)

	updated := make([]View, 0, len(appended))
	for _, a := range appended {
		av, ok := c.views[a.Symbol]
		if !ok {
			av = &assetView{window: InitWindow(a.Length)}
			c.views[a.Symbol] = av
		} else {
			av.window = Rebase(av.window, a.Length)
		}
		updated = append(updated, c.buildView(a.Symbol, av))
	}
	c.mu.Unlock()

	for _, a := range appended {
		if c.onTick != nil {
			c.onTick(a.Symbol, a.Tick)
		}
	}
	c.publish(updated...)
}

// handleDragMove pans the window by the pixel delta since the previous
// pointer position. The anchor follows the pointer on every move, so the
// next delta is always computed against the window state that exists after
// any rebase processed in between, never against a snapshot taken at
// drag-start.
func (c *Controller) handleDragMove(e *event.DragMoveEvent) {
	av, ok := c.views[e.Symbol]
	if !ok || !av.dragging {
		event.ReleaseDragMoveEvent(e)
		c.mu.Unlock()
		return
	}
	delta := e.PixelX - av.anchorX
	av.anchorX = e.PixelX
	av.window = Pan(av.window, c.store.Len(e.Symbol), delta, e.ViewportWidth)
	view := c.buildView(e.Symbol, av)
	event.ReleaseDragMoveEvent(e)
	c.mu.Unlock()

	c.publish(view)
}

func (c *Controller) handleWheel(e *event.WheelEvent) {
	av, ok := c.views[e.Symbol]
	if !ok {
		c.mu.Unlock()
		return
	}
	av.window = Zoom(av.window, c.store.Len(e.Symbol), e.DeltaY)
	view := c.buildView(e.Symbol, av)
	c.mu.Unlock()

	c.publish(view)
}

func (c *Controller) handleRemove(e *event.RemoveAssetEvent) {
	delete(c.views, e.Symbol)
	c.store.Remove(e.Symbol)
	c.mu.Unlock()

	if c.onRemove != nil {
		c.onRemove(e.Symbol)
	}
}

// buildView assembles the presentation snapshot for one asset. Caller holds
// the lock.
func (c *Controller) buildView(symbol string, av *assetView) View {
	points := c.store.Slice(symbol, av.window.Start, av.window.End)
	latest, _ := c.store.Last(symbol)
	return View{
		Symbol:  symbol,
		Window:  av.window,
		Points:  points,
		Latest:  latest,
		Metrics: domain.ComputeMetrics(points, latest),
	}
}

func (c *Controller) publish(views ...View) {
	if c.onUpdate == nil {
		return
	}
	for _, v := range views {
		c.onUpdate(v)
	}
}

// Window returns the current window for a symbol (external read).
func (c *Controller) Window(symbol string) (ViewWindow, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	av, ok := c.views[symbol]
	if !ok {
		return ViewWindow{}, false
	}
	return av.window, true
}

// Views returns the current View for every displayed asset, sorted by
// symbol (external read).
func (c *Controller) Views() []View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]View, 0, len(c.views))
	for _, symbol := range c.store.Symbols() {
		av, ok := c.views[symbol]
		if !ok {
			continue
		}
		result = append(result, c.buildView(symbol, av))
	}
	return result
}
