package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hangerine/coin-trader/internal/engine"
	"github.com/hangerine/coin-trader/internal/event"
	"github.com/hangerine/coin-trader/internal/infra"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from the same origin in production; during
	// development the frontend runs on a vite port.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans controller view updates out to every connected dashboard client
// and funnels their pointer/wheel input back into the controller inbox.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	inbox      chan<- event.Event
}

// NewHub creates a hub feeding the given controller inbox.
func NewHub(inbox chan<- event.Event) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		inbox:      inbox,
	}
}

// Run owns the client set. Run it in one goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			infra.GlobalMetrics.IncrementClients()
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				infra.GlobalMetrics.DecrementClients()
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow client: drop it rather than stall the fan-out
					delete(h.clients, c)
					close(c.send)
					infra.GlobalMetrics.DecrementClients()
				}
			}
		}
	}
}

// BroadcastView pushes one fresh view to every client.
func (h *Hub) BroadcastView(view engine.View) {
	payload, err := json.Marshal(wsEnvelope{Type: "view", View: &view})
	if err != nil {
		slog.Error("Failed to marshal view", slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// Broadcast queue full; the next update supersedes this one anyway
	}
}

// BroadcastRemoval tells clients an asset left the dashboard.
func (h *Hub) BroadcastRemoval(symbol string) {
	payload, err := json.Marshal(wsEnvelope{Type: "removed", Symbol: symbol})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

// wsEnvelope is the outbound message shape.
type wsEnvelope struct {
	Type   string       `json:"type"`
	Symbol string       `json:"symbol,omitempty"`
	View   *engine.View `json:"view,omitempty"`
}

// pointerMessage is the inbound message shape: pointer/wheel input from the
// chart surface. No other event shapes are consumed.
type pointerMessage struct {
	Type     string  `json:"type"` // drag_start | drag_move | drag_end | wheel | remove
	Symbol   string  `json:"symbol"`
	X        float64 `json:"x"`
	Viewport float64 `json:"viewport"`
	DeltaY   float64 `json:"delta_y"`
}

// client is one connected dashboard.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// ServeWS upgrades an HTTP request to a dashboard socket.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", slog.Any("error", err))
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, 64)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump decodes pointer messages and forwards them to the controller.
// Decoding defects drop the message, never the connection.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("WebSocket read error", slog.Any("error", err))
			}
			return
		}

		var msg pointerMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.Symbol == "" {
			continue
		}
		c.forward(msg)
	}
}

// forward translates one pointer message into a controller event.
func (c *client) forward(msg pointerMessage) {
	var ev event.Event
	switch msg.Type {
	case "drag_start":
		ev = &event.DragStartEvent{Symbol: msg.Symbol, PixelX: msg.X}
	case "drag_move":
		move := event.AcquireDragMoveEvent()
		move.Symbol = msg.Symbol
		move.PixelX = msg.X
		move.ViewportWidth = msg.Viewport
		ev = move
	case "drag_end":
		ev = &event.DragEndEvent{Symbol: msg.Symbol}
	case "wheel":
		ev = &event.WheelEvent{Symbol: msg.Symbol, DeltaY: msg.DeltaY}
	case "remove":
		ev = &event.RemoveAssetEvent{Symbol: msg.Symbol}
	default:
		return
	}
	c.hub.inbox <- ev
}

// writePump pushes broadcasts to the peer and keeps the connection alive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
