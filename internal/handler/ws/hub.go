// Package ws streams detection events to dashboard clients over
// WebSocket. The hub is an EventSink: the monitor pushes, connected
// browsers receive.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"FxPulse/internal/domain/models"
	applogger "FxPulse/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	clientBuffer   = 64
	maxMessageSize = 512
)

// event is the wire envelope for every pushed message.
type event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans detection events out to all connected clients. A client that
// cannot keep up is disconnected rather than allowed to stall the rest.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	upgrader websocket.Upgrader
	log      *applogger.Logger
}

// NewHub creates an empty hub.
func NewHub(log *applogger.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Handle upgrades one dashboard connection and pumps events until the
// client goes away.
func (h *Hub) Handle(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("ws client connected", applogger.Int("clients", n))

	go h.writePump(cl)
	go h.readPump(cl)
	return nil
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnSignal implements repository.EventSink.
func (h *Hub) OnSignal(sig models.Signal) {
	h.broadcast("signal", sig)
}

// OnPrice implements repository.EventSink.
func (h *Hub) OnPrice(u models.PriceUpdate) {
	h.broadcast("price", u)
}

// OnIndicators implements repository.EventSink.
func (h *Hub) OnIndicators(s models.SymbolSnapshot) {
	h.broadcast("indicators", s)
}

func (h *Hub) broadcast(kind string, data any) {
	payload, err := json.Marshal(event{Type: kind, Data: data})
	if err != nil {
		h.log.Error("ws marshal failed", applogger.Error(err))
		return
	}

	h.mu.RLock()
	stale := make([]*client, 0)
	for cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			stale = append(stale, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range stale {
		h.drop(cl)
	}
}

func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl)
	h.mu.Unlock()
	close(cl.send)
	_ = cl.conn.Close()
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-cl.send:
			if !ok {
				return
			}
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.drop(cl)
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(cl)
				return
			}
		}
	}
}

// readPump discards inbound frames; its job is to notice disconnects.
func (h *Hub) readPump(cl *client) {
	cl.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			h.drop(cl)
			return
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()
	for _, cl := range clients {
		h.drop(cl)
	}
}
