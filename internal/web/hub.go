package web

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/fgaudin/luxgrid/internal/debug"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub distributes computation results to connected WebSocket clients.
// A client that errors on write is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends v as JSON to every connected client.
func (h *Hub) Broadcast(v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(v); err != nil {
			debug.Verbose("dropping websocket client: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// HandleStream upgrades the request to a WebSocket connection and
// registers it with the hub. The read loop only serves to detect
// disconnects; clients are not expected to send anything.
func (h *Hub) HandleStream(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "websocket upgrade required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Error(err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	debug.Live("websocket client connected (%d total)", h.ClientCount())

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure,
					websocket.CloseAbnormalClosure) {
					debug.Verbose("websocket read: %v", err)
				}
				h.mu.Lock()
				if h.clients[conn] {
					delete(h.clients, conn)
					conn.Close()
				}
				h.mu.Unlock()
				return
			}
		}
	}()
}
