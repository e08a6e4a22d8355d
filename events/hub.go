package events

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rizoma-bar/rizoma-app/utils"
)

// Broadcaster is what the HTTP layer sees: it gets a handle at construction
// and never touches the websocket machinery directly.
type Broadcaster interface {
	ReservationCreated(name, timeSlot, date, sector string)
	ReservationDeleted(id uint)
}

// Hub fans reservation events out to every connected admin dashboard.
// Delivery is best-effort: a client that is disconnected simply misses events.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string // conn -> client id
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]string),
	}
}

// Register adds a connection and returns the id assigned to it.
func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = id
	return id
}

// Unregister drops a connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// ClientCount returns the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ReservationCreated(name, timeSlot, date, sector string) {
	h.broadcast(map[string]interface{}{
		"event":  "created",
		"name":   name,
		"time":   timeSlot,
		"date":   date,
		"sector": sector,
	})
}

func (h *Hub) ReservationDeleted(id uint) {
	h.broadcast(map[string]interface{}{
		"event": "deleted",
		"id":    id,
	})
}

func (h *Hub) broadcast(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		utils.ErrorLogger.Printf("error marshaling broadcast payload: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, id := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// at-most-once: el cliente caído pierde el evento
			utils.InfoLogger.Printf("dropping websocket client %s: %v", id, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
