package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is one warehouse notification pushed to connected clients, e.g.
// stock.changed, sync.finished, picklist.completed.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub manages the connected scanner and dashboard clients.
type Hub struct {
	// clients maps a connection id to its websocket connection.
	clients map[string]*websocket.Conn
	// mu guards clients against concurrent handler goroutines.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register adds a new client to the hub.
func (h *Hub) Register(clientID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[clientID] = conn
	log.Printf("WebSocket client registered: %s", clientID)
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[clientID]; ok {
		delete(h.clients, clientID)
		log.Printf("WebSocket client unregistered: %s", clientID)
	}
}

// Broadcast sends an event to every connected client. A failing client is
// not an error for the others; its write error is only logged.
func (h *Hub) Broadcast(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal websocket event %q: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for clientID, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Failed to send websocket event to %s: %v", clientID, err)
		}
	}
}
