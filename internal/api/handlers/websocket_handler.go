package handlers

import (
	"log"
	"net/http"

	"fireworks-wms-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	Hub *socket.Hub
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is served to the warehouse clients through CORS; the upgrade
	// check mirrors that.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWs upgrades the connection and keeps it registered in the hub until
// the client disconnects. Clients only listen; inbound messages are
// discarded.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket connection: %v", err)
		return
	}

	clientID := uuid.New().String()
	h.Hub.Register(clientID, conn)

	go func() {
		defer func() {
			h.Hub.Unregister(clientID)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
