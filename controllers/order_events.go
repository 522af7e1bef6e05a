package controllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsClientsMu sync.Mutex
	wsClients   = make(map[*websocket.Conn]bool)
)

// OrderEvent is one message on the admin live feed
type OrderEvent struct {
	Event string        `json:"event"` // "order_created" or "order_updated"
	Order *models.Order `json:"order"`
}

// OrderEventsHandler handles GET /api/admin/orders/live - a websocket feed of
// order creations and status changes for the admin panel
func OrderEventsHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wsClientsMu.Lock()
	wsClients[conn] = true
	wsClientsMu.Unlock()

	// Hold the connection open until the client goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsClientsMu.Lock()
			delete(wsClients, conn)
			wsClientsMu.Unlock()
			break
		}
	}
}

// BroadcastOrderEvent pushes an order event to all connected admin clients.
// Slow or dead clients are dropped rather than blocking the caller.
func BroadcastOrderEvent(event string, order *models.Order) {
	data, err := json.Marshal(OrderEvent{Event: event, Order: order})
	if err != nil {
		return
	}

	wsClientsMu.Lock()
	defer wsClientsMu.Unlock()

	for conn := range wsClients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(wsClients, conn)
		}
	}
}
