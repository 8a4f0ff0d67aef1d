// README: Websocket fan-out hub for the admin dashboard.
package notify

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	EventNewOrder    = "new_order"
	EventOrderStatus = "order_status"
)

type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub tracks connected dashboard clients and broadcasts events to all
// of them. Emit is fire-and-forget: no listeners, dead listeners and
// write errors never surface to the triggering operation; a failing
// connection is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		log:     log,
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	_ = conn.Close()
}

// ClientCount reports the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Emit broadcasts asynchronously and returns immediately.
func (h *Hub) Emit(event string, data any) {
	go h.broadcast(Message{Event: event, Data: data})
}

func (h *Hub) broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Warn("hub: marshal event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.WithError(err).Debug("hub: dropping dead client")
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}
