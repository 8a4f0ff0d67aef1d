package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"quickbite/internal/notify"
)

type WSHandler struct {
	hub *notify.Hub
	log *logrus.Logger

	upgrader websocket.Upgrader
}

func NewWSHandler(hub *notify.Hub, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// AdminSocket upgrades the connection and subscribes it to order events
// until the client disconnects.
func (h *WSHandler) AdminSocket(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	h.hub.Register(conn)
	defer func() {
		h.hub.Unregister(conn)
		_ = conn.Close()
	}()

	// Drain the read side to detect disconnects; clients only listen.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
