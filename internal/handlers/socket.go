package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/schoolink/comms/internal/middleware"
	"github.com/schoolink/comms/internal/relay"
)

type SocketHandler struct {
	hub      *relay.Hub
	events   *ChatSocket
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewSocketHandler(hub *relay.Hub, events *ChatSocket, logger *zap.Logger) *SocketHandler {
	return &SocketHandler{
		hub:    hub,
		events: events,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict to the frontend origin in prod
				return true
			},
		},
	}
}

// Upgrade turns the authenticated HTTP request into a relay client owned by
// this session. The client dies with the connection.
func (h *SocketHandler) Upgrade(c *gin.Context) {
	identity := middleware.Identity(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := relay.NewClient(h.hub, conn, identity)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.events)
}
