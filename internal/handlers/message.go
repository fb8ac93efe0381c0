package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolink/comms/internal/chat"
	"github.com/schoolink/comms/internal/domain"
	"github.com/schoolink/comms/internal/handlers/dto"
	"github.com/schoolink/comms/internal/middleware"
)

// MessageHandler is the HTTP face of the message log. The websocket path in
// chat_socket.go goes through the same chat.Service, so both enforce the
// same gate.
type MessageHandler struct {
	chat   *chat.Service
	logger *zap.Logger
}

func NewMessageHandler(svc *chat.Service, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{chat: svc, logger: logger}
}

// List returns the appointment's history, oldest first. The after query
// parameter resumes the page after a message id the caller already holds.
func (h *MessageHandler) List(c *gin.Context) {
	actor := middleware.Identity(c)

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid appointment id"})
		return
	}

	limit := 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var after *uuid.UUID
	if a := c.Query("after"); a != "" {
		id, err := uuid.Parse(a)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid after id"})
			return
		}
		after = &id
	}

	messages, err := h.chat.List(c.Request.Context(), actor, appointmentID, limit, after)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Send appends via HTTP. The durable response is the sender's copy; everyone
// else in the channel gets the relay event.
func (h *MessageHandler) Send(c *gin.Context) {
	actor := middleware.Identity(c)

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid appointment id"})
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// No origin connection to exclude on the HTTP path: the sender's own
	// sockets, if any, receive the event too.
	msg, err := h.chat.Append(c.Request.Context(), actor, appointmentID, req.Content, uuid.Nil)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": chat.NewMessageDTO(msg)})
}

func (h *MessageHandler) fail(c *gin.Context, err error) {
	status := domain.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("message handler error", zap.Error(err))
		c.JSON(status, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}
