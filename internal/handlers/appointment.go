package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolink/comms/internal/appointments"
	"github.com/schoolink/comms/internal/domain"
	"github.com/schoolink/comms/internal/handlers/dto"
	"github.com/schoolink/comms/internal/middleware"
	"github.com/schoolink/comms/internal/models"
	"github.com/schoolink/comms/internal/relay"
)

type AppointmentHandler struct {
	appointments *appointments.Service
	hub          *relay.Hub
	logger       *zap.Logger
}

func NewAppointmentHandler(svc *appointments.Service, hub *relay.Hub, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{appointments: svc, hub: hub, logger: logger}
}

// Create handles a student's appointment request; the new row starts PENDING.
func (h *AppointmentHandler) Create(c *gin.Context) {
	actor := middleware.Identity(c)

	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	teacherID, err := uuid.Parse(req.TeacherID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid teacher id"})
		return
	}

	appt, err := h.appointments.Request(c.Request.Context(), actor, teacherID, req.Note)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"appointment": dto.NewAppointmentResponse(appt)})
}

// List returns the caller's visibility-scoped appointments.
func (h *AppointmentHandler) List(c *gin.Context) {
	actor := middleware.Identity(c)

	appts, err := h.appointments.List(c.Request.Context(), actor)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]dto.AppointmentResponse, len(appts))
	for i := range appts {
		out[i] = dto.NewAppointmentResponse(&appts[i])
	}
	c.JSON(http.StatusOK, gin.H{"appointments": out})
}

// Get returns one appointment to a participant, along with which
// participants are connected to its channel right now.
func (h *AppointmentHandler) Get(c *gin.Context) {
	actor := middleware.Identity(c)

	id, ok := h.pathID(c)
	if !ok {
		return
	}

	appt, err := h.appointments.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment":  dto.NewAppointmentResponse(appt),
		"online_users": h.hub.ChannelUsers(appt.ID),
	})
}

func (h *AppointmentHandler) Approve(c *gin.Context) {
	h.transition(c, h.appointments.Approve, "Appointment approved")
}

func (h *AppointmentHandler) Reject(c *gin.Context) {
	h.transition(c, h.appointments.Reject, "Appointment rejected")
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.appointments.Complete, "Appointment completed")
}

type transitionFn func(ctx context.Context, actor domain.Identity, id uuid.UUID) (*models.Appointment, error)

func (h *AppointmentHandler) transition(c *gin.Context, op transitionFn, okMsg string) {
	actor := middleware.Identity(c)

	id, ok := h.pathID(c)
	if !ok {
		return
	}

	appt, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": okMsg, "appointment": dto.NewAppointmentResponse(appt)})
}

func (h *AppointmentHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid appointment id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *AppointmentHandler) fail(c *gin.Context, err error) {
	status := domain.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("appointment handler error", zap.Error(err))
		c.JSON(status, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}
