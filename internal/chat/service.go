package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolink/comms/internal/domain"
	"github.com/schoolink/comms/internal/models"
	"github.com/schoolink/comms/internal/relay"
)

const maxContentLen = 4000

// Store is the slice of the database the message log needs.
type Store interface {
	GetAppointmentPrimary(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	SaveMessage(ctx context.Context, msg *models.Message) error
	GetAppointmentMessages(ctx context.Context, appointmentID uuid.UUID, limit int, after *uuid.UUID) ([]models.Message, error)
	UpdateLastSeen(ctx context.Context, id uuid.UUID) error
}

// Broadcaster fans a frame out to an appointment's channel. Delivery is
// best-effort, at most once per connection, no acknowledgment.
type Broadcaster interface {
	Publish(channelID uuid.UUID, frame []byte, exclude uuid.UUID)
}

type Service struct {
	store  Store
	relay  Broadcaster
	logger *zap.Logger
}

func NewService(store Store, broadcaster Broadcaster, logger *zap.Logger) *Service {
	return &Service{store: store, relay: broadcaster, logger: logger}
}

// MessageDTO is the wire shape shared by the durable fetch and the relay
// event, so clients can deduplicate across the two sources by id.
type MessageDTO struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	SenderID      uuid.UUID `json:"sender_id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewMessageDTO(m *models.Message) MessageDTO {
	return MessageDTO{
		ID:            m.ID,
		AppointmentID: m.AppointmentID,
		SenderID:      m.SenderID,
		Content:       m.Content,
		CreatedAt:     m.CreatedAt,
	}
}

// Append durably stores a message and then broadcasts it to the
// appointment's channel, excluding the origin connection (the sender already
// gets the message in its own response). The participant-and-APPROVED gate
// is evaluated against the primary: the approval may have been committed
// moments ago in this very request, and a replica could still say PENDING.
func (s *Service) Append(ctx context.Context, actor domain.Identity, appointmentID uuid.UUID, content string, origin uuid.UUID) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", domain.ErrValidation)
	}
	if len(content) > maxContentLen {
		return nil, fmt.Errorf("%w: message too long", domain.ErrValidation)
	}

	appt, err := s.store.GetAppointmentPrimary(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appt.IsParticipant(actor.UserID) {
		return nil, fmt.Errorf("%w: you are not a participant of this appointment", domain.ErrForbidden)
	}
	if appt.Status != models.StatusApproved {
		return nil, fmt.Errorf("%w: appointment is not approved", domain.ErrForbidden)
	}

	msg := &models.Message{
		AppointmentID: appointmentID,
		SenderID:      actor.UserID,
		Content:       content,
	}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	// Activity bookkeeping must never fail a send that is already durable.
	if err := s.store.UpdateLastSeen(ctx, actor.UserID); err != nil {
		s.logger.Warn("update last seen failed",
			zap.String("user_id", actor.UserID.String()), zap.Error(err))
	}

	s.broadcast(appointmentID, msg, origin)

	return msg, nil
}

// broadcast is fire and forget: a disconnected participant misses the event
// and catches up via List on reconnect.
func (s *Service) broadcast(appointmentID uuid.UUID, msg *models.Message, origin uuid.UUID) {
	ev := relay.Event{
		Name:      relay.EventReceiveMessage,
		Room:      &appointmentID,
		SenderID:  msg.SenderID,
		Timestamp: time.Now(),
	}

	dto := NewMessageDTO(msg)
	data, err := json.Marshal(dto)
	if err != nil {
		s.logger.Error("encode message event failed", zap.Error(err))
		return
	}
	ev.Data = data

	frame, err := ev.Encode()
	if err != nil {
		s.logger.Error("encode relay frame failed", zap.Error(err))
		return
	}

	s.relay.Publish(appointmentID, frame, origin)
}

// List returns a page of the appointment's ordered log to a participant:
// creation time ascending, ties broken by id. The after cursor resumes from
// the last message the caller already has, so a reconnecting client pages
// forward until it reaches the tail. Replica read.
func (s *Service) List(ctx context.Context, actor domain.Identity, appointmentID uuid.UUID, limit int, after *uuid.UUID) ([]MessageDTO, error) {
	appt, err := s.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appt.IsParticipant(actor.UserID) {
		return nil, fmt.Errorf("%w: you are not a participant of this appointment", domain.ErrForbidden)
	}

	if limit <= 0 || limit > 200 {
		limit = 100
	}

	messages, err := s.store.GetAppointmentMessages(ctx, appointmentID, limit, after)
	if err != nil {
		return nil, err
	}

	out := make([]MessageDTO, len(messages))
	for i := range messages {
		out[i] = NewMessageDTO(&messages[i])
	}
	return out, nil
}
