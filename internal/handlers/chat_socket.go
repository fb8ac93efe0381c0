package handlers

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/schoolink/comms/internal/appointments"
	"github.com/schoolink/comms/internal/chat"
	"github.com/schoolink/comms/internal/handlers/dto"
	"github.com/schoolink/comms/internal/relay"
)

// ChatSocket dispatches client-originated relay events. The hub performs no
// authorization of its own, so the participant check runs here, synchronously,
// before every join and before every send is accepted.
type ChatSocket struct {
	appointments *appointments.Service
	chat         *chat.Service
	hub          *relay.Hub
	logger       *zap.Logger
}

func NewChatSocket(appts *appointments.Service, chatSvc *chat.Service, hub *relay.Hub, logger *zap.Logger) *ChatSocket {
	return &ChatSocket{appointments: appts, chat: chatSvc, hub: hub, logger: logger}
}

func (s *ChatSocket) HandleEvent(client *relay.Client, ev *relay.Event) error {
	switch ev.Name {
	case relay.EventJoinRoom:
		return s.handleJoin(client, ev)

	case relay.EventLeaveRoom:
		if ev.Room == nil {
			return relay.ErrInvalidEvent
		}
		s.hub.Leave(client, *ev.Room)
		return nil

	case relay.EventSendMessage:
		return s.handleSend(client, ev)

	default:
		s.logger.Debug("unknown socket event", zap.String("event", string(ev.Name)))
		return nil
	}
}

func (s *ChatSocket) handleJoin(client *relay.Client, ev *relay.Event) error {
	if ev.Room == nil {
		return relay.ErrInvalidEvent
	}

	// Participant check before the hub learns anything about this client.
	if _, err := s.appointments.Get(context.Background(), client.Identity, *ev.Room); err != nil {
		return err
	}

	s.hub.Join(client, *ev.Room)
	return nil
}

func (s *ChatSocket) handleSend(client *relay.Client, ev *relay.Event) error {
	if ev.Room == nil {
		return relay.ErrInvalidEvent
	}
	if !client.InChannel(*ev.Room) {
		return relay.ErrNotInChannel
	}

	var payload dto.SocketMessagePayload
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		return relay.ErrInvalidEvent
	}

	// Store first, then fan out; the gate inside Append re-checks
	// participancy and APPROVED against the primary. The origin client is
	// excluded from the broadcast and gets the durable copy back instead.
	msg, err := s.chat.Append(context.Background(), client.Identity, *ev.Room, payload.Content, client.ID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(chat.NewMessageDTO(msg))
	if err != nil {
		return err
	}
	return client.SendEvent(&relay.Event{
		Name:     relay.EventReceiveMessage,
		Room:     ev.Room,
		SenderID: client.UserID,
		Data:     data,
	})
}
