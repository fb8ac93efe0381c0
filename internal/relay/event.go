package relay

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventName string

const (
	// Client-originated events.
	EventJoinRoom    EventName = "join-room"
	EventLeaveRoom   EventName = "leave-room"
	EventSendMessage EventName = "send-message"

	// Server-originated events.
	EventReceiveMessage EventName = "receive-message"
	EventError          EventName = "error"

	EventPing EventName = "ping"
	EventPong EventName = "pong"
)

// Event is one frame on the wire. Room identifies the channel, which is
// always an appointment id.
type Event struct {
	Name      EventName       `json:"event"`
	Room      *uuid.UUID      `json:"room_id,omitempty"`
	SenderID  uuid.UUID       `json:"sender_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}
