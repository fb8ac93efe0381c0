package relay

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/schoolink/comms/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// EventHandler receives every client-originated event except pong. The
// handler owns the authorization gate: the hub itself trusts its caller.
type EventHandler interface {
	HandleEvent(client *Client, ev *Event) error
}

// Client is one connected session. Constructed fresh per authenticated
// upgrade and torn down with the connection, never shared process-wide.
type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Identity domain.Identity

	conn     *websocket.Conn
	send     chan []byte
	channels map[uuid.UUID]bool
	hub      *Hub
	mu       sync.RWMutex
}

func NewClient(hub *Hub, conn *websocket.Conn, identity domain.Identity) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   identity.UserID,
		Identity: identity,
		conn:     conn,
		send:     make(chan []byte, 256),
		channels: make(map[uuid.UUID]bool),
		hub:      hub,
	}
}

// ReadPump consumes frames from the connection until it drops, then
// unregisters the client from the hub and all its channels.
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var ev Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error: " + err.Error())
			}
			break
		}

		if ev.Name == EventPong {
			continue
		}

		// The sender identity always comes from the session, never
		// from the frame.
		ev.SenderID = c.UserID

		if handler == nil {
			continue
		}
		if err := handler.HandleEvent(c, &ev); err != nil {
			c.SendError(err.Error())
		}
	}
}

// WritePump drains the send queue onto the wire one frame at a time,
// preserving enqueue order.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent queues one event to this client only.
func (c *Client) SendEvent(ev *Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	frame, err := ev.Encode()
	if err != nil {
		return err
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(msg string) {
	data, _ := json.Marshal(map[string]string{"message": msg})
	_ = c.SendEvent(&Event{Name: EventError, Data: data, Timestamp: time.Now()})
}

func (c *Client) InChannel(channelID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channels[channelID]
}
