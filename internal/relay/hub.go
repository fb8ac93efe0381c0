package relay

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub is the in-process broker: a runtime mapping from appointment id to the
// set of currently connected clients. Membership is ephemeral: a channel
// exists only while someone is connected to it. The hub performs no
// authorization of its own; callers must verify participancy before Join and
// before accepting any client-originated publish.
type Hub struct {
	clients  map[uuid.UUID]*Client
	channels map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		channels:   make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.channels = make(map[uuid.UUID]map[uuid.UUID]*Client)
}

// Register and Unregister hand the client to the Run loop. After Stop they
// return immediately; Stop already tore every client down.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.logger.Debug("client registered",
		zap.String("client_id", client.ID.String()),
		zap.String("user_id", client.UserID.String()),
	)
}

// unregisterClient drops the client from every channel it joined. No replay
// is attempted for anything published while it was gone; recovery is the
// durable fetch path's job.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	for channelID := range client.channels {
		h.leaveLocked(client, channelID)
	}

	delete(h.clients, client.ID)
	close(client.send)

	h.logger.Debug("client unregistered",
		zap.String("client_id", client.ID.String()),
		zap.String("user_id", client.UserID.String()),
	)
}

// Join registers the client as a member of the appointment's channel.
func (h *Hub) Join(client *Client, channelID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.channels[channelID]; !ok {
		h.channels[channelID] = make(map[uuid.UUID]*Client)
	}
	h.channels[channelID][client.ID] = client

	client.mu.Lock()
	client.channels[channelID] = true
	client.mu.Unlock()
}

// Leave deregisters; no-op if the client is not a member.
func (h *Hub) Leave(client *Client, channelID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(client, channelID)
}

func (h *Hub) leaveLocked(client *Client, channelID uuid.UUID) {
	channel, ok := h.channels[channelID]
	if !ok {
		return
	}
	if _, ok := channel[client.ID]; !ok {
		return
	}

	delete(channel, client.ID)
	client.mu.Lock()
	delete(client.channels, channelID)
	client.mu.Unlock()

	if len(channel) == 0 {
		delete(h.channels, channelID)
	}
}

// Publish delivers the frame to every member of the channel except the
// origin, at most once each, in publish order per connection. Best effort: a
// member whose queue is full or who already disconnected simply misses the
// frame, and nobody is told.
func (h *Hub) Publish(channelID uuid.UUID, frame []byte, exclude uuid.UUID) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	channel, ok := h.channels[channelID]
	if !ok {
		return
	}

	for _, client := range channel {
		if client.ID == exclude {
			continue
		}
		select {
		case client.send <- frame:
		default:
			h.logger.Warn("dropping frame, client queue full",
				zap.String("client_id", client.ID.String()),
				zap.String("channel_id", channelID.String()),
			)
		}
	}
}

// ChannelUsers lists the user ids currently connected to a channel.
func (h *Hub) ChannelUsers(channelID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	if channel, ok := h.channels[channelID]; ok {
		for _, client := range channel {
			seen[client.UserID] = true
		}
	}

	users := make([]uuid.UUID, 0, len(seen))
	for userID := range seen {
		users = append(users, userID)
	}
	return users
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ev := Event{Name: EventPing, Timestamp: time.Now()}
	frame, err := ev.Encode()
	if err != nil {
		return
	}

	for _, client := range h.clients {
		select {
		case client.send <- frame:
		default:
		}
	}
}
