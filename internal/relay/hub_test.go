package relay

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolink/comms/internal/domain"
)

func newTestClient(h *Hub) *Client {
	c := NewClient(h, nil, domain.Identity{UserID: uuid.New()})
	h.registerClient(c)
	return c
}

func drain(t *testing.T, c *Client) [][]byte {
	t.Helper()
	var out [][]byte
	for {
		select {
		case frame := <-c.send:
			out = append(out, frame)
		default:
			return out
		}
	}
}

func TestPublishFanOut(t *testing.T) {
	h := NewHub(zap.NewNop())
	room := uuid.New()
	otherRoom := uuid.New()

	a := newTestClient(h)
	b := newTestClient(h)
	c := newTestClient(h)

	h.Join(a, room)
	h.Join(b, room)
	h.Join(c, otherRoom)

	h.Publish(room, []byte("e"), a.ID)

	require.Empty(t, drain(t, a), "origin must be excluded")
	require.Len(t, drain(t, b), 1, "joined peer gets the event exactly once")
	require.Empty(t, drain(t, c), "other channels must not leak")
}

func TestPublishOrderIsFIFO(t *testing.T) {
	h := NewHub(zap.NewNop())
	room := uuid.New()

	a := newTestClient(h)
	b := newTestClient(h)
	h.Join(a, room)
	h.Join(b, room)

	const n = 50
	for i := 0; i < n; i++ {
		h.Publish(room, []byte(fmt.Sprintf("e%d", i)), a.ID)
	}

	frames := drain(t, b)
	require.Len(t, frames, n)
	for i, frame := range frames {
		require.Equal(t, fmt.Sprintf("e%d", i), string(frame))
	}
}

func TestLeaveStopsDelivery(t *testing.T) {
	h := NewHub(zap.NewNop())
	room := uuid.New()

	a := newTestClient(h)
	b := newTestClient(h)
	h.Join(a, room)
	h.Join(b, room)

	h.Leave(b, room)
	require.False(t, b.InChannel(room))

	h.Publish(room, []byte("e"), uuid.Nil)
	require.Empty(t, drain(t, b))
	require.Len(t, drain(t, a), 1)

	// Leaving when not a member is a no-op.
	h.Leave(b, room)
}

func TestEmptyChannelIsDestroyed(t *testing.T) {
	h := NewHub(zap.NewNop())
	room := uuid.New()

	a := newTestClient(h)
	h.Join(a, room)

	h.mu.RLock()
	_, exists := h.channels[room]
	h.mu.RUnlock()
	require.True(t, exists)

	h.Leave(a, room)

	h.mu.RLock()
	_, exists = h.channels[room]
	h.mu.RUnlock()
	require.False(t, exists)
}

func TestUnregisterRemovesFromAllChannels(t *testing.T) {
	h := NewHub(zap.NewNop())
	room1 := uuid.New()
	room2 := uuid.New()

	a := newTestClient(h)
	b := newTestClient(h)
	h.Join(a, room1)
	h.Join(a, room2)
	h.Join(b, room1)

	h.unregisterClient(a)

	h.Publish(room1, []byte("e1"), uuid.Nil)
	h.Publish(room2, []byte("e2"), uuid.Nil)

	require.Len(t, drain(t, b), 1)
	require.NotContains(t, h.clients, a.ID)

	// Double unregister must not panic on the closed send channel.
	h.unregisterClient(a)
}

// Register and Unregister must not block once the hub is stopped, or every
// pump goroutine still draining a connection would leak.
func TestStopUnblocksLifecycle(t *testing.T) {
	h := NewHub(zap.NewNop())
	go h.Run()

	a := NewClient(h, nil, domain.Identity{UserID: uuid.New()})
	h.Register(a)
	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		_, ok := h.clients[a.ID]
		return ok
	}, time.Second, time.Millisecond)

	h.Stop()

	done := make(chan struct{})
	go func() {
		h.Unregister(a)
		h.Register(NewClient(h, nil, domain.Identity{UserID: uuid.New()}))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub lifecycle blocked after Stop")
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	require.Empty(t, h.clients)
	require.Empty(t, h.channels)
}

func TestChannelUsers(t *testing.T) {
	h := NewHub(zap.NewNop())
	room := uuid.New()

	a := newTestClient(h)
	b := newTestClient(h)
	h.Join(a, room)
	h.Join(b, room)

	users := h.ChannelUsers(room)
	require.ElementsMatch(t, []uuid.UUID{a.UserID, b.UserID}, users)
	require.Empty(t, h.ChannelUsers(uuid.New()))
}
