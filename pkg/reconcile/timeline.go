// Package reconcile merges the two sources a chat client receives messages
// from: the durable history fetch and the live relay events. The two race
// and overlap; merging by message id makes the result independent of the
// order they arrive in.
package reconcile

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	SenderID      uuid.UUID `json:"sender_id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// Entry is one rendered row. Pending entries are local sends the server has
// not acknowledged yet; they render after everything confirmed.
type Entry struct {
	Message
	Pending  bool
	LocalKey string
}

// Timeline holds one appointment's merged view. Confirmed entries are
// immutable, so inserting an id twice is a no-op whichever copy arrives
// first, and applying fetch results and relay events in any interleaving
// converges to the same rendered list.
type Timeline struct {
	mu        sync.Mutex
	confirmed map[uuid.UUID]Message
	pending   map[string]Message
	order     []string
}

func NewTimeline() *Timeline {
	return &Timeline{
		confirmed: make(map[uuid.UUID]Message),
		pending:   make(map[string]Message),
	}
}

// ApplyFetch merges a durable history page.
func (t *Timeline) ApplyFetch(msgs []Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, m := range msgs {
		t.insertLocked(m)
	}
}

// ApplyRelay merges one live event: insert only if the id is absent.
func (t *Timeline) ApplyRelay(m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.insertLocked(m)
}

func (t *Timeline) insertLocked(m Message) {
	if _, ok := t.confirmed[m.ID]; ok {
		return
	}
	t.confirmed[m.ID] = m
}

// Stage records a local send before the server acknowledges it. The entry
// stays pending until Confirm or Fail, so a slow or failed append never
// shows up as a duplicate or an orphaned row.
func (t *Timeline) Stage(localKey string, m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.pending[localKey]; !ok {
		t.order = append(t.order, localKey)
	}
	t.pending[localKey] = m
}

// Confirm replaces the staged entry with the server's durable copy. The
// relay may already have delivered the same id; insertLocked absorbs that.
func (t *Timeline) Confirm(localKey string, durable Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dropPendingLocked(localKey)
	t.insertLocked(durable)
}

// Fail drops a staged entry whose append was rejected.
func (t *Timeline) Fail(localKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dropPendingLocked(localKey)
}

func (t *Timeline) dropPendingLocked(localKey string) {
	if _, ok := t.pending[localKey]; !ok {
		return
	}
	delete(t.pending, localKey)
	for i, k := range t.order {
		if k == localKey {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Entries renders the merged view: confirmed messages in store order
// (creation time ascending, ties broken by id ascending), then pending
// local sends in the order they were staged.
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, 0, len(t.confirmed)+len(t.pending))
	for _, m := range t.confirmed {
		out = append(out, Entry{Message: m})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})

	for _, k := range t.order {
		out = append(out, Entry{Message: t.pending[k], Pending: true, LocalKey: k})
	}
	return out
}
