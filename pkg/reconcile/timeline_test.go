package reconcile

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func makeMessages(n int) []Message {
	appt := uuid.New()
	sender := uuid.New()
	base := time.Unix(1700000000, 0)

	msgs := make([]Message, n)
	for i := range msgs {
		msgs[i] = Message{
			ID:            uuid.New(),
			AppointmentID: appt,
			SenderID:      sender,
			Content:       fmt.Sprintf("m%d", i),
			// A couple of identical timestamps to exercise the id tie-break.
			CreatedAt: base.Add(time.Duration(i/2) * time.Second),
		}
	}
	return msgs
}

func ids(entries []Entry) []uuid.UUID {
	out := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

// Whatever interleaving of fetch pages and relay deliveries covers the same
// message set, the rendered list must come out identical.
func TestConvergenceUnderRandomInterleaving(t *testing.T) {
	msgs := makeMessages(12)

	reference := NewTimeline()
	reference.ApplyFetch(msgs)
	want := ids(reference.Entries())
	require.Len(t, want, len(msgs))

	for seed := int64(0); seed < 20; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))

			// Build a random batch of operations covering every message
			// at least once, many twice (fetch overlap with relay).
			type op func(tl *Timeline)
			var ops []op

			shuffled := append([]Message(nil), msgs...)
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			// Random fetch pages over the full set.
			for start := 0; start < len(msgs); {
				end := start + 1 + rng.Intn(4)
				if end > len(msgs) {
					end = len(msgs)
				}
				page := msgs[start:end]
				ops = append(ops, func(tl *Timeline) { tl.ApplyFetch(page) })
				start = end
			}

			// Every message additionally delivered via relay.
			for _, m := range shuffled {
				m := m
				ops = append(ops, func(tl *Timeline) { tl.ApplyRelay(m) })
			}

			rng.Shuffle(len(ops), func(i, j int) { ops[i], ops[j] = ops[j], ops[i] })

			tl := NewTimeline()
			for _, apply := range ops {
				apply(tl)
			}

			require.Equal(t, want, ids(tl.Entries()))
		})
	}
}

func TestOrderingRule(t *testing.T) {
	tl := NewTimeline()
	at := time.Unix(1700000000, 0)

	early := Message{ID: uuid.New(), Content: "early", CreatedAt: at.Add(-time.Second)}
	late := Message{ID: uuid.New(), Content: "late", CreatedAt: at.Add(time.Second)}

	// Two messages on the same instant: id ascending breaks the tie.
	tieA := Message{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Content: "tie-a", CreatedAt: at}
	tieB := Message{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Content: "tie-b", CreatedAt: at}

	tl.ApplyRelay(late)
	tl.ApplyRelay(tieB)
	tl.ApplyRelay(early)
	tl.ApplyRelay(tieA)

	var contents []string
	for _, e := range tl.Entries() {
		contents = append(contents, e.Content)
	}
	require.Equal(t, []string{"early", "tie-a", "tie-b", "late"}, contents)
}

func TestPendingLifecycle(t *testing.T) {
	tl := NewTimeline()
	at := time.Unix(1700000000, 0)

	confirmed := Message{ID: uuid.New(), Content: "old", CreatedAt: at}
	tl.ApplyFetch([]Message{confirmed})

	staged := Message{Content: "draft", CreatedAt: time.Now()}
	tl.Stage("local-1", staged)

	entries := tl.Entries()
	require.Len(t, entries, 2)
	require.False(t, entries[0].Pending)
	require.True(t, entries[1].Pending)
	require.Equal(t, "draft", entries[1].Content)

	// The relay may deliver the durable copy before the append response.
	durable := Message{ID: uuid.New(), Content: "draft", CreatedAt: at.Add(time.Second)}
	tl.ApplyRelay(durable)
	tl.Confirm("local-1", durable)

	entries = tl.Entries()
	require.Len(t, entries, 2, "confirm after relay delivery must not duplicate")
	for _, e := range entries {
		require.False(t, e.Pending)
	}
}

func TestFailedSendLeavesNoOrphan(t *testing.T) {
	tl := NewTimeline()

	tl.Stage("local-1", Message{Content: "doomed", CreatedAt: time.Now()})
	require.Len(t, tl.Entries(), 1)

	tl.Fail("local-1")
	require.Empty(t, tl.Entries())

	// Failing twice is a no-op.
	tl.Fail("local-1")
}

func TestStageIsIdempotentPerKey(t *testing.T) {
	tl := NewTimeline()

	tl.Stage("k", Message{Content: "v1"})
	tl.Stage("k", Message{Content: "v2"})

	entries := tl.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "v2", entries[0].Content)
}
