package broadcast

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(draftID uuid.UUID, seq uint64) events.DraftEvent {
	return events.DraftEvent{
		ID:        uuid.New(),
		DraftID:   draftID,
		Sequence:  seq,
		Type:      events.EventTypeTimeUpdate,
		Timestamp: time.Now(),
	}
}

func drain(t *testing.T, sub *Subscriber) []uint64 {
	t.Helper()
	var seqs []uint64
	for {
		select {
		case e, ok := <-sub.Events():
			if !ok {
				return seqs
			}
			seqs = append(seqs, e.Sequence)
		case <-time.After(50 * time.Millisecond):
			return seqs
		}
	}
}

func TestPublishInOrderToAllSubscribers(t *testing.T) {
	h := NewHub(DefaultConfig())
	draftID := uuid.New()

	a, err := h.Attach(draftID, 0)
	require.NoError(t, err)
	b, err := h.Attach(draftID, 0)
	require.NoError(t, err)

	for seq := uint64(1); seq <= 5; seq++ {
		assert.True(t, h.Publish(ev(draftID, seq)))
	}

	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, drain(t, a))
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, drain(t, b))
	assert.Equal(t, 2, h.Stats().TotalSubscribers)
}

func TestDuplicatesAreIgnored(t *testing.T) {
	h := NewHub(DefaultConfig())
	draftID := uuid.New()
	sub, err := h.Attach(draftID, 0)
	require.NoError(t, err)

	assert.True(t, h.Publish(ev(draftID, 1)))
	assert.False(t, h.Publish(ev(draftID, 1)))
	assert.True(t, h.Publish(ev(draftID, 2)))
	assert.False(t, h.Publish(ev(draftID, 1)))

	assert.Equal(t, []uint64{1, 2}, drain(t, sub))
}

func TestSlowSubscriberIsDroppedOthersContinue(t *testing.T) {
	h := NewHub(Config{QueueSize: 2, ReplaySize: 8})
	draftID := uuid.New()

	slow, err := h.Attach(draftID, 0)
	require.NoError(t, err)
	fast, err := h.Attach(draftID, 0)
	require.NoError(t, err)

	var fastGot []uint64
	for seq := uint64(1); seq <= 4; seq++ {
		h.Publish(ev(draftID, seq))
		e := <-fast.Events()
		fastGot = append(fastGot, e.Sequence)
	}

	assert.Equal(t, []uint64{1, 2, 3, 4}, fastGot)
	assert.Equal(t, []uint64{1, 2}, drain(t, slow), "slow subscriber keeps what was queued, then closes")
	assert.ErrorIs(t, slow.Err(), ErrSubscriberDropped)
	assert.NoError(t, fast.Err())
	assert.Equal(t, 1, h.Stats().TotalSubscribers)
}

func TestAttachReplaysFromRing(t *testing.T) {
	h := NewHub(Config{QueueSize: 16, ReplaySize: 4})
	draftID := uuid.New()

	for seq := uint64(1); seq <= 6; seq++ {
		h.Publish(ev(draftID, seq))
	}

	sub, err := h.Attach(draftID, 3)
	require.NoError(t, err)
	h.Publish(ev(draftID, 7))
	assert.Equal(t, []uint64{4, 5, 6, 7}, drain(t, sub))

	_, err = h.Attach(draftID, 1)
	assert.ErrorIs(t, err, ErrReplayGap, "ring only holds 4..7")

	current, err := h.Attach(draftID, 7)
	require.NoError(t, err)
	assert.Empty(t, drain(t, current))
}

func TestGapForcesResync(t *testing.T) {
	h := NewHub(DefaultConfig())
	draftID := uuid.New()

	sub, err := h.Attach(draftID, 10)
	require.NoError(t, err)

	h.Publish(ev(draftID, 11))
	h.Publish(ev(draftID, 13))

	assert.Equal(t, []uint64{11}, drain(t, sub))
	assert.ErrorIs(t, sub.Err(), ErrResyncRequired)
}

func TestCloseDraftAndDetach(t *testing.T) {
	h := NewHub(DefaultConfig())
	draftID := uuid.New()

	a, err := h.Attach(draftID, 0)
	require.NoError(t, err)
	b, err := h.Attach(draftID, 0)
	require.NoError(t, err)

	h.Detach(b)
	_, open := <-b.Events()
	assert.False(t, open)
	assert.NoError(t, b.Err())

	h.Publish(ev(draftID, 1))
	h.CloseDraft(draftID)

	assert.Equal(t, []uint64{1}, drain(t, a))
	assert.ErrorIs(t, a.Err(), ErrDraftClosed)
	assert.Equal(t, 0, h.Stats().ActiveDrafts)

	h.Detach(a)
	h.Detach(nil)
}

func TestDraftsAreIsolated(t *testing.T) {
	h := NewHub(DefaultConfig())
	one, two := uuid.New(), uuid.New()

	a, err := h.Attach(one, 0)
	require.NoError(t, err)
	b, err := h.Attach(two, 0)
	require.NoError(t, err)

	h.Publish(ev(one, 1))
	h.Publish(ev(two, 1))
	h.Publish(ev(two, 2))

	assert.Equal(t, []uint64{1}, drain(t, a))
	assert.Equal(t, []uint64{1, 2}, drain(t, b))
	assert.Equal(t, uint64(2), h.LastSequence(two))
}
