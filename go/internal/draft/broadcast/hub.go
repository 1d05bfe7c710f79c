// Package broadcast fans draft events out to subscribers with a bounded queue
// per subscriber.
package broadcast

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSubscriberDropped means the subscriber's queue overflowed.
	ErrSubscriberDropped = errors.New("subscriber dropped: outbound queue full")
	// ErrResyncRequired means the subscriber would have seen a sequence gap.
	ErrResyncRequired = errors.New("subscriber dropped: sequence gap, resync required")
	// ErrReplayGap means the replay buffer no longer covers the requested
	// sequence. Take a fresh snapshot and attach again.
	ErrReplayGap = errors.New("replay buffer does not cover requested sequence")
	// ErrDraftClosed means the draft reached a terminal state.
	ErrDraftClosed = errors.New("draft closed")
)

// Config holds broadcaster limits.
type Config struct {
	QueueSize  int // per-subscriber outbound queue
	ReplaySize int // recent events kept per draft for late attach
}

// DefaultConfig returns default broadcaster limits.
func DefaultConfig() Config {
	return Config{
		QueueSize:  256,
		ReplaySize: 128,
	}
}

// Subscriber receives the events of one draft, in sequence order with no
// gaps, until its channel is closed.
type Subscriber struct {
	ID      string
	DraftID uuid.UUID

	ch chan events.DraftEvent

	mu     sync.Mutex
	last   uint64
	err    error
	closed bool
}

// Events returns the outbound channel. It is closed when the subscriber is
// detached or dropped; Err tells which.
func (s *Subscriber) Events() <-chan events.DraftEvent {
	return s.ch
}

// Err returns why the channel was closed, or nil for a normal detach.
func (s *Subscriber) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// LastSequence returns the sequence of the last event queued.
func (s *Subscriber) LastSequence() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// offer queues ev without blocking. It returns the reason the subscriber must
// be dropped, if any.
func (s *Subscriber) offer(ev events.DraftEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || ev.Sequence <= s.last {
		return nil
	}
	if ev.Sequence != s.last+1 {
		return ErrResyncRequired
	}
	select {
	case s.ch <- ev:
		s.last = ev.Sequence
		return nil
	default:
		return ErrSubscriberDropped
	}
}

func (s *Subscriber) close(reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = reason
	close(s.ch)
}

type topic struct {
	subs map[*Subscriber]struct{}
	ring []events.DraftEvent
	last uint64
}

// Hub holds the subscribers of every draft.
type Hub struct {
	cfg Config

	mu     sync.Mutex
	topics map[uuid.UUID]*topic
}

// NewHub creates a Hub.
func NewHub(cfg Config) *Hub {
	def := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.ReplaySize < 0 {
		cfg.ReplaySize = 0
	}
	return &Hub{
		cfg:    cfg,
		topics: make(map[uuid.UUID]*topic),
	}
}

func (h *Hub) topicLocked(draftID uuid.UUID) *topic {
	t, ok := h.topics[draftID]
	if !ok {
		t = &topic{subs: make(map[*Subscriber]struct{})}
		h.topics[draftID] = t
	}
	return t
}

// Attach subscribes to a draft starting after sequence afterSeq, usually the
// sequence of a snapshot the caller already holds. Buffered events newer than
// afterSeq are queued immediately.
func (h *Hub) Attach(draftID uuid.UUID, afterSeq uint64) (*Subscriber, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := h.topicLocked(draftID)
	sub := &Subscriber{
		ID:      uuid.New().String(),
		DraftID: draftID,
		ch:      make(chan events.DraftEvent, h.cfg.QueueSize),
		last:    afterSeq,
	}

	if t.last > afterSeq {
		if len(t.ring) == 0 || t.ring[0].Sequence > afterSeq+1 {
			return nil, ErrReplayGap
		}
		for _, ev := range t.ring {
			if err := sub.offer(ev); err != nil {
				return nil, ErrReplayGap
			}
		}
	}

	t.subs[sub] = struct{}{}
	log.Debug().
		Str("draft_id", draftID.String()).
		Str("subscriber_id", sub.ID).
		Uint64("after_sequence", afterSeq).
		Int("subscribers", len(t.subs)).
		Msg("subscriber attached")
	return sub, nil
}

// Detach removes a subscriber and closes its channel.
func (h *Hub) Detach(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub, nil)
}

func (h *Hub) removeLocked(sub *Subscriber, reason error) {
	if t, ok := h.topics[sub.DraftID]; ok {
		delete(t.subs, sub)
		if len(t.subs) == 0 && len(t.ring) == 0 && t.last == 0 {
			delete(h.topics, sub.DraftID)
		}
	}
	sub.close(reason)
}

// Publish delivers ev to every subscriber of its draft without blocking. An
// event at or below the last published sequence is a duplicate and is
// ignored. It reports whether the event was new.
func (h *Hub) Publish(ev events.DraftEvent) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := h.topicLocked(ev.DraftID)
	if ev.Sequence <= t.last {
		log.Debug().
			Str("draft_id", ev.DraftID.String()).
			Uint64("sequence", ev.Sequence).
			Uint64("last_sequence", t.last).
			Msg("ignoring duplicate event")
		return false
	}
	t.last = ev.Sequence
	if h.cfg.ReplaySize > 0 {
		t.ring = append(t.ring, ev)
		if over := len(t.ring) - h.cfg.ReplaySize; over > 0 {
			t.ring = append(t.ring[:0], t.ring[over:]...)
		}
	}

	for sub := range t.subs {
		if err := sub.offer(ev); err != nil {
			log.Warn().
				Err(err).
				Str("draft_id", ev.DraftID.String()).
				Str("subscriber_id", sub.ID).
				Uint64("sequence", ev.Sequence).
				Msg("dropping subscriber")
			delete(t.subs, sub)
			sub.close(err)
		}
	}

	log.Debug().
		Str("draft_id", ev.DraftID.String()).
		Str("event_type", string(ev.Type)).
		Uint64("sequence", ev.Sequence).
		Int("subscribers", len(t.subs)).
		Msg("event broadcasted")
	return true
}

// CloseDraft detaches every subscriber of a finished draft. Queued events are
// still readable before the channel reports closed.
func (h *Hub) CloseDraft(draftID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.topics[draftID]
	if !ok {
		return
	}
	for sub := range t.subs {
		sub.close(ErrDraftClosed)
	}
	delete(h.topics, draftID)
}

// LastSequence returns the last sequence published for a draft.
func (h *Hub) LastSequence(draftID uuid.UUID) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.topics[draftID]; ok {
		return t.last
	}
	return 0
}

// Stats holds subscriber counts.
type Stats struct {
	TotalSubscribers int            `json:"total_connections"`
	ActiveDrafts     int            `json:"active_drafts"`
	DraftSubscribers map[string]int `json:"draft_connections"`
}

// Stats returns statistics about active subscribers.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := Stats{DraftSubscribers: make(map[string]int)}
	for draftID, t := range h.topics {
		if len(t.subs) == 0 {
			continue
		}
		st.ActiveDrafts++
		st.TotalSubscribers += len(t.subs)
		st.DraftSubscribers[draftID.String()] = len(t.subs)
	}
	return st
}
