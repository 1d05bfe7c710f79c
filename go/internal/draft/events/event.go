// Package events defines the draft event envelope and its payloads.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of draft event
type EventType string

const (
	EventTypePickMade       EventType = "PICK_MADE"
	EventTypeAutoPick       EventType = "AUTO_PICK"
	EventTypeTimeUpdate     EventType = "TIME_UPDATE"
	EventTypeDraftPaused    EventType = "DRAFT_PAUSED"
	EventTypeDraftResumed   EventType = "DRAFT_RESUMED"
	EventTypeDraftStarted   EventType = "DRAFT_STARTED"
	EventTypeDraftCompleted EventType = "DRAFT_COMPLETED"
	EventTypeDraftCancelled EventType = "DRAFT_CANCELLED"
)

// Terminal reports whether no events follow this one.
func (t EventType) Terminal() bool {
	return t == EventTypeDraftCompleted || t == EventTypeDraftCancelled
}

// DraftEvent is one state transition of a draft. Sequence is strictly
// increasing per draft and is the ordering contract for subscribers.
type DraftEvent struct {
	ID        uuid.UUID       `json:"id"`
	DraftID   uuid.UUID       `json:"draft_id"`
	Sequence  uint64          `json:"sequence"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// New builds an event with a marshalled payload.
func New(draftID uuid.UUID, seq uint64, typ EventType, at time.Time, payload any) (DraftEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return DraftEvent{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return DraftEvent{
		ID:        uuid.New(),
		DraftID:   draftID,
		Sequence:  seq,
		Type:      typ,
		Payload:   data,
		Timestamp: at.UTC(),
	}, nil
}

// ParsePayload decodes the event payload into the matching payload struct.
func ParsePayload(ev DraftEvent) (any, error) {
	var target any
	switch ev.Type {
	case EventTypePickMade, EventTypeAutoPick:
		target = &PickMadePayload{}
	case EventTypeTimeUpdate:
		target = &TimeUpdatePayload{}
	case EventTypeDraftStarted:
		target = &DraftStartedPayload{}
	case EventTypeDraftPaused:
		target = &DraftPausedPayload{}
	case EventTypeDraftResumed:
		target = &DraftResumedPayload{}
	case EventTypeDraftCompleted:
		target = &DraftCompletedPayload{}
	case EventTypeDraftCancelled:
		target = &DraftCancelledPayload{}
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if err := json.Unmarshal(ev.Payload, target); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", ev.Type, err)
	}
	return target, nil
}

// Envelope is the bus wire format.
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	DraftID   string          `json:"draftId"`
	Sequence  uint64          `json:"sequence"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// ToEnvelope converts an event to its bus form.
func (ev DraftEvent) ToEnvelope() Envelope {
	return Envelope{
		EventID:   ev.ID.String(),
		EventType: string(ev.Type),
		DraftID:   ev.DraftID.String(),
		Sequence:  ev.Sequence,
		Timestamp: ev.Timestamp,
		Payload:   ev.Payload,
	}
}

// FromEnvelope converts a bus envelope back into an event.
func FromEnvelope(env Envelope) (DraftEvent, error) {
	id, err := uuid.Parse(env.EventID)
	if err != nil {
		return DraftEvent{}, fmt.Errorf("parse event ID: %w", err)
	}
	draftID, err := uuid.Parse(env.DraftID)
	if err != nil {
		return DraftEvent{}, fmt.Errorf("parse draft ID: %w", err)
	}
	return DraftEvent{
		ID:        id,
		DraftID:   draftID,
		Sequence:  env.Sequence,
		Type:      EventType(env.EventType),
		Payload:   env.Payload,
		Timestamp: env.Timestamp,
	}, nil
}
