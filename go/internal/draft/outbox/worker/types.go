package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=types.go -destination=mocks/mock_worker.go -package=mocks

// OutboxEvent is one undelivered row of the draft outbox.
type OutboxEvent struct {
	ID        uuid.UUID
	DraftID   uuid.UUID
	Sequence  uint64
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type EventPublisher interface {
	Publish(ctx context.Context, event OutboxEvent) error
}

// Envelope is the wire form every bus publisher emits.
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	DraftID   string          `json:"draftId"`
	Sequence  uint64          `json:"sequence"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func NewEnvelope(event OutboxEvent) Envelope {
	payload := json.RawMessage(event.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return Envelope{
		EventID:   event.ID.String(),
		EventType: event.EventType,
		DraftID:   event.DraftID.String(),
		Sequence:  event.Sequence,
		Timestamp: event.CreatedAt.UTC(),
		Payload:   payload,
	}
}
