package gateway

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
)

// Frame types sent to WebSocket clients besides the draft event types.
const (
	FrameSnapshot = "SNAPSHOT"
	FramePickAck  = "PICK_ACK"
	FrameError    = "ERROR"
	FramePong     = "PONG"
)

// Client actions.
const (
	ActionMakePick = "make_pick"
	ActionPing     = "ping"
)

// CloseResync is the close code telling a client to reconnect for a fresh
// snapshot.
const CloseResync = 4000

// Frame is one server-to-client message. Draft events use the event type
// as Type and carry their payload in Data.
type Frame struct {
	Type      string      `json:"type"`
	Sequence  uint64      `json:"sequence"`
	DraftID   string      `json:"draft_id,omitempty"`
	EventID   string      `json:"event_id,omitempty"`
	Timestamp *time.Time  `json:"timestamp,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Code      string      `json:"code,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func snapshotFrame(snap engine.Snapshot) Frame {
	return Frame{
		Type:     FrameSnapshot,
		Sequence: snap.LastSequence,
		DraftID:  snap.DraftID.String(),
		Data:     snap,
	}
}

func eventFrame(ev events.DraftEvent) Frame {
	ts := ev.Timestamp
	return Frame{
		Type:      string(ev.Type),
		Sequence:  ev.Sequence,
		DraftID:   ev.DraftID.String(),
		EventID:   ev.ID.String(),
		Timestamp: &ts,
		Data:      ev.Payload,
	}
}

func errorFrame(requestID string, err error) Frame {
	_, code := statusFor(err)
	return Frame{
		Type:      FrameError,
		RequestID: requestID,
		Code:      code,
		Message:   err.Error(),
	}
}

// ClientMessage is one client-to-server message.
type ClientMessage struct {
	Action              string    `json:"action"`
	RequestID           string    `json:"request_id,omitempty"`
	TeamID              uuid.UUID `json:"team_id"`
	PlayerID            uuid.UUID `json:"player_id"`
	ExpectedOverallPick int       `json:"expected_overall_pick"`
}
