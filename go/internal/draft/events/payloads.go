package events

import (
	"time"
)

// Event payload types shared by the engine, the outbox and the gateway.

// OnTheClock describes the team that must pick next.
type OnTheClock struct {
	TeamID         string     `json:"team_id"`
	Round          int        `json:"round"`
	PickInRound    int        `json:"pick_in_round"`
	OverallPick    int        `json:"overall_pick"`
	TurnDeadline   *time.Time `json:"turn_deadline,omitempty"`
	TimePerPickSec int        `json:"time_per_pick_sec"`
}

// PickMadePayload is the payload for PICK_MADE and AUTO_PICK events.
type PickMadePayload struct {
	PickID          string      `json:"pick_id"`
	TeamID          string      `json:"team_id"`
	PlayerID        string      `json:"player_id"`
	PlayerName      string      `json:"player_name,omitempty"`
	Position        string      `json:"position,omitempty"`
	Round           int         `json:"round"`
	PickInRound     int         `json:"pick_in_round"`
	OverallPick     int         `json:"overall_pick"`
	IsAutoPick      bool        `json:"is_auto_pick"`
	TimeUsedSeconds int         `json:"time_used_seconds"`
	MadeAt          time.Time   `json:"made_at"`
	Next            *OnTheClock `json:"next,omitempty"` // nil when the draft is over
}

// TimeUpdatePayload is the periodic remaining-time broadcast.
type TimeUpdatePayload struct {
	TeamID           string    `json:"team_id"`
	OverallPick      int       `json:"overall_pick"`
	TimeRemainingSec int       `json:"time_remaining_sec"`
	TurnDeadline     time.Time `json:"turn_deadline"`
	TickedAt         time.Time `json:"ticked_at"`
}

// DraftStartedPayload is the payload for a DRAFT_STARTED event.
type DraftStartedPayload struct {
	DraftID     string      `json:"draft_id"`
	DraftType   string      `json:"draft_type"`
	StartedAt   time.Time   `json:"started_at"`
	TotalRounds int         `json:"total_rounds"`
	TotalPicks  int         `json:"total_picks"`
	DraftOrder  []string    `json:"draft_order"`
	Next        *OnTheClock `json:"next"`
}

// DraftCompletedPayload is the payload for a DRAFT_COMPLETED event.
type DraftCompletedPayload struct {
	DraftID     string    `json:"draft_id"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftPausedPayload is the payload for a DRAFT_PAUSED event.
type DraftPausedPayload struct {
	DraftID          string    `json:"draft_id"`
	PausedAt         time.Time `json:"paused_at"`
	Reason           string    `json:"reason"`
	RemainingSeconds int       `json:"remaining_seconds"`
}

// DraftResumedPayload is the payload for a DRAFT_RESUMED event.
type DraftResumedPayload struct {
	DraftID   string      `json:"draft_id"`
	ResumedAt time.Time   `json:"resumed_at"`
	Next      *OnTheClock `json:"next"`
}

// DraftCancelledPayload is the payload for a DRAFT_CANCELLED event.
type DraftCancelledPayload struct {
	DraftID     string    `json:"draft_id"`
	CancelledAt time.Time `json:"cancelled_at"`
	Reason      string    `json:"reason"`
}
