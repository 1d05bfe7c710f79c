package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftType defines the type of draft.
type DraftType string

const (
	DraftTypeSnake   DraftType = "SNAKE"
	DraftTypeLinear  DraftType = "LINEAR"
	DraftTypeAuction DraftType = "AUCTION"
)

// Valid reports whether t is a known draft type.
func (t DraftType) Valid() bool {
	switch t {
	case DraftTypeSnake, DraftTypeLinear, DraftTypeAuction:
		return true
	}
	return false
}

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusScheduled DraftStatus = "SCHEDULED"
	DraftStatusWaiting   DraftStatus = "WAITING"
	DraftStatusActive    DraftStatus = "ACTIVE"
	DraftStatusPaused    DraftStatus = "PAUSED"
	DraftStatusCompleted DraftStatus = "COMPLETED"
	DraftStatusCancelled DraftStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are possible.
func (s DraftStatus) Terminal() bool {
	return s == DraftStatusCompleted || s == DraftStatusCancelled
}

// Draft represents a draft instance and its live cursor.
type Draft struct {
	ID                 uuid.UUID   `json:"id"`
	LeagueID           uuid.UUID   `json:"league_id"`
	Type               DraftType   `json:"type"`
	Status             DraftStatus `json:"status"`
	DraftOrder         []uuid.UUID `json:"draft_order"`
	TotalRounds        int         `json:"total_rounds"`
	TimePerPickSeconds int         `json:"time_per_pick_seconds"`

	CurrentRound       int       `json:"current_round"`
	CurrentPickInRound int       `json:"current_pick_in_round"`
	CurrentOverallPick int       `json:"current_overall_pick"`
	CurrentTeamID      uuid.UUID `json:"current_team_id"`

	// TurnDeadline is nil whenever the clock is not ticking.
	TurnDeadline *time.Time `json:"turn_deadline,omitempty"`
	// PausedRemainingSeconds is set only while PAUSED.
	PausedRemainingSeconds *int `json:"paused_remaining_seconds,omitempty"`

	// LastSequence is the highest event sequence ever emitted for this draft.
	LastSequence uint64 `json:"last_sequence"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TeamCount returns the number of teams in the draft order.
func (d *Draft) TeamCount() int {
	return len(d.DraftOrder)
}

// TotalPicks returns the number of picks the draft will make.
func (d *Draft) TotalPicks() int {
	return len(d.DraftOrder) * d.TotalRounds
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	c := *d
	c.DraftOrder = append([]uuid.UUID(nil), d.DraftOrder...)
	c.TurnDeadline = cloneTime(d.TurnDeadline)
	c.ScheduledAt = cloneTime(d.ScheduledAt)
	c.StartedAt = cloneTime(d.StartedAt)
	c.CompletedAt = cloneTime(d.CompletedAt)
	if d.PausedRemainingSeconds != nil {
		v := *d.PausedRemainingSeconds
		c.PausedRemainingSeconds = &v
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
