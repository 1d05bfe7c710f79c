package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/clock"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
)

// Snapshot is a read-only view of a draft at one sequence number.
type Snapshot struct {
	DraftID            uuid.UUID          `json:"draft_id"`
	LeagueID           uuid.UUID          `json:"league_id"`
	Type               models.DraftType   `json:"type"`
	Status             models.DraftStatus `json:"status"`
	DraftOrder         []uuid.UUID        `json:"draft_order"`
	TotalRounds        int                `json:"total_rounds"`
	TotalPicks         int                `json:"total_picks"`
	TimePerPickSeconds int                `json:"time_per_pick_seconds"`

	CurrentRound       int       `json:"current_round"`
	CurrentPickInRound int       `json:"current_pick_in_round"`
	CurrentOverallPick int       `json:"current_overall_pick"`
	CurrentTeamID      uuid.UUID `json:"current_team_id"`

	TurnDeadline           *time.Time `json:"turn_deadline,omitempty"`
	RemainingSeconds       int        `json:"remaining_seconds"`
	PausedRemainingSeconds *int       `json:"paused_remaining_seconds,omitempty"`

	Picks            []models.DraftPick `json:"picks"`
	AvailablePlayers int                `json:"available_players"`
	LastSequence     uint64             `json:"last_sequence"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func buildSnapshot(d *models.Draft, picks []models.DraftPick, available int, remaining time.Duration) Snapshot {
	c := d.Clone()
	return Snapshot{
		DraftID:                c.ID,
		LeagueID:               c.LeagueID,
		Type:                   c.Type,
		Status:                 c.Status,
		DraftOrder:             c.DraftOrder,
		TotalRounds:            c.TotalRounds,
		TotalPicks:             c.TotalPicks(),
		TimePerPickSeconds:     c.TimePerPickSeconds,
		CurrentRound:           c.CurrentRound,
		CurrentPickInRound:     c.CurrentPickInRound,
		CurrentOverallPick:     c.CurrentOverallPick,
		CurrentTeamID:          c.CurrentTeamID,
		TurnDeadline:           c.TurnDeadline,
		RemainingSeconds:       clock.CeilSeconds(remaining),
		PausedRemainingSeconds: c.PausedRemainingSeconds,
		Picks:                  append([]models.DraftPick{}, picks...),
		AvailablePlayers:       available,
		LastSequence:           c.LastSequence,
		ScheduledAt:            c.ScheduledAt,
		StartedAt:              c.StartedAt,
		CompletedAt:            c.CompletedAt,
	}
}

// deadlineRemaining is the time left until a persisted deadline, used when no
// clock is armed for the draft.
func deadlineRemaining(d *models.Draft, now time.Time) time.Duration {
	if d.TurnDeadline == nil {
		return 0
	}
	left := d.TurnDeadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}
