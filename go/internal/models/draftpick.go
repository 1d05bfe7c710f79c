package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick represents a single committed pick in a draft. Picks are
// append-only; once written they never change.
type DraftPick struct {
	ID              uuid.UUID `json:"id"`
	DraftID         uuid.UUID `json:"draft_id"`
	Round           int       `json:"round"`
	PickInRound     int       `json:"pick_in_round"`
	OverallPick     int       `json:"overall_pick"`
	TeamID          uuid.UUID `json:"team_id"`
	PlayerID        uuid.UUID `json:"player_id"`
	IsAutoPick      bool      `json:"is_auto_pick"`
	TimeUsedSeconds int       `json:"time_used_seconds"`
	CommittedAt     time.Time `json:"committed_at"`
}
