package models

import (
	"github.com/google/uuid"
)

// Position is a player's primary roster position, e.g. "QB" or "WR".
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

// PoolPlayer is one entry of a draft's player pool. Available flips to false
// exactly once, in the same commit as the pick that claims the player.
type PoolPlayer struct {
	PlayerID  uuid.UUID `json:"player_id"`
	FullName  string    `json:"full_name"`
	Position  Position  `json:"position"`
	Rank      int       `json:"rank"` // 1 is best
	ADP       float64   `json:"adp"`
	Available bool      `json:"available"`
}
