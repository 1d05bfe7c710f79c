// Package order maps draft slots to teams. Everything here is pure.
package order

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
)

var (
	// ErrEmptyOrder is returned when the draft order has no teams.
	ErrEmptyOrder = errors.New("draft order is empty")
	// ErrSlotOutOfRange is returned for a round or pick outside the board.
	ErrSlotOutOfRange = errors.New("slot out of range")
)

// Slot identifies one pick on the draft board.
type Slot struct {
	Round       int       `json:"round"`
	PickInRound int       `json:"pick_in_round"`
	OverallPick int       `json:"overall_pick"`
	TeamID      uuid.UUID `json:"team_id"`
}

// TeamForSlot returns the team on the clock for (round, pickInRound).
// Even snake rounds are a full reversal of the order.
func TeamForSlot(typ models.DraftType, draftOrder []uuid.UUID, round, pickInRound int) (uuid.UUID, error) {
	n := len(draftOrder)
	if n == 0 {
		return uuid.Nil, ErrEmptyOrder
	}
	if round < 1 || pickInRound < 1 || pickInRound > n {
		return uuid.Nil, fmt.Errorf("round %d pick %d with %d teams: %w", round, pickInRound, n, ErrSlotOutOfRange)
	}

	switch typ {
	case models.DraftTypeSnake:
		if round%2 == 0 {
			return draftOrder[n-pickInRound], nil
		}
		return draftOrder[pickInRound-1], nil
	case models.DraftTypeLinear:
		return draftOrder[pickInRound-1], nil
	case models.DraftTypeAuction:
		return NewNominationQueue(draftOrder).NominatorFor(OverallPick(n, round, pickInRound))
	default:
		return uuid.Nil, fmt.Errorf("unsupported draft type: %s", typ)
	}
}

// OverallPick returns the draft-wide pick number for (round, pickInRound).
func OverallPick(teamCount, round, pickInRound int) int {
	return (round-1)*teamCount + pickInRound
}

// SlotForOverall is the inverse of OverallPick.
func SlotForOverall(teamCount, overall int) (round, pickInRound int) {
	if teamCount <= 0 || overall < 1 {
		return 0, 0
	}
	return (overall-1)/teamCount + 1, (overall-1)%teamCount + 1
}

// TotalPicks returns how many picks a draft of this size makes.
func TotalPicks(teamCount, rounds int) int {
	return teamCount * rounds
}

// Board generates every slot of the draft in overall order.
func Board(typ models.DraftType, draftOrder []uuid.UUID, rounds int) ([]Slot, error) {
	numTeams := len(draftOrder)
	if numTeams == 0 {
		return nil, ErrEmptyOrder
	}
	if rounds < 1 {
		return nil, fmt.Errorf("rounds must be positive: %w", ErrSlotOutOfRange)
	}

	slots := make([]Slot, 0, TotalPicks(numTeams, rounds))
	for round := 1; round <= rounds; round++ {
		for pick := 1; pick <= numTeams; pick++ {
			teamID, err := TeamForSlot(typ, draftOrder, round, pick)
			if err != nil {
				return nil, err
			}
			slots = append(slots, Slot{
				Round:       round,
				PickInRound: pick,
				OverallPick: OverallPick(numTeams, round, pick),
				TeamID:      teamID,
			})
		}
	}
	return slots, nil
}
