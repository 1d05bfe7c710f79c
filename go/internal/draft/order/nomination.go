package order

import (
	"fmt"

	"github.com/google/uuid"
)

// NominationQueue hands the nomination to each team in turn, round-robin,
// with exactly one nomination open at a time. The open nomination is a pure
// function of the overall pick counter so a restored draft needs no queue
// state of its own.
type NominationQueue struct {
	teams []uuid.UUID
}

// NewNominationQueue builds a queue over the draft order.
func NewNominationQueue(teams []uuid.UUID) *NominationQueue {
	return &NominationQueue{teams: append([]uuid.UUID(nil), teams...)}
}

// NominatorFor returns the team holding the nomination for overall pick n.
func (q *NominationQueue) NominatorFor(overall int) (uuid.UUID, error) {
	if len(q.teams) == 0 {
		return uuid.Nil, ErrEmptyOrder
	}
	if overall < 1 {
		return uuid.Nil, fmt.Errorf("overall pick %d: %w", overall, ErrSlotOutOfRange)
	}
	return q.teams[(overall-1)%len(q.teams)], nil
}

// Upcoming returns the next k nominators starting at overall pick n.
func (q *NominationQueue) Upcoming(overall, k int) []uuid.UUID {
	if len(q.teams) == 0 || overall < 1 {
		return nil
	}
	out := make([]uuid.UUID, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, q.teams[(overall-1+i)%len(q.teams)])
	}
	return out
}
