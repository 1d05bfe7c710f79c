package order

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teams(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestSnakeTurnIsMirrored(t *testing.T) {
	for n := 2; n <= 14; n++ {
		for rounds := 1; rounds <= 20; rounds++ {
			draftOrder := teams(n)
			board, err := Board(models.DraftTypeSnake, draftOrder, rounds)
			require.NoError(t, err)
			require.Len(t, board, n*rounds)

			byOverall := make(map[int]uuid.UUID, len(board))
			for _, s := range board {
				byOverall[s.OverallPick] = s.TeamID
			}

			for r := 1; r < rounds; r++ {
				first := byOverall[n*r+1]
				last := byOverall[n*(r-1)+n]
				assert.Equal(t, last, first, "n=%d r=%d: the team closing a round opens the next", n, r)
			}

			for r := 2; r <= rounds; r += 2 {
				for p := 1; p <= n; p++ {
					even := byOverall[OverallPick(n, r, p)]
					prev := byOverall[OverallPick(n, r-1, n-p+1)]
					assert.Equal(t, prev, even, "n=%d r=%d p=%d", n, r, p)
				}
			}
		}
	}
}

func TestTeamForSlot(t *testing.T) {
	draftOrder := teams(4)

	tests := []struct {
		name  string
		typ   models.DraftType
		round int
		pick  int
		want  uuid.UUID
	}{
		{"snake round 1 pick 1", models.DraftTypeSnake, 1, 1, draftOrder[0]},
		{"snake round 2 pick 1", models.DraftTypeSnake, 2, 1, draftOrder[3]},
		{"snake round 2 pick 4", models.DraftTypeSnake, 2, 4, draftOrder[0]},
		{"snake round 3 pick 2", models.DraftTypeSnake, 3, 2, draftOrder[1]},
		{"linear round 2 pick 1", models.DraftTypeLinear, 2, 1, draftOrder[0]},
		{"linear round 5 pick 4", models.DraftTypeLinear, 5, 4, draftOrder[3]},
		{"auction round 2 pick 3", models.DraftTypeAuction, 2, 3, draftOrder[2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TeamForSlot(tt.typ, draftOrder, tt.round, tt.pick)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTeamForSlotErrors(t *testing.T) {
	_, err := TeamForSlot(models.DraftTypeSnake, nil, 1, 1)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = TeamForSlot(models.DraftTypeSnake, teams(3), 1, 4)
	assert.ErrorIs(t, err, ErrSlotOutOfRange)

	_, err = TeamForSlot(models.DraftTypeSnake, teams(3), 0, 1)
	assert.ErrorIs(t, err, ErrSlotOutOfRange)

	_, err = TeamForSlot(models.DraftType("ROOKIE"), teams(3), 1, 1)
	assert.Error(t, err)
}

func TestSlotForOverallRoundTrip(t *testing.T) {
	for n := 1; n <= 14; n++ {
		for overall := 1; overall <= n*20; overall++ {
			round, pick := SlotForOverall(n, overall)
			assert.Equal(t, overall, OverallPick(n, round, pick), fmt.Sprintf("n=%d overall=%d", n, overall))
			assert.GreaterOrEqual(t, pick, 1)
			assert.LessOrEqual(t, pick, n)
		}
	}
}

func TestNominationQueue(t *testing.T) {
	draftOrder := teams(3)
	q := NewNominationQueue(draftOrder)

	for overall := 1; overall <= 9; overall++ {
		got, err := q.NominatorFor(overall)
		require.NoError(t, err)
		assert.Equal(t, draftOrder[(overall-1)%3], got)
	}

	assert.Equal(t, []uuid.UUID{draftOrder[2], draftOrder[0], draftOrder[1]}, q.Upcoming(3, 3))

	_, err := NewNominationQueue(nil).NominatorFor(1)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}
