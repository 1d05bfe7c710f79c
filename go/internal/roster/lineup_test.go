package roster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/autopick"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const superflex = `
slots:
  - name: QB
    eligible: [QB]
    count: 1
  - name: SUPERFLEX
    eligible: [QB, RB, WR, TE]
    count: 1
  - name: RB
    eligible: [RB]
    count: 1
`

type fakeRecords struct {
	picks []models.DraftPick
	pool  []models.PoolPlayer
	err   error
}

func (f *fakeRecords) ListPicks(context.Context, uuid.UUID) ([]models.DraftPick, error) {
	return f.picks, f.err
}

func (f *fakeRecords) ListPool(context.Context, uuid.UUID) ([]models.PoolPlayer, error) {
	return f.pool, f.err
}

func TestParseLineup(t *testing.T) {
	l, err := ParseLineup([]byte(superflex))
	require.NoError(t, err)
	require.Len(t, l.Slots, 3)
	assert.Equal(t, "SUPERFLEX", l.Slots[1].Name)
	assert.True(t, l.Slots[1].Accepts(models.PositionTE))

	_, err = ParseLineup([]byte("slots: []"))
	assert.Error(t, err)
	_, err = ParseLineup([]byte("slots:\n  - name: QB\n    eligible: [QB]\n    count: 0\n"))
	assert.Error(t, err)
	_, err = ParseLineup([]byte("slots:\n  - name: X\n    count: 1\n"))
	assert.Error(t, err)
	_, err = ParseLineup([]byte("slots: {"))
	assert.Error(t, err)
}

func TestLoadLineup(t *testing.T) {
	l, err := LoadLineup("")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultLineup(), l)

	path := filepath.Join(t.TempDir(), "lineup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(superflex), 0o600))
	l, err = LoadLineup(path)
	require.NoError(t, err)
	assert.Len(t, l.Slots, 3)

	_, err = LoadLineup(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOpenPositions(t *testing.T) {
	lineup := NewLineupNeeds(models.DefaultLineup(), nil).lineup

	tests := []struct {
		name    string
		drafted []models.Position
		want    []models.Position
	}{
		{
			name: "empty roster needs everything",
			want: []models.Position{models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE, models.PositionK, models.PositionDST},
		},
		{
			name:    "third running back fills flex",
			drafted: []models.Position{models.PositionRB, models.PositionRB, models.PositionRB},
			want:    []models.Position{models.PositionQB, models.PositionWR, models.PositionTE, models.PositionK, models.PositionDST},
		},
		{
			name:    "second quarterback fills nothing",
			drafted: []models.Position{models.PositionQB, models.PositionQB},
			want:    []models.Position{models.PositionRB, models.PositionWR, models.PositionTE, models.PositionK, models.PositionDST},
		},
		{
			name: "full lineup",
			drafted: []models.Position{
				models.PositionQB, models.PositionRB, models.PositionRB, models.PositionWR,
				models.PositionWR, models.PositionTE, models.PositionTE, models.PositionK, models.PositionDST,
			},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, openPositions(lineup, tt.drafted))
		})
	}
}

func TestGetRosterNeeds(t *testing.T) {
	draftID, team, rival := uuid.New(), uuid.New(), uuid.New()
	qb := models.PoolPlayer{PlayerID: uuid.New(), Position: models.PositionQB, Rank: 1}
	rb := models.PoolPlayer{PlayerID: uuid.New(), Position: models.PositionRB, Rank: 2}
	qb2 := models.PoolPlayer{PlayerID: uuid.New(), Position: models.PositionQB, Rank: 3, Available: true}
	rb2 := models.PoolPlayer{PlayerID: uuid.New(), Position: models.PositionRB, Rank: 4, Available: true}

	records := &fakeRecords{
		pool: []models.PoolPlayer{qb, rb, qb2, rb2},
		picks: []models.DraftPick{
			{DraftID: draftID, TeamID: team, PlayerID: qb.PlayerID},
			{DraftID: draftID, TeamID: rival, PlayerID: rb.PlayerID},
		},
	}
	lineup, err := ParseLineup([]byte(superflex))
	require.NoError(t, err)
	needs := NewLineupNeeds(lineup, records)

	got, err := needs.GetRosterNeeds(context.Background(), draftID, team)
	require.NoError(t, err)
	assert.Equal(t, []models.Position{models.PositionRB, models.PositionQB, models.PositionWR, models.PositionTE}, got)

	sel := autopick.NewSelector(autopick.WithRoster(needs))
	pick, err := sel.Select(context.Background(), draftID, team, records.pool)
	require.NoError(t, err)
	assert.Equal(t, qb2.PlayerID, pick, "superflex accepts the better-ranked QB")

	records.err = errors.New("store down")
	_, err = needs.GetRosterNeeds(context.Background(), draftID, team)
	assert.Error(t, err)
}
