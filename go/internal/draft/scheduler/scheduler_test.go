package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/broadcast"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStarter struct {
	calls atomic.Int32
	err   error
}

func (c *countingStarter) StartDue(context.Context) ([]uuid.UUID, error) {
	c.calls.Add(1)
	return nil, c.err
}

func TestNewSchedulerValidates(t *testing.T) {
	_, err := NewScheduler(nil, time.Second, 0)
	assert.Error(t, err)
	_, err = NewScheduler(&countingStarter{}, 0, 0)
	assert.Error(t, err)
}

func TestSchedulerRunsRepeatedly(t *testing.T) {
	starter := &countingStarter{err: errors.New("store down")}
	s, err := NewScheduler(starter, 20*time.Millisecond, time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	// Errors are logged and the job keeps running.
	require.Eventually(t, func() bool { return starter.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestSchedulerStartsDueDraft(t *testing.T) {
	now := time.Date(2025, 8, 30, 19, 0, 0, 0, time.UTC)
	eng, err := engine.NewEngine(engine.Config{
		Store:       engine.NewMemoryStore(),
		Broadcaster: broadcast.NewHub(broadcast.DefaultConfig()),
		Clock:       clockwork.NewFakeClockAt(now),
	})
	require.NoError(t, err)
	defer eng.Close()

	players := []models.PoolPlayer{
		{PlayerID: uuid.New(), FullName: "A", Position: models.PositionQB, Rank: 1},
		{PlayerID: uuid.New(), FullName: "B", Position: models.PositionRB, Rank: 2},
	}
	create := func(at time.Time) uuid.UUID {
		snap, err := eng.Create(context.Background(), engine.CreateDraftRequest{
			LeagueID:           uuid.New(),
			Type:               models.DraftTypeLinear,
			TotalRounds:        1,
			TimePerPickSeconds: 30,
			DraftOrder:         []uuid.UUID{uuid.New(), uuid.New()},
			Players:            players,
			ScheduledAt:        &at,
		})
		require.NoError(t, err)
		return snap.DraftID
	}
	due := create(now.Add(-time.Minute))
	later := create(now.Add(time.Hour))

	s, err := NewScheduler(eng, 20*time.Millisecond, time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		snap, err := eng.GetState(context.Background(), due)
		return err == nil && snap.Status == models.DraftStatusActive
	}, 2*time.Second, 10*time.Millisecond)

	snap, err := eng.GetState(context.Background(), later)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusWaiting, snap.Status)
}
