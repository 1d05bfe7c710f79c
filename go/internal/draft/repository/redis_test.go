package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/broadcast"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisStoreTestSuite struct {
	suite.Suite
	mini   *miniredis.Miniredis
	client *redis.Client
	store  *Redis
	ctx    context.Context
}

func (s *RedisStoreTestSuite) SetupTest() {
	var err error
	s.mini, err = miniredis.Run()
	s.Require().NoError(err)

	s.client = redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.store, err = NewRedis(&RedisConfig{RedisClient: s.client})
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *RedisStoreTestSuite) TearDownTest() {
	s.client.Close()
	s.mini.Close()
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func testPool(n int) []models.PoolPlayer {
	out := make([]models.PoolPlayer, n)
	for i := range out {
		out[i] = models.PoolPlayer{
			PlayerID:  uuid.New(),
			FullName:  fmt.Sprintf("Player %02d", i+1),
			Position:  models.PositionWR,
			Rank:      i + 1,
			ADP:       float64(i) + 1.5,
			Available: true,
		}
	}
	return out
}

func testDraft() *models.Draft {
	now := time.Date(2025, 8, 30, 19, 0, 0, 0, time.UTC)
	return &models.Draft{
		ID:                 uuid.New(),
		LeagueID:           uuid.New(),
		Type:               models.DraftTypeSnake,
		Status:             models.DraftStatusActive,
		DraftOrder:         []uuid.UUID{uuid.New(), uuid.New()},
		TotalRounds:        2,
		TimePerPickSeconds: 60,
		CurrentRound:       1,
		CurrentPickInRound: 1,
		CurrentOverallPick: 1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (s *RedisStoreTestSuite) TestNewRedisValidation() {
	_, err := NewRedis(nil)
	s.Error(err)

	_, err = NewRedis(&RedisConfig{})
	s.Error(err)

	dead := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer dead.Close()
	_, err = NewRedis(&RedisConfig{RedisClient: dead})
	s.Error(err)
}

func (s *RedisStoreTestSuite) TestCreateAndGetDraft() {
	d := testDraft()
	d.CurrentTeamID = d.DraftOrder[0]
	pool := testPool(3)

	s.Require().NoError(s.store.CreateDraft(s.ctx, d, pool))

	got, err := s.store.GetDraft(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(d.ID, got.ID)
	s.Equal(d.DraftOrder, got.DraftOrder)
	s.Equal(d.CurrentTeamID, got.CurrentTeamID)
	s.True(d.CreatedAt.Equal(got.CreatedAt))

	gotPool, err := s.store.ListPool(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(pool, gotPool)

	err = s.store.CreateDraft(s.ctx, d, pool)
	s.ErrorIs(err, engine.ErrInvalidDraft)
}

// failingPipelines fails the next n pipelines (MULTI/EXEC included) before
// they reach the server.
type failingPipelines struct{ n atomic.Int32 }

func (f *failingPipelines) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *failingPipelines) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (f *failingPipelines) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if f.n.Add(-1) >= 0 {
			return errors.New("connection reset")
		}
		return next(ctx, cmds)
	}
}

func (s *RedisStoreTestSuite) TestCreateDraftIsAtomic() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	defer client.Close()
	hook := &failingPipelines{}
	client.AddHook(hook)
	store, err := NewRedis(&RedisConfig{RedisClient: client})
	s.Require().NoError(err)

	d := testDraft()
	pool := testPool(3)
	hook.n.Store(1)
	s.Require().Error(store.CreateDraft(s.ctx, d, pool))
	s.False(s.mini.Exists(store.draftKey(d.ID)), "no draft without its pool")
	s.False(s.mini.Exists(store.draftKey(d.ID) + poolKeySuffix))

	s.Require().NoError(store.CreateDraft(s.ctx, d, pool))
	gotPool, err := store.ListPool(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(pool, gotPool)
	ids, err := store.ListDraftIDsByStatus(s.ctx, d.Status)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{d.ID}, ids)
}

func (s *RedisStoreTestSuite) TestGetDraftNotFound() {
	_, err := s.store.GetDraft(s.ctx, uuid.New())
	s.ErrorIs(err, engine.ErrDraftNotFound)

	err = s.store.SaveDraft(s.ctx, testDraft(), nil)
	s.ErrorIs(err, engine.ErrDraftNotFound)
}

func (s *RedisStoreTestSuite) TestSaveDraftMovesStatusIndex() {
	d := testDraft()
	d.Status = models.DraftStatusWaiting
	s.Require().NoError(s.store.CreateDraft(s.ctx, d, nil))

	ids, err := s.store.ListDraftIDsByStatus(s.ctx, models.DraftStatusWaiting)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{d.ID}, ids)

	d.Status = models.DraftStatusActive
	d.LastSequence = 1
	ev, err := events.New(d.ID, 1, events.EventTypeDraftStarted, d.UpdatedAt, events.DraftStartedPayload{})
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveDraft(s.ctx, d, []events.DraftEvent{ev}))

	ids, err = s.store.ListDraftIDsByStatus(s.ctx, models.DraftStatusWaiting)
	s.Require().NoError(err)
	s.Empty(ids)
	ids, err = s.store.ListDraftIDsByStatus(s.ctx, models.DraftStatusWaiting, models.DraftStatusActive)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{d.ID}, ids)

	outbox, err := s.store.Outbox(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Require().Len(outbox, 1)
	s.Equal(ev.ID, outbox[0].ID)
	s.Equal(events.EventTypeDraftStarted, outbox[0].Type)
}

func (s *RedisStoreTestSuite) TestCommitPick() {
	d := testDraft()
	pool := testPool(3)
	s.Require().NoError(s.store.CreateDraft(s.ctx, d, pool))

	pick := models.DraftPick{
		ID:          uuid.New(),
		DraftID:     d.ID,
		Round:       1,
		PickInRound: 1,
		OverallPick: 1,
		TeamID:      d.DraftOrder[0],
		PlayerID:    pool[0].PlayerID,
		CommittedAt: d.UpdatedAt,
	}
	next := d.Clone()
	next.CurrentPickInRound, next.CurrentOverallPick = 2, 2
	next.LastSequence = 1
	ev, err := events.New(d.ID, 1, events.EventTypePickMade, d.UpdatedAt, events.PickMadePayload{})
	s.Require().NoError(err)

	s.Require().NoError(s.store.CommitPick(s.ctx, next, pick, []events.DraftEvent{ev}))

	got, err := s.store.GetDraft(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(2, got.CurrentOverallPick)
	s.Equal(uint64(1), got.LastSequence)

	picks, err := s.store.ListPicks(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Require().Len(picks, 1)
	s.Equal(pool[0].PlayerID, picks[0].PlayerID)

	gotPool, err := s.store.ListPool(s.ctx, d.ID)
	s.Require().NoError(err)
	s.False(gotPool[0].Available)
	s.True(gotPool[1].Available)

	// Same overall pick again loses the CAS.
	err = s.store.CommitPick(s.ctx, next, pick, nil)
	s.ErrorIs(err, engine.ErrPickAlreadyMade)

	// Already drafted player at the right cursor.
	taken := pick
	taken.ID, taken.OverallPick, taken.PickInRound = uuid.New(), 2, 2
	after := next.Clone()
	after.CurrentOverallPick = 3
	err = s.store.CommitPick(s.ctx, after, taken, nil)
	s.ErrorIs(err, engine.ErrPlayerUnavailable)

	unknown := taken
	unknown.PlayerID = uuid.New()
	err = s.store.CommitPick(s.ctx, after, unknown, nil)
	s.ErrorIs(err, engine.ErrPlayerUnavailable)

	// Failed commits leave nothing behind.
	picks, err = s.store.ListPicks(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Len(picks, 1)
	outbox, err := s.store.Outbox(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Len(outbox, 1)
}

func (s *RedisStoreTestSuite) TestKeyPrefix() {
	store, err := NewRedis(&RedisConfig{RedisClient: s.client, KeyPrefix: "league42:"})
	s.Require().NoError(err)

	d := testDraft()
	s.Require().NoError(store.CreateDraft(s.ctx, d, testPool(1)))
	s.True(s.mini.Exists("league42:" + d.ID.String()))

	_, err = s.store.GetDraft(s.ctx, d.ID)
	s.ErrorIs(err, engine.ErrDraftNotFound)
}

func (s *RedisStoreTestSuite) TestEngineRestoreRoundTrip() {
	fc := clockwork.NewFakeClockAt(time.Date(2025, 8, 30, 19, 0, 0, 0, time.UTC))
	hub := broadcast.NewHub(broadcast.DefaultConfig())

	first, err := engine.NewEngine(engine.Config{Store: s.store, Broadcaster: hub, Clock: fc})
	s.Require().NoError(err)

	pool := testPool(6)
	order := []uuid.UUID{uuid.New(), uuid.New()}
	snap, err := first.Create(s.ctx, engine.CreateDraftRequest{
		LeagueID:           uuid.New(),
		Type:               models.DraftTypeSnake,
		TotalRounds:        2,
		TimePerPickSeconds: 90,
		DraftOrder:         order,
		Players:            pool,
	})
	s.Require().NoError(err)
	s.Require().NoError(first.Start(s.ctx, snap.DraftID))
	_, err = first.MakePick(s.ctx, engine.PickRequest{DraftID: snap.DraftID, TeamID: order[0], PlayerID: pool[0].PlayerID})
	s.Require().NoError(err)
	fc.Advance(30 * time.Second)
	first.Close()

	second, err := engine.NewEngine(engine.Config{Store: s.store, Broadcaster: hub, Clock: fc})
	s.Require().NoError(err)
	defer second.Close()

	n, err := second.Restore(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	state, err := second.GetState(s.ctx, snap.DraftID)
	s.Require().NoError(err)
	s.Equal(order[1], state.CurrentTeamID)
	s.Equal(2, state.CurrentOverallPick)
	s.Equal(60, state.RemainingSeconds)
	s.Len(state.Picks, 1)
	s.Equal(len(pool)-1, state.AvailablePlayers)

	_, err = second.MakePick(s.ctx, engine.PickRequest{DraftID: snap.DraftID, TeamID: order[1], PlayerID: pool[0].PlayerID})
	s.ErrorIs(err, engine.ErrPlayerUnavailable)
}
