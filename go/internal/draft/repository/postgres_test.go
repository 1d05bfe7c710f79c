package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftRowRoundTrip(t *testing.T) {
	d := testDraft()
	deadline := d.CreatedAt.Add(time.Minute)
	paused := 42
	d.CurrentTeamID = d.DraftOrder[1]
	d.TurnDeadline = &deadline
	d.PausedRemainingSeconds = &paused
	d.LastSequence = 17

	row, err := toDraftRow(d)
	require.NoError(t, err)
	assert.True(t, row.DraftOrder.Valid)
	assert.True(t, row.CurrentTeamID.Valid)
	assert.False(t, row.StartedAt.Valid)

	got, err := row.toModel()
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDraftRowEmptyOptionals(t *testing.T) {
	d := testDraft()
	d.DraftOrder = nil

	row, err := toDraftRow(d)
	require.NoError(t, err)
	assert.False(t, row.DraftOrder.Valid)
	assert.False(t, row.CurrentTeamID.Valid)
	assert.False(t, row.TurnDeadline.Valid)

	got, err := row.toModel()
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got.CurrentTeamID)
	assert.Nil(t, got.TurnDeadline)
	assert.Empty(t, got.DraftOrder)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestOutboxRowEvent(t *testing.T) {
	row := OutboxRow{
		ID:        uuid.New(),
		DraftID:   uuid.New(),
		Sequence:  9,
		EventType: string(events.EventTypeTimeUpdate),
		Payload:   []byte(`{"remaining_seconds":5}`),
		CreatedAt: time.Now().UTC(),
	}
	ev := row.Event()
	assert.Equal(t, row.ID, ev.ID)
	assert.Equal(t, uint64(9), ev.Sequence)
	assert.Equal(t, events.EventTypeTimeUpdate, ev.Type)
	assert.JSONEq(t, `{"remaining_seconds":5}`, string(ev.Payload))
}

// openTestDB connects to DRAFT_TEST_DATABASE_URL and applies the schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("DRAFT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("DRAFT_TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestPostgresCommitPick(t *testing.T) {
	db := openTestDB(t)
	store := NewPostgres(db)
	ctx := context.Background()

	d := testDraft()
	pool := testPool(3)
	require.NoError(t, store.CreateDraft(ctx, d, pool))

	err := store.CreateDraft(ctx, d, pool)
	assert.ErrorIs(t, err, engine.ErrInvalidDraft)

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
	next.CurrentPickInRound, next.CurrentOverallPick, next.LastSequence = 2, 2, 1
	ev, err := events.New(d.ID, 1, events.EventTypePickMade, d.UpdatedAt, events.PickMadePayload{})
	require.NoError(t, err)
	require.NoError(t, store.CommitPick(ctx, next, pick, []events.DraftEvent{ev}))

	err = store.CommitPick(ctx, next, pick, nil)
	assert.ErrorIs(t, err, engine.ErrPickAlreadyMade)

	taken := pick
	taken.ID, taken.OverallPick = uuid.New(), 2
	after := next.Clone()
	after.CurrentOverallPick = 3
	err = store.CommitPick(ctx, after, taken, nil)
	assert.ErrorIs(t, err, engine.ErrPlayerUnavailable)

	got, err := store.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentOverallPick)

	picks, err := store.ListPicks(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, picks, 1)

	gotPool, err := store.ListPool(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, gotPool, 3)
	assert.False(t, gotPool[0].Available)

	row, err := New(db).FetchOutboxByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.Sequence)
	require.NoError(t, New(db).MarkOutboxSent(ctx, ev.ID))
	_, err = New(db).FetchOutboxByID(ctx, ev.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	ids, err := store.ListDraftIDsByStatus(ctx, models.DraftStatusActive)
	require.NoError(t, err)
	assert.Contains(t, ids, d.ID)
}

func TestPostgresGetDraftNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := NewPostgres(db).GetDraft(context.Background(), uuid.New())
	assert.ErrorIs(t, err, engine.ErrDraftNotFound)
}
