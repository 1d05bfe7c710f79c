package roster

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTeamsInOrder(t *testing.T) {
	dsn := os.Getenv("DRAFT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("DRAFT_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, `CREATE TEMP TABLE fantasy_teams (id uuid PRIMARY KEY, league_id uuid NOT NULL, created_at timestamptz NOT NULL)`)
	require.NoError(t, err)

	league, other := uuid.New(), uuid.New()
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	var want []uuid.UUID
	for i := 0; i < 3; i++ {
		id := uuid.New()
		want = append(want, id)
		_, err := conn.Exec(ctx, `INSERT INTO fantasy_teams (id, league_id, created_at) VALUES ($1, $2, $3)`,
			id, league, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	_, err = conn.Exec(ctx, `INSERT INTO fantasy_teams (id, league_id, created_at) VALUES ($1, $2, $3)`, uuid.New(), other, base)
	require.NoError(t, err)

	dir := NewTeamDirectory(conn)
	got, err := dir.GetTeamsInOrder(ctx, league)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = dir.GetTeamsInOrder(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, got)
}
