package roster

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is the part of a pgx pool or transaction the directory uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TeamDirectory reads a league's fantasy teams from Postgres.
type TeamDirectory struct {
	db Querier
}

func NewTeamDirectory(db Querier) *TeamDirectory {
	return &TeamDirectory{db: db}
}

// GetTeamsInOrder returns the league's teams in the order they joined,
// which is the default draft order.
func (d *TeamDirectory) GetTeamsInOrder(ctx context.Context, leagueID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := d.db.Query(ctx,
		`SELECT id FROM fantasy_teams WHERE league_id = $1 ORDER BY created_at ASC, id ASC`,
		leagueID)
	if err != nil {
		return nil, fmt.Errorf("query fantasy teams: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scan fantasy teams: %w", err)
	}
	return ids, nil
}
