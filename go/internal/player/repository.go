package player

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Querier is the part of a pgx pool or transaction the repository uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository loads draftable players from the players tables.
type Repository struct {
	db Querier
}

// NewRepository creates a new player repository
func NewRepository(db Querier) *Repository {
	return &Repository{db: db}
}

// Players without a ranking sort after ranked ones, by name.
const listDraftable = `
SELECT p.id, p.full_name, prof.position, r.overall_rank, COALESCE(r.adp, 0)
FROM players p
JOIN nfl_player_profiles prof ON prof.player_id = p.id
LEFT JOIN player_rankings r ON r.player_id = p.id
WHERE p.sport_id = $1
  AND prof.status = 'ACT'
  AND prof.position IN ('QB', 'RB', 'WR', 'TE', 'K', 'DST')
ORDER BY r.overall_rank ASC NULLS LAST, r.adp ASC NULLS LAST, p.full_name ASC, p.id ASC`

type playerRow struct {
	ID       uuid.UUID
	FullName string
	Position string
	Rank     *int32
	ADP      float64
}

// ListDraftable returns the active players of a sport, best first. Rank is
// the row's place in that order so it is dense and starts at 1.
func (r *Repository) ListDraftable(ctx context.Context, sport string) ([]models.PoolPlayer, error) {
	rows, err := r.db.Query(ctx, listDraftable, sport)
	if err != nil {
		return nil, fmt.Errorf("query draftable players: %w", err)
	}
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByPos[playerRow])
	if err != nil {
		return nil, fmt.Errorf("scan draftable players: %w", err)
	}
	if len(collected) == 0 {
		return nil, fmt.Errorf("sport %q: %w", sport, ErrNoPlayers)
	}

	players := toPoolPlayers(collected)
	log.Debug().Str("sport", sport).Int("players", len(players)).Msg("loaded draftable players")
	return players, nil
}

func toPoolPlayers(rows []playerRow) []models.PoolPlayer {
	out := make([]models.PoolPlayer, 0, len(rows))
	for i, row := range rows {
		adp := row.ADP
		if adp == 0 {
			adp = float64(i + 1)
		}
		out = append(out, models.PoolPlayer{
			PlayerID:  row.ID,
			FullName:  row.FullName,
			Position:  models.Position(row.Position),
			Rank:      i + 1,
			ADP:       adp,
			Available: true,
		})
	}
	return out
}
