// Package repository holds the durable engine.Store implementations.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/mcdev12/dynasty-draft/go/internal/sqlutil"
)

// Postgres is an engine.Store on database/sql with lib/pq. Outbox rows are
// written in the same transaction as the state they describe.
type Postgres struct {
	db      *sql.DB
	queries *Queries
}

var _ engine.Store = (*Postgres)(nil)

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{
		db:      db,
		queries: New(db),
	}
}

func (p *Postgres) CreateDraft(ctx context.Context, d *models.Draft, players []models.PoolPlayer) error {
	return sqlutil.Run(ctx, p.db, newTxQueries, func(q *Queries) error {
		if err := q.InsertDraft(ctx, d); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("draft %s already exists: %w", d.ID, engine.ErrInvalidDraft)
			}
			return fmt.Errorf("failed to create draft: %w", err)
		}
		for i, pl := range players {
			if err := q.InsertPoolPlayer(ctx, d.ID, i, pl); err != nil {
				return fmt.Errorf("failed to insert pool player %s: %w", pl.PlayerID, err)
			}
		}
		return nil
	})
}

func (p *Postgres) SaveDraft(ctx context.Context, d *models.Draft, evs []events.DraftEvent) error {
	return sqlutil.Run(ctx, p.db, newTxQueries, func(q *Queries) error {
		rows, err := q.UpdateDraft(ctx, d, 0)
		if err != nil {
			return fmt.Errorf("failed to update draft: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("draft %s: %w", d.ID, engine.ErrDraftNotFound)
		}
		return insertEvents(ctx, q, evs)
	})
}

// CommitPick follows the pick-then-outbox dual write: the draft cursor moves
// only from the pick being committed, the player is claimed only if still
// available and the pick row is unique per overall pick.
func (p *Postgres) CommitPick(ctx context.Context, d *models.Draft, pick models.DraftPick, evs []events.DraftEvent) error {
	return sqlutil.Run(ctx, p.db, newTxQueries, func(q *Queries) error {
		rows, err := q.UpdateDraft(ctx, d, pick.OverallPick)
		if err != nil {
			return fmt.Errorf("failed to update draft: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("draft %s moved past pick %d: %w", d.ID, pick.OverallPick, engine.ErrPickAlreadyMade)
		}

		claimed, err := q.ClaimPoolPlayer(ctx, d.ID, pick.PlayerID)
		if err != nil {
			return fmt.Errorf("failed to claim player: %w", err)
		}
		if claimed == 0 {
			return fmt.Errorf("player %s: %w", pick.PlayerID, engine.ErrPlayerUnavailable)
		}

		if err := q.InsertDraftPick(ctx, pick); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("overall pick %d: %w", pick.OverallPick, engine.ErrPickAlreadyMade)
			}
			return fmt.Errorf("failed to insert draft pick: %w", err)
		}
		return insertEvents(ctx, q, evs)
	})
}

func (p *Postgres) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := p.queries.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return d, nil
}

func (p *Postgres) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	picks, err := p.queries.GetDraftPicksByDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft picks by draft: %w", err)
	}
	return picks, nil
}

func (p *Postgres) ListPool(ctx context.Context, draftID uuid.UUID) ([]models.PoolPlayer, error) {
	players, err := p.queries.GetPoolByDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft pool: %w", err)
	}
	return players, nil
}

func (p *Postgres) ListDraftIDsByStatus(ctx context.Context, statuses ...models.DraftStatus) ([]uuid.UUID, error) {
	ids, err := p.queries.ListDraftIDsByStatus(ctx, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts by status: %w", err)
	}
	return ids, nil
}

func insertEvents(ctx context.Context, q *Queries, evs []events.DraftEvent) error {
	for _, ev := range evs {
		if err := q.InsertOutbox(ctx, ev); err != nil {
			return fmt.Errorf("failed to insert outbox %s: %w", ev.Type, err)
		}
	}
	return nil
}
