package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/mcdev12/dynasty-draft/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

const draftColumns = `id, league_id, draft_type, status, draft_order, total_rounds, time_per_pick_seconds,
	current_round, current_pick_in_round, current_overall_pick, current_team_id, turn_deadline,
	paused_remaining_seconds, last_sequence, scheduled_at, started_at, completed_at, created_at, updated_at`

const insertDraft = `INSERT INTO drafts (` + draftColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

const getDraft = `SELECT ` + draftColumns + ` FROM drafts WHERE id = $1`

// updateDraft only applies when the stored cursor is still at $15, so two
// writers can never both advance the same pick. Zero skips the check.
const updateDraft = `UPDATE drafts SET
	status = $2, draft_order = $3, current_round = $4, current_pick_in_round = $5,
	current_overall_pick = $6, current_team_id = $7, turn_deadline = $8,
	paused_remaining_seconds = $9, last_sequence = $10, scheduled_at = $11,
	started_at = $12, completed_at = $13, updated_at = $14
WHERE id = $1 AND ($15 = 0 OR current_overall_pick = $15)`

const listDraftIDsByStatus = `SELECT id FROM drafts WHERE status = ANY($1) ORDER BY created_at, id`

// draftRow is the column form of models.Draft.
type draftRow struct {
	ID                     uuid.UUID
	LeagueID               uuid.UUID
	DraftType              string
	Status                 string
	DraftOrder             pqtype.NullRawMessage
	TotalRounds            int32
	TimePerPickSeconds     int32
	CurrentRound           int32
	CurrentPickInRound     int32
	CurrentOverallPick     int32
	CurrentTeamID          uuid.NullUUID
	TurnDeadline           sql.NullTime
	PausedRemainingSeconds sql.NullInt32
	LastSequence           int64
	ScheduledAt            sql.NullTime
	StartedAt              sql.NullTime
	CompletedAt            sql.NullTime
	CreatedAt              sql.NullTime
	UpdatedAt              sql.NullTime
}

func toDraftRow(d *models.Draft) (draftRow, error) {
	var draftOrder pqtype.NullRawMessage
	if len(d.DraftOrder) > 0 {
		raw, err := json.Marshal(d.DraftOrder)
		if err != nil {
			return draftRow{}, fmt.Errorf("failed to marshal draft order: %w", err)
		}
		draftOrder = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}

	var team *uuid.UUID
	if d.CurrentTeamID != uuid.Nil {
		t := d.CurrentTeamID
		team = &t
	}

	return draftRow{
		ID:                     d.ID,
		LeagueID:               d.LeagueID,
		DraftType:              string(d.Type),
		Status:                 string(d.Status),
		DraftOrder:             draftOrder,
		TotalRounds:            int32(d.TotalRounds),
		TimePerPickSeconds:     int32(d.TimePerPickSeconds),
		CurrentRound:           int32(d.CurrentRound),
		CurrentPickInRound:     int32(d.CurrentPickInRound),
		CurrentOverallPick:     int32(d.CurrentOverallPick),
		CurrentTeamID:          sqlutil.ToNullUUID(team),
		TurnDeadline:           sqlutil.ToSqlTime(d.TurnDeadline),
		PausedRemainingSeconds: sqlutil.ToSqlInt32(d.PausedRemainingSeconds),
		LastSequence:           int64(d.LastSequence),
		ScheduledAt:            sqlutil.ToSqlTime(d.ScheduledAt),
		StartedAt:              sqlutil.ToSqlTime(d.StartedAt),
		CompletedAt:            sqlutil.ToSqlTime(d.CompletedAt),
		CreatedAt:              sqlutil.ToSqlTime(&d.CreatedAt),
		UpdatedAt:              sqlutil.ToSqlTime(&d.UpdatedAt),
	}, nil
}

func (r draftRow) toModel() (*models.Draft, error) {
	d := &models.Draft{
		ID:                     r.ID,
		LeagueID:               r.LeagueID,
		Type:                   models.DraftType(r.DraftType),
		Status:                 models.DraftStatus(r.Status),
		TotalRounds:            int(r.TotalRounds),
		TimePerPickSeconds:     int(r.TimePerPickSeconds),
		CurrentRound:           int(r.CurrentRound),
		CurrentPickInRound:     int(r.CurrentPickInRound),
		CurrentOverallPick:     int(r.CurrentOverallPick),
		TurnDeadline:           sqlutil.FromSqlTime(r.TurnDeadline),
		PausedRemainingSeconds: sqlutil.FromSqlInt32(r.PausedRemainingSeconds),
		LastSequence:           uint64(r.LastSequence),
		ScheduledAt:            sqlutil.FromSqlTime(r.ScheduledAt),
		StartedAt:              sqlutil.FromSqlTime(r.StartedAt),
		CompletedAt:            sqlutil.FromSqlTime(r.CompletedAt),
	}
	if team := sqlutil.FromNullUUID(r.CurrentTeamID); team != nil {
		d.CurrentTeamID = *team
	}
	if r.CreatedAt.Valid {
		d.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		d.UpdatedAt = r.UpdatedAt.Time
	}
	if r.DraftOrder.Valid {
		if err := json.Unmarshal(r.DraftOrder.RawMessage, &d.DraftOrder); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft order: %w", err)
		}
	}
	return d, nil
}

func (q *Queries) InsertDraft(ctx context.Context, d *models.Draft) error {
	row, err := toDraftRow(d)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx, insertDraft,
		row.ID, row.LeagueID, row.DraftType, row.Status, row.DraftOrder, row.TotalRounds,
		row.TimePerPickSeconds, row.CurrentRound, row.CurrentPickInRound, row.CurrentOverallPick,
		row.CurrentTeamID, row.TurnDeadline, row.PausedRemainingSeconds, row.LastSequence,
		row.ScheduledAt, row.StartedAt, row.CompletedAt, row.CreatedAt, row.UpdatedAt,
	)
	return err
}

// UpdateDraft writes d if the stored overall pick equals expectedOverall, or
// unconditionally when it is zero. It returns the number of rows changed.
func (q *Queries) UpdateDraft(ctx context.Context, d *models.Draft, expectedOverall int) (int64, error) {
	row, err := toDraftRow(d)
	if err != nil {
		return 0, err
	}
	res, err := q.db.ExecContext(ctx, updateDraft,
		row.ID, row.Status, row.DraftOrder, row.CurrentRound, row.CurrentPickInRound,
		row.CurrentOverallPick, row.CurrentTeamID, row.TurnDeadline, row.PausedRemainingSeconds,
		row.LastSequence, row.ScheduledAt, row.StartedAt, row.CompletedAt, row.UpdatedAt,
		int32(expectedOverall),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	var r draftRow
	err := q.db.QueryRowContext(ctx, getDraft, id).Scan(
		&r.ID, &r.LeagueID, &r.DraftType, &r.Status, &r.DraftOrder, &r.TotalRounds,
		&r.TimePerPickSeconds, &r.CurrentRound, &r.CurrentPickInRound, &r.CurrentOverallPick,
		&r.CurrentTeamID, &r.TurnDeadline, &r.PausedRemainingSeconds, &r.LastSequence,
		&r.ScheduledAt, &r.StartedAt, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", id, engine.ErrDraftNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r.toModel()
}

func (q *Queries) ListDraftIDsByStatus(ctx context.Context, statuses []models.DraftStatus) ([]uuid.UUID, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	rows, err := q.db.QueryContext(ctx, listDraftIDsByStatus, pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
