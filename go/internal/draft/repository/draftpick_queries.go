package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
)

const insertDraftPick = `INSERT INTO draft_picks
	(id, draft_id, round, pick, overall_pick, team_id, player_id, is_auto_pick, time_used_seconds, picked_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const getDraftPicksByDraft = `SELECT id, draft_id, round, pick, overall_pick, team_id, player_id,
	is_auto_pick, time_used_seconds, picked_at
FROM draft_picks WHERE draft_id = $1 ORDER BY overall_pick`

const insertPoolPlayer = `INSERT INTO draft_pool
	(draft_id, player_id, full_name, position, rank, adp, available, ord)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (draft_id, player_id) DO NOTHING`

// claimPoolPlayer affects no rows if the player is unknown or already taken.
const claimPoolPlayer = `UPDATE draft_pool SET available = FALSE
WHERE draft_id = $1 AND player_id = $2 AND available`

const getPoolByDraft = `SELECT player_id, full_name, position, rank, adp, available
FROM draft_pool WHERE draft_id = $1 ORDER BY ord`

const insertOutbox = `INSERT INTO draft_outbox (id, draft_id, sequence, event_type, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const fetchOutboxByID = `SELECT id, draft_id, sequence, event_type, payload, created_at
FROM draft_outbox WHERE id = $1 AND sent_at IS NULL`

const fetchUnsentOutbox = `SELECT id, draft_id, sequence, event_type, payload, created_at
FROM draft_outbox WHERE sent_at IS NULL ORDER BY draft_id, sequence LIMIT $1`

const markOutboxSent = `UPDATE draft_outbox SET sent_at = NOW() WHERE id = $1`

const countUnsentOutbox = `SELECT COUNT(*) FROM draft_outbox WHERE sent_at IS NULL`

// uniqueViolation is the Postgres error code for a unique constraint.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (q *Queries) InsertDraftPick(ctx context.Context, p models.DraftPick) error {
	_, err := q.db.ExecContext(ctx, insertDraftPick,
		p.ID, p.DraftID, int32(p.Round), int32(p.PickInRound), int32(p.OverallPick),
		p.TeamID, p.PlayerID, p.IsAutoPick, int32(p.TimeUsedSeconds), p.CommittedAt,
	)
	return err
}

func (q *Queries) GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := q.db.QueryContext(ctx, getDraftPicksByDraft, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var picks []models.DraftPick
	for rows.Next() {
		var (
			p                       models.DraftPick
			round, pick, overall, t int32
		)
		if err := rows.Scan(&p.ID, &p.DraftID, &round, &pick, &overall, &p.TeamID, &p.PlayerID,
			&p.IsAutoPick, &t, &p.CommittedAt); err != nil {
			return nil, err
		}
		p.Round, p.PickInRound, p.OverallPick, p.TimeUsedSeconds = int(round), int(pick), int(overall), int(t)
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

func (q *Queries) InsertPoolPlayer(ctx context.Context, draftID uuid.UUID, ord int, pl models.PoolPlayer) error {
	_, err := q.db.ExecContext(ctx, insertPoolPlayer,
		draftID, pl.PlayerID, pl.FullName, string(pl.Position), int32(pl.Rank), pl.ADP, pl.Available, int32(ord),
	)
	return err
}

func (q *Queries) ClaimPoolPlayer(ctx context.Context, draftID, playerID uuid.UUID) (int64, error) {
	res, err := q.db.ExecContext(ctx, claimPoolPlayer, draftID, playerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) GetPoolByDraft(ctx context.Context, draftID uuid.UUID) ([]models.PoolPlayer, error) {
	rows, err := q.db.QueryContext(ctx, getPoolByDraft, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.PoolPlayer
	for rows.Next() {
		var (
			pl       models.PoolPlayer
			position string
			rank     int32
		)
		if err := rows.Scan(&pl.PlayerID, &pl.FullName, &position, &rank, &pl.ADP, &pl.Available); err != nil {
			return nil, err
		}
		pl.Position = models.Position(position)
		pl.Rank = int(rank)
		players = append(players, pl)
	}
	return players, rows.Err()
}

func (q *Queries) InsertOutbox(ctx context.Context, ev events.DraftEvent) error {
	payload := ev.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	_, err := q.db.ExecContext(ctx, insertOutbox,
		ev.ID, ev.DraftID, int64(ev.Sequence), string(ev.Type), []byte(payload), ev.Timestamp,
	)
	return err
}

// OutboxRow is an undelivered outbox entry.
type OutboxRow struct {
	ID        uuid.UUID
	DraftID   uuid.UUID
	Sequence  int64
	EventType string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// Event converts the row back into the event it was written from.
func (r OutboxRow) Event() events.DraftEvent {
	return events.DraftEvent{
		ID:        r.ID,
		DraftID:   r.DraftID,
		Sequence:  uint64(r.Sequence),
		Type:      events.EventType(r.EventType),
		Payload:   r.Payload,
		Timestamp: r.CreatedAt,
	}
}

func (q *Queries) FetchOutboxByID(ctx context.Context, id uuid.UUID) (OutboxRow, error) {
	var r OutboxRow
	var payload []byte
	err := q.db.QueryRowContext(ctx, fetchOutboxByID, id).
		Scan(&r.ID, &r.DraftID, &r.Sequence, &r.EventType, &payload, &r.CreatedAt)
	r.Payload = payload
	return r, err
}

func (q *Queries) FetchUnsentOutbox(ctx context.Context, limit int32) ([]OutboxRow, error) {
	rows, err := q.db.QueryContext(ctx, fetchUnsentOutbox, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutboxRow
	for rows.Next() {
		var r OutboxRow
		var payload []byte
		if err := rows.Scan(&r.ID, &r.DraftID, &r.Sequence, &r.EventType, &payload, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Payload = payload
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) MarkOutboxSent(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, markOutboxSent, id)
	return err
}

func (q *Queries) CountUnsentOutbox(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUnsentOutbox).Scan(&n)
	return n, err
}
