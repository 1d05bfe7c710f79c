package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/outbox/worker"
	draftdb "github.com/mcdev12/dynasty-draft/go/internal/draft/repository"
)

type Repository struct {
	queries *draftdb.Queries
}

var _ OutboxRepository = (*Repository)(nil)

func NewRepository(queries *draftdb.Queries) *Repository {
	return &Repository{
		queries: queries,
	}
}

func toOutboxEvent(row draftdb.OutboxRow) worker.OutboxEvent {
	return worker.OutboxEvent{
		ID:        row.ID,
		DraftID:   row.DraftID,
		Sequence:  uint64(row.Sequence),
		EventType: row.EventType,
		Payload:   []byte(row.Payload),
		CreatedAt: row.CreatedAt,
	}
}

func (r *Repository) FetchUnsentOutbox(ctx context.Context, limit int32) ([]worker.OutboxEvent, error) {
	rows, err := r.queries.FetchUnsentOutbox(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}

	events := make([]worker.OutboxEvent, len(rows))
	for i, row := range rows {
		events[i] = toOutboxEvent(row)
	}

	return events, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, id uuid.UUID) error {
	err := r.queries.MarkOutboxSent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return nil
}

func (r *Repository) FetchOutboxByID(ctx context.Context, id uuid.UUID) (*worker.OutboxEvent, error) {
	row, err := r.queries.FetchOutboxByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadySent
		}
		return nil, fmt.Errorf("failed to fetch outbox event by ID: %w", err)
	}

	event := toOutboxEvent(row)
	return &event, nil
}

func (r *Repository) CountUnsentOutbox(ctx context.Context) (int64, error) {
	n, err := r.queries.CountUnsentOutbox(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count unsent outbox events: %w", err)
	}
	return n, nil
}
