package outbox

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/outbox/worker"
)

//go:generate mockgen -source=types.go -destination=mocks/mock_outbox.go -package=mocks

// ErrAlreadySent is returned when a notified row was delivered by another pass.
var ErrAlreadySent = errors.New("outbox event not found or already sent")

// OutboxRepository defines what the relay needs from the outbox table
type OutboxRepository interface {
	FetchOutboxByID(ctx context.Context, id uuid.UUID) (*worker.OutboxEvent, error)
	FetchUnsentOutbox(ctx context.Context, limit int32) ([]worker.OutboxEvent, error)
	MarkOutboxSent(ctx context.Context, id uuid.UUID) error
	CountUnsentOutbox(ctx context.Context) (int64, error)
}
