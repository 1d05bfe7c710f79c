package outbox

import (
	"context"
	"errors"

	"github.com/mcdev12/dynasty-draft/go/internal/draft/outbox/worker"
	"github.com/rs/zerolog/log"
)

// LogPublisher only logs events. It stands in for a bus in development.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, event worker.OutboxEvent) error {
	log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", event.EventType).
		Str("draft_id", event.DraftID.String()).
		Uint64("sequence", event.Sequence).
		Msg("publishing event")
	return nil
}

// MultiPublisher sends every event to all of its publishers. It fails if any
// of them fails, so a retry may redeliver to the ones that succeeded; the
// JetStream message id dedupes that side.
type MultiPublisher struct {
	publishers []worker.EventPublisher
}

func NewMultiPublisher(publishers ...worker.EventPublisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

func (p *MultiPublisher) Publish(ctx context.Context, event worker.OutboxEvent) error {
	var errs []error
	for _, pub := range p.publishers {
		if err := pub.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
