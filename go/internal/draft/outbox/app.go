package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/outbox/worker"
	"github.com/rs/zerolog/log"
)

type Config struct {
	BatchSize  int32 // Max events to fetch per drain
	MaxRetries int
	RetryDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		BatchSize:  100,
		MaxRetries: 5,
		RetryDelay: 200 * time.Millisecond,
	}
}

// App relays outbox rows to a publisher and marks them sent. Events of one
// draft go out in sequence order: once an event fails, later events of that
// draft wait for the next drain. Notifications and drains never relay at the
// same time.
type App struct {
	repo      OutboxRepository
	publisher worker.EventPublisher
	metrics   MetricsCollector
	cfg       Config

	// relayMu is held from fetch to mark-sent on both paths.
	relayMu sync.Mutex

	mu        sync.Mutex
	stalled   map[uuid.UUID]struct{}
	delivered map[uuid.UUID]uint64 // highest sequence relayed per draft
	processed uint64
	lastEvent time.Time
}

// NewApp creates a new outbox App. A nil metrics collector records nothing.
func NewApp(repo OutboxRepository, publisher worker.EventPublisher, metrics MetricsCollector, cfg Config) *App {
	if metrics == nil {
		metrics = &NoOpMetricsCollector{}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &App{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		cfg:       cfg,
		stalled:   make(map[uuid.UUID]struct{}),
		delivered: make(map[uuid.UUID]uint64),
	}
}

// PublishByID relays the event a notification points at.
func (a *App) PublishByID(ctx context.Context, id uuid.UUID) error {
	a.relayMu.Lock()
	defer a.relayMu.Unlock()

	event, err := a.repo.FetchOutboxByID(ctx, id)
	if errors.Is(err, ErrAlreadySent) {
		log.Debug().Str("event_id", id.String()).Msg("outbox event already sent")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch outbox event: %w", err)
	}

	if a.isStalled(event.DraftID) {
		log.Debug().
			Str("event_id", id.String()).
			Str("draft_id", event.DraftID.String()).
			Uint64("sequence", event.Sequence).
			Msg("draft has undelivered events, leaving for drain")
		return nil
	}
	if last, ok := a.lastDelivered(event.DraftID); ok && event.Sequence > last+1 {
		log.Debug().
			Str("event_id", id.String()).
			Str("draft_id", event.DraftID.String()).
			Uint64("sequence", event.Sequence).
			Uint64("delivered", last).
			Msg("earlier event not relayed yet, leaving for drain")
		a.stall(event.DraftID)
		return nil
	}

	if err := a.relay(ctx, *event); err != nil {
		a.stall(event.DraftID)
		return err
	}
	return nil
}

// ProcessUnsentEvents drains one batch of undelivered events and returns how
// many were sent.
func (a *App) ProcessUnsentEvents(ctx context.Context) (int, error) {
	a.relayMu.Lock()
	defer a.relayMu.Unlock()

	start := time.Now()
	events, err := a.repo.FetchUnsentOutbox(ctx, a.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch unsent events: %w", err)
	}
	if pending, err := a.repo.CountUnsentOutbox(ctx); err == nil {
		a.metrics.RecordOutboxLag(int(pending))
	}

	failed := make(map[uuid.UUID]struct{})
	seen := make(map[uuid.UUID]struct{})
	processedCount := 0
	errorCount := 0

	for _, event := range events {
		seen[event.DraftID] = struct{}{}
		if _, ok := failed[event.DraftID]; ok {
			continue
		}
		if err := a.relay(ctx, event); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Str("draft_id", event.DraftID.String()).
				Str("event_type", event.EventType).
				Uint64("sequence", event.Sequence).
				Msg("failed to process event")
			failed[event.DraftID] = struct{}{}
			errorCount++
			continue
		}
		processedCount++
	}

	a.mu.Lock()
	for id := range failed {
		a.stalled[id] = struct{}{}
	}
	// A short batch means every remaining row of a clean draft was sent.
	if len(events) < int(a.cfg.BatchSize) {
		for id := range seen {
			if _, ok := failed[id]; !ok {
				delete(a.stalled, id)
			}
		}
		if len(events) == 0 {
			a.stalled = make(map[uuid.UUID]struct{})
		}
	}
	a.mu.Unlock()

	a.metrics.RecordBatchProcessed(processedCount, time.Since(start))
	if processedCount > 0 || errorCount > 0 {
		log.Info().
			Int("processed", processedCount).
			Int("errors", errorCount).
			Int("total", len(events)).
			Msg("processed unsent events batch")
	}

	return processedCount, nil
}

// Stats returns the number of relayed events and when the last one went out.
func (a *App) Stats() (uint64, time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.processed, a.lastEvent
}

// Pending returns the number of undelivered outbox rows.
func (a *App) Pending(ctx context.Context) (int64, error) {
	return a.repo.CountUnsentOutbox(ctx)
}

func (a *App) relay(ctx context.Context, event worker.OutboxEvent) error {
	start := time.Now()
	err := a.publishWithRetry(ctx, event)
	a.metrics.RecordEventProcessed(event.EventType, err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if err := a.repo.MarkOutboxSent(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to mark event as sent: %w", err)
	}

	a.mu.Lock()
	a.processed++
	a.lastEvent = time.Now()
	if event.Sequence > a.delivered[event.DraftID] {
		a.delivered[event.DraftID] = event.Sequence
	}
	a.mu.Unlock()

	log.Debug().
		Str("event_id", event.ID.String()).
		Str("draft_id", event.DraftID.String()).
		Str("event_type", event.EventType).
		Uint64("sequence", event.Sequence).
		Msg("published and marked event as sent")
	return nil
}

// publishWithRetry attempts to publish an outbox event with a linear backoff.
func (a *App) publishWithRetry(ctx context.Context, event worker.OutboxEvent) error {
	var lastErr error

	for attempt := 0; attempt <= a.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := a.cfg.RetryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := a.publisher.Publish(ctx, event)
		a.metrics.RecordPublishAttempt(event.EventType, attempt+1, err == nil)
		if err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("failed to publish, retrying")
			continue
		}

		if attempt > 0 {
			log.Info().
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("publish succeeded after retry")
		}
		return nil
	}

	return fmt.Errorf("publish failed after %d attempts: %w", a.cfg.MaxRetries+1, lastErr)
}

func (a *App) isStalled(draftID uuid.UUID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.stalled[draftID]
	return ok
}

func (a *App) stall(draftID uuid.UUID) {
	a.mu.Lock()
	a.stalled[draftID] = struct{}{}
	a.mu.Unlock()
}

func (a *App) lastDelivered(draftID uuid.UUID) (uint64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	seq, ok := a.delivered[draftID]
	return seq, ok
}
