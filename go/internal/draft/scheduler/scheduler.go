package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Starter starts every WAITING draft whose scheduled time has passed.
// *engine.Engine satisfies it.
type Starter interface {
	StartDue(ctx context.Context) ([]uuid.UUID, error)
}

// Scheduler periodically starts drafts that are due.
type Scheduler struct {
	s        gocron.Scheduler
	starter  Starter
	interval time.Duration
	timeout  time.Duration
}

func NewScheduler(starter Starter, interval, timeout time.Duration) (*Scheduler, error) {
	if starter == nil {
		return nil, errors.New("starter cannot be nil")
	}
	if interval <= 0 {
		return nil, errors.New("interval must be positive")
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:        s,
		starter:  starter,
		interval: interval,
		timeout:  timeout,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.startDue),
		gocron.WithName("start-due-drafts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create start-due job: %w", err)
	}

	s.s.Start()
	log.Info().Dur("interval", s.interval).Msg("draft scheduler started")
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) startDue() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started, err := s.starter.StartDue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to start due drafts")
		return
	}
	for _, id := range started {
		log.Info().Str("draft_id", id.String()).Msg("scheduled draft started")
	}
}
