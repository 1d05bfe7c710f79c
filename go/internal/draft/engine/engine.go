// Package engine runs live drafts. Every draft is owned by one actor
// goroutine; all mutations of that draft go through its inbox.
package engine

//go:generate mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/autopick"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/broadcast"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/clock"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/pool"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Store is durable storage for drafts, picks and pools. Every write is all or
// nothing; events passed alongside a write are recorded in the same unit.
type Store interface {
	CreateDraft(ctx context.Context, d *models.Draft, players []models.PoolPlayer) error
	SaveDraft(ctx context.Context, d *models.Draft, evs []events.DraftEvent) error
	// CommitPick persists the advanced draft, the new pick and the claimed
	// player together. It fails if the player is taken or the overall pick
	// already exists.
	CommitPick(ctx context.Context, d *models.Draft, pick models.DraftPick, evs []events.DraftEvent) error
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	ListPool(ctx context.Context, draftID uuid.UUID) ([]models.PoolPlayer, error)
	ListDraftIDsByStatus(ctx context.Context, statuses ...models.DraftStatus) ([]uuid.UUID, error)
}

// TeamDirectory supplies the draft order for a league.
type TeamDirectory interface {
	GetTeamsInOrder(ctx context.Context, leagueID uuid.UUID) ([]uuid.UUID, error)
}

// Broadcaster fans events out to subscribers.
type Broadcaster interface {
	Publish(ev events.DraftEvent) bool
	Attach(draftID uuid.UUID, afterSeq uint64) (*broadcast.Subscriber, error)
	Detach(sub *broadcast.Subscriber)
	CloseDraft(draftID uuid.UUID)
}

// Source says who submitted a pick.
type Source string

const (
	SourceUser Source = "USER"
	SourceAuto Source = "AUTO"
)

// PickRequest is the single mutating entry point for picks.
type PickRequest struct {
	DraftID  uuid.UUID `json:"draft_id"`
	TeamID   uuid.UUID `json:"team_id"`
	PlayerID uuid.UUID `json:"player_id"`
	Source   Source    `json:"source"`
	// ExpectedOverallPick guards against committing onto a later pick than
	// the caller saw. Zero skips the check; auto-picks always set it.
	ExpectedOverallPick int `json:"expected_overall_pick,omitempty"`
}

// CreateDraftRequest describes a new draft.
type CreateDraftRequest struct {
	ID                 uuid.UUID           `json:"id,omitempty"`
	LeagueID           uuid.UUID           `json:"league_id"`
	Type               models.DraftType    `json:"type"`
	TotalRounds        int                 `json:"total_rounds"`
	TimePerPickSeconds int                 `json:"time_per_pick_seconds"`
	DraftOrder         []uuid.UUID         `json:"draft_order,omitempty"`
	Players            []models.PoolPlayer `json:"players"`
	ScheduledAt        *time.Time          `json:"scheduled_at,omitempty"`
}

// Config wires the engine's collaborators.
type Config struct {
	Store       Store
	Broadcaster Broadcaster
	Strategy    autopick.Strategy
	Teams       TeamDirectory   // optional
	Clock       clockwork.Clock // defaults to the real clock

	// TimeUpdateInterval is how often TIME_UPDATE is re-broadcast for an
	// active draft. Zero disables it.
	TimeUpdateInterval time.Duration
	InboxSize          int
	// OpTimeout bounds store and collaborator calls made by an actor.
	OpTimeout time.Duration
	// HaltRetryDelay is how long a failed auto-pick halt waits to retry.
	HaltRetryDelay time.Duration
}

// DefaultConfig returns defaults for the tunables.
func DefaultConfig() Config {
	return Config{
		TimeUpdateInterval: 5 * time.Second,
		InboxSize:          64,
		OpTimeout:          10 * time.Second,
		HaltRetryDelay:     5 * time.Second,
	}
}

// Engine is the registry of live drafts keyed by draft id.
type Engine struct {
	cfg   Config
	clock *clock.TurnClock

	mu     sync.Mutex
	actors map[uuid.UUID]*draftActor
	closed bool
}

// NewEngine validates cfg and creates an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if cfg.Broadcaster == nil {
		return nil, errors.New("broadcaster cannot be nil")
	}
	if cfg.Strategy == nil {
		cfg.Strategy = autopick.NewSelector()
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	def := DefaultConfig()
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = def.InboxSize
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = def.OpTimeout
	}
	if cfg.HaltRetryDelay <= 0 {
		cfg.HaltRetryDelay = def.HaltRetryDelay
	}
	if cfg.TimeUpdateInterval < 0 {
		cfg.TimeUpdateInterval = 0
	}

	return &Engine{
		cfg:    cfg,
		clock:  clock.New(cfg.Clock),
		actors: make(map[uuid.UUID]*draftActor),
	}, nil
}

// Create persists a new draft. It starts SCHEDULED, or WAITING when an order
// is known up front.
func (e *Engine) Create(ctx context.Context, req CreateDraftRequest) (Snapshot, error) {
	if !req.Type.Valid() {
		return Snapshot{}, fmt.Errorf("type %q: %w", req.Type, ErrInvalidDraft)
	}
	if req.TotalRounds < 1 {
		return Snapshot{}, fmt.Errorf("total rounds must be positive: %w", ErrInvalidDraft)
	}
	if req.TimePerPickSeconds < 1 {
		return Snapshot{}, fmt.Errorf("time per pick must be positive: %w", ErrInvalidDraft)
	}
	if len(req.Players) == 0 {
		return Snapshot{}, fmt.Errorf("player pool is empty: %w", ErrInvalidDraft)
	}

	draftOrder := req.DraftOrder
	if len(draftOrder) == 0 && e.cfg.Teams != nil && req.LeagueID != uuid.Nil {
		teams, err := e.cfg.Teams.GetTeamsInOrder(ctx, req.LeagueID)
		if err != nil {
			return Snapshot{}, fmt.Errorf("get teams in order: %w", err)
		}
		draftOrder = teams
	}

	now := e.clock.Now().UTC()
	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	d := &models.Draft{
		ID:                 id,
		LeagueID:           req.LeagueID,
		Type:               req.Type,
		Status:             models.DraftStatusScheduled,
		TotalRounds:        req.TotalRounds,
		TimePerPickSeconds: req.TimePerPickSeconds,
		ScheduledAt:        req.ScheduledAt,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if len(draftOrder) > 0 {
		if err := validateOrder(draftOrder); err != nil {
			return Snapshot{}, err
		}
		d.DraftOrder = append([]uuid.UUID(nil), draftOrder...)
		d.Status = models.DraftStatusWaiting
	}

	players := make([]models.PoolPlayer, 0, len(req.Players))
	for _, pl := range req.Players {
		pl.Available = true
		players = append(players, pl)
	}
	if len(draftOrder) > 0 && len(players) < d.TotalPicks() {
		log.Warn().
			Str("draft_id", id.String()).
			Int("players", len(players)).
			Int("total_picks", d.TotalPicks()).
			Msg("player pool smaller than draft board")
	}

	if err := e.cfg.Store.CreateDraft(ctx, d, players); err != nil {
		return Snapshot{}, fmt.Errorf("create draft: %w", err)
	}

	a, err := e.spawn(d, nil, players)
	if err != nil {
		return Snapshot{}, err
	}

	log.Info().
		Str("draft_id", id.String()).
		Str("league_id", req.LeagueID.String()).
		Str("draft_type", string(req.Type)).
		Str("status", string(d.Status)).
		Int("teams", len(d.DraftOrder)).
		Int("rounds", d.TotalRounds).
		Msg("draft created")

	r, err := e.callActor(ctx, a, command{op: opState})
	if err != nil {
		return Snapshot{}, err
	}
	return *r.snapshot, r.err
}

// SetOrder fixes the draft order and moves the draft to WAITING.
func (e *Engine) SetOrder(ctx context.Context, draftID uuid.UUID, draftOrder []uuid.UUID) error {
	if err := validateOrder(draftOrder); err != nil {
		return err
	}
	r, err := e.call(ctx, draftID, command{op: opSetOrder, order: append([]uuid.UUID(nil), draftOrder...)})
	if err != nil {
		return err
	}
	return r.err
}

// Start moves a WAITING draft to ACTIVE and puts the first team on the clock.
func (e *Engine) Start(ctx context.Context, draftID uuid.UUID) error {
	r, err := e.call(ctx, draftID, command{op: opStart})
	if err != nil {
		return err
	}
	return r.err
}

// MakePick validates and commits a pick.
func (e *Engine) MakePick(ctx context.Context, req PickRequest) (models.DraftPick, error) {
	if req.Source == "" {
		req.Source = SourceUser
	}
	r, err := e.call(ctx, req.DraftID, command{op: opPick, pick: req})
	if err != nil {
		return models.DraftPick{}, err
	}
	if r.err != nil {
		return models.DraftPick{}, r.err
	}
	return *r.pick, nil
}

// Pause stops the clock and remembers the time left.
func (e *Engine) Pause(ctx context.Context, draftID uuid.UUID, reason string) error {
	r, err := e.call(ctx, draftID, command{op: opPause, reason: reason})
	if err != nil {
		return err
	}
	return r.err
}

// Resume re-arms the clock for the time left at pause.
func (e *Engine) Resume(ctx context.Context, draftID uuid.UUID) error {
	r, err := e.call(ctx, draftID, command{op: opResume})
	if err != nil {
		return err
	}
	return r.err
}

// Cancel aborts a draft from any non-terminal status.
func (e *Engine) Cancel(ctx context.Context, draftID uuid.UUID, reason string) error {
	r, err := e.call(ctx, draftID, command{op: opCancel, reason: reason})
	if err != nil {
		return err
	}
	return r.err
}

// GetState returns the current snapshot of a draft.
func (e *Engine) GetState(ctx context.Context, draftID uuid.UUID) (Snapshot, error) {
	r, err := e.call(ctx, draftID, command{op: opState})
	if err != nil {
		return Snapshot{}, err
	}
	if r.err != nil {
		return Snapshot{}, r.err
	}
	return *r.snapshot, nil
}

// Subscribe returns the current snapshot and a subscriber positioned right
// after it. Events arrive on the subscriber with no gap from the snapshot.
func (e *Engine) Subscribe(ctx context.Context, draftID uuid.UUID) (Snapshot, *broadcast.Subscriber, error) {
	r, err := e.call(ctx, draftID, command{op: opSubscribe})
	if err != nil {
		return Snapshot{}, nil, err
	}
	if r.err != nil {
		return Snapshot{}, nil, r.err
	}
	return *r.snapshot, r.sub, nil
}

// Unsubscribe detaches a subscriber returned by Subscribe.
func (e *Engine) Unsubscribe(sub *broadcast.Subscriber) {
	e.cfg.Broadcaster.Detach(sub)
}

// SearchPlayers fuzzy-searches the available players of a draft.
func (e *Engine) SearchPlayers(ctx context.Context, draftID uuid.UUID, query string, limit int) ([]models.PoolPlayer, error) {
	e.mu.Lock()
	a, ok := e.actors[draftID]
	e.mu.Unlock()
	if ok {
		return a.pool.Search(query, limit), nil
	}

	players, err := e.cfg.Store.ListPool(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("list pool: %w", err)
	}
	return pool.New(players).Search(query, limit), nil
}

// ActiveDrafts returns snapshots of every draft with a live actor.
func (e *Engine) ActiveDrafts(ctx context.Context) ([]Snapshot, error) {
	e.mu.Lock()
	ids := make([]uuid.UUID, 0, len(e.actors))
	for id := range e.actors {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	out := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := e.GetState(ctx, id)
		if err != nil {
			if errors.Is(err, ErrDraftNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// StartDue starts every WAITING draft whose scheduled time has passed. It
// returns the ids it started.
func (e *Engine) StartDue(ctx context.Context) ([]uuid.UUID, error) {
	now := e.clock.Now()
	snaps, err := e.ActiveDrafts(ctx)
	if err != nil {
		return nil, err
	}

	var started []uuid.UUID
	for _, s := range snaps {
		if s.Status != models.DraftStatusWaiting || s.ScheduledAt == nil || s.ScheduledAt.After(now) {
			continue
		}
		if err := e.Start(ctx, s.DraftID); err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			log.Error().Err(err).Str("draft_id", s.DraftID.String()).Msg("failed to start scheduled draft")
			continue
		}
		started = append(started, s.DraftID)
	}
	return started, nil
}

// Restore loads every non-terminal draft from the store and resumes it. An
// ACTIVE draft is re-armed from its persisted deadline.
func (e *Engine) Restore(ctx context.Context) (int, error) {
	ids, err := e.cfg.Store.ListDraftIDsByStatus(ctx,
		models.DraftStatusScheduled,
		models.DraftStatusWaiting,
		models.DraftStatusActive,
		models.DraftStatusPaused,
	)
	if err != nil {
		return 0, fmt.Errorf("list resumable drafts: %w", err)
	}

	restored := 0
	for _, id := range ids {
		a, _, err := e.actorFor(ctx, id)
		if err != nil {
			return restored, fmt.Errorf("restore draft %s: %w", id, err)
		}
		if a != nil {
			restored++
		}
	}

	log.Info().Int("drafts", restored).Msg("restored drafts")
	return restored, nil
}

// Close stops every actor. Persisted state is left as is so a later Restore
// picks up where this engine stopped.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	actors := make([]*draftActor, 0, len(e.actors))
	for _, a := range e.actors {
		actors = append(actors, a)
	}
	e.actors = make(map[uuid.UUID]*draftActor)
	e.mu.Unlock()

	for _, a := range actors {
		a.stop()
	}
	log.Info().Int("drafts", len(actors)).Msg("engine closed")
}

// call routes cmd to the draft's actor, loading it from the store when it is
// not live. Terminal drafts are answered from the store.
func (e *Engine) call(ctx context.Context, draftID uuid.UUID, cmd command) (result, error) {
	for attempt := 0; attempt < 2; attempt++ {
		a, d, err := e.actorFor(ctx, draftID)
		if err != nil {
			return result{}, err
		}
		if a == nil {
			return e.offline(ctx, d, cmd), nil
		}

		r, err := e.callActor(ctx, a, cmd)
		if errors.Is(err, errActorStopped) {
			// the actor finished before taking cmd; the store now has the
			// final state
			continue
		}
		return r, err
	}
	return result{}, ErrEngineClosed
}

func (e *Engine) callActor(ctx context.Context, a *draftActor, cmd command) (result, error) {
	cmd.reply = make(chan result, 1)
	select {
	case a.inbox <- cmd:
	case <-a.stopped:
		return result{}, errActorStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}

	select {
	case r := <-cmd.reply:
		return r, nil
	case <-a.stopped:
		select {
		case r := <-cmd.reply:
			return r, nil
		default:
			return result{}, errActorStopped
		}
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

// actorFor returns the live actor for a draft, spawning one for a stored
// non-terminal draft. For terminal drafts it returns the stored draft and a
// nil actor.
func (e *Engine) actorFor(ctx context.Context, draftID uuid.UUID) (*draftActor, *models.Draft, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, nil, ErrEngineClosed
	}
	if a, ok := e.actors[draftID]; ok {
		e.mu.Unlock()
		return a, nil, nil
	}
	e.mu.Unlock()

	d, err := e.cfg.Store.GetDraft(ctx, draftID)
	if err != nil {
		return nil, nil, fmt.Errorf("get draft %s: %w", draftID, err)
	}
	if d.Status.Terminal() {
		return nil, d, nil
	}

	picks, err := e.cfg.Store.ListPicks(ctx, draftID)
	if err != nil {
		return nil, nil, fmt.Errorf("list picks: %w", err)
	}
	players, err := e.cfg.Store.ListPool(ctx, draftID)
	if err != nil {
		return nil, nil, fmt.Errorf("list pool: %w", err)
	}

	a, err := e.spawn(d, picks, players)
	if err != nil {
		return nil, nil, err
	}
	return a, nil, nil
}

func (e *Engine) spawn(d *models.Draft, picks []models.DraftPick, players []models.PoolPlayer) (*draftActor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	if existing, ok := e.actors[d.ID]; ok {
		return existing, nil
	}

	a := newActor(e, d, picks, pool.New(players))
	e.actors[d.ID] = a
	go a.run()
	return a, nil
}

func (e *Engine) remove(a *draftActor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if current, ok := e.actors[a.id]; ok && current == a {
		delete(e.actors, a.id)
	}
}

// offline answers commands for drafts that are finished.
func (e *Engine) offline(ctx context.Context, d *models.Draft, cmd command) result {
	switch cmd.op {
	case opState, opSubscribe:
		picks, err := e.cfg.Store.ListPicks(ctx, d.ID)
		if err != nil {
			return result{err: fmt.Errorf("list picks: %w", err)}
		}
		players, err := e.cfg.Store.ListPool(ctx, d.ID)
		if err != nil {
			return result{err: fmt.Errorf("list pool: %w", err)}
		}
		snap := buildSnapshot(d, picks, pool.New(players).AvailableCount(), deadlineRemaining(d, e.clock.Now()))
		if cmd.op == opState {
			return result{snapshot: &snap}
		}
		sub, err := e.cfg.Broadcaster.Attach(d.ID, snap.LastSequence)
		if err != nil {
			return result{err: fmt.Errorf("attach subscriber: %w", err)}
		}
		e.cfg.Broadcaster.CloseDraft(d.ID)
		return result{snapshot: &snap, sub: sub}
	case opPick:
		return result{err: fmt.Errorf("draft is %s: %w", d.Status, ErrDraftNotActive)}
	default:
		return result{err: fmt.Errorf("draft is %s: %w", d.Status, ErrInvalidTransition)}
	}
}

func validateOrder(draftOrder []uuid.UUID) error {
	if len(draftOrder) == 0 {
		return fmt.Errorf("no teams: %w", ErrInvalidOrder)
	}
	seen := make(map[uuid.UUID]bool, len(draftOrder))
	for _, id := range draftOrder {
		if id == uuid.Nil {
			return fmt.Errorf("nil team id: %w", ErrInvalidOrder)
		}
		if seen[id] {
			return fmt.Errorf("team %s listed twice: %w", id, ErrInvalidOrder)
		}
		seen[id] = true
	}
	return nil
}
