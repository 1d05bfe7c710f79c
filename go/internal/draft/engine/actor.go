package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/broadcast"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/clock"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/order"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/pool"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ReasonAutoPickFailed is the pause reason used when auto-pick cannot pick.
const ReasonAutoPickFailed = "auto_pick_failed"

var errActorStopped = errors.New("draft actor stopped")

type opKind int

const (
	opStart opKind = iota
	opPick
	opPause
	opResume
	opCancel
	opSetOrder
	opState
	opSubscribe
)

func (o opKind) String() string {
	switch o {
	case opStart:
		return "start"
	case opPick:
		return "pick"
	case opPause:
		return "pause"
	case opResume:
		return "resume"
	case opCancel:
		return "cancel"
	case opSetOrder:
		return "set_order"
	case opState:
		return "state"
	case opSubscribe:
		return "subscribe"
	default:
		return "unknown"
	}
}

type command struct {
	op     opKind
	pick   PickRequest
	order  []uuid.UUID
	reason string
	reply  chan result
}

type result struct {
	pick     *models.DraftPick
	snapshot *Snapshot
	sub      *broadcast.Subscriber
	err      error
}

// draftActor is the single writer for one draft. Only run and the handlers
// it calls touch draft, picks, armed and haltPending.
type draftActor struct {
	id  uuid.UUID
	eng *Engine

	draft *models.Draft
	picks []models.DraftPick
	pool  *pool.Pool

	armed       clock.Handle
	haltPending bool
	needsResync bool

	inbox    chan command
	expiries chan clock.Handle
	quit     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func newActor(e *Engine, d *models.Draft, picks []models.DraftPick, p *pool.Pool) *draftActor {
	return &draftActor{
		id:       d.ID,
		eng:      e,
		draft:    d.Clone(),
		picks:    append([]models.DraftPick(nil), picks...),
		pool:     p,
		inbox:    make(chan command, e.cfg.InboxSize),
		expiries: make(chan clock.Handle, 4),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// stop ends the actor without touching persisted state and waits for it.
func (a *draftActor) stop() {
	a.stopOnce.Do(func() { close(a.quit) })
	<-a.stopped
}

func (a *draftActor) run() {
	defer close(a.stopped)
	defer a.eng.clock.Cancel(a.id)

	if a.draft.Status == models.DraftStatusActive {
		deadline := a.now().Add(a.turnDuration())
		if a.draft.TurnDeadline != nil {
			deadline = *a.draft.TurnDeadline
		}
		a.armed = a.eng.clock.ArmAt(a.id, deadline, a.onClock)
	}

	var tick <-chan time.Time
	if iv := a.eng.cfg.TimeUpdateInterval; iv > 0 {
		ticker := a.eng.cfg.Clock.NewTicker(iv)
		defer ticker.Stop()
		tick = ticker.Chan()
	}

	log.Debug().
		Str("draft_id", a.id.String()).
		Str("status", string(a.draft.Status)).
		Int("overall_pick", a.draft.CurrentOverallPick).
		Msg("draft actor started")

	for {
		select {
		case cmd := <-a.inbox:
			if a.handle(cmd) {
				a.finish()
				return
			}
		case h := <-a.expiries:
			if a.onExpire(h) {
				a.finish()
				return
			}
		case <-tick:
			a.onTick()
		case <-a.quit:
			log.Debug().Str("draft_id", a.id.String()).Msg("draft actor stopped")
			return
		}
	}
}

// finish tears the actor down after a terminal event was published.
func (a *draftActor) finish() {
	a.eng.remove(a)
	a.eng.cfg.Broadcaster.CloseDraft(a.id)
	log.Info().
		Str("draft_id", a.id.String()).
		Str("status", string(a.draft.Status)).
		Msg("draft actor finished")
}

// onClock runs on the clock's goroutine and only hands the handle over.
func (a *draftActor) onClock(h clock.Handle) {
	select {
	case a.expiries <- h:
	case <-a.stopped:
	}
}

// handle runs one command and reports whether the draft is now terminal.
func (a *draftActor) handle(cmd command) bool {
	var (
		r        result
		terminal bool
	)

	if a.needsResync && cmd.op != opState {
		if err := a.resync(); err != nil {
			r.err = fmt.Errorf("reload draft: %w", err)
			log.Warn().Err(err).Str("draft_id", a.id.String()).Str("op", cmd.op.String()).Msg("command rejected while draft is out of sync")
			if cmd.reply != nil {
				cmd.reply <- r
			}
			return false
		}
	}

	switch cmd.op {
	case opStart:
		r.err = a.start()
	case opPick:
		var pick models.DraftPick
		pick, terminal, r.err = a.makePick(cmd.pick)
		if r.err == nil {
			r.pick = &pick
		}
	case opPause:
		r.err = a.pause(cmd.reason)
	case opResume:
		r.err = a.resume()
	case opCancel:
		r.err = a.cancel(cmd.reason)
		terminal = r.err == nil
	case opSetOrder:
		r.err = a.setOrder(cmd.order)
	case opState:
		snap := a.snapshot()
		r.snapshot = &snap
	case opSubscribe:
		snap := a.snapshot()
		sub, err := a.eng.cfg.Broadcaster.Attach(a.id, snap.LastSequence)
		if err != nil {
			r.err = fmt.Errorf("attach subscriber: %w", err)
		} else {
			r.snapshot = &snap
			r.sub = sub
		}
	default:
		r.err = fmt.Errorf("unknown command %d", cmd.op)
	}

	if r.err != nil {
		log.Debug().Err(r.err).Str("draft_id", a.id.String()).Str("op", cmd.op.String()).Msg("command rejected")
	}
	if cmd.reply != nil {
		cmd.reply <- r
	}
	// a reload can surface a draft that finished in the store
	return terminal || a.draft.Status.Terminal()
}

func (a *draftActor) start() error {
	if a.draft.Status != models.DraftStatusWaiting {
		return fmt.Errorf("start from %s: %w", a.draft.Status, ErrInvalidTransition)
	}
	if len(a.draft.DraftOrder) == 0 {
		return fmt.Errorf("start without teams: %w", ErrInvalidOrder)
	}

	now := a.now()
	next := a.draft.Clone()
	next.Status = models.DraftStatusActive
	next.CurrentRound, next.CurrentPickInRound, next.CurrentOverallPick = 1, 1, 1
	team, err := teamFor(next, 1, 1)
	if err != nil {
		return err
	}
	next.CurrentTeamID = team
	deadline := now.Add(a.turnDuration())
	next.TurnDeadline = &deadline
	next.PausedRemainingSeconds = nil
	next.StartedAt = &now
	next.UpdatedAt = now

	draftOrder := make([]string, len(next.DraftOrder))
	for i, id := range next.DraftOrder {
		draftOrder[i] = id.String()
	}
	ev, err := a.nextEvent(next, events.EventTypeDraftStarted, now, events.DraftStartedPayload{
		DraftID:     next.ID.String(),
		DraftType:   string(next.Type),
		StartedAt:   now,
		TotalRounds: next.TotalRounds,
		TotalPicks:  next.TotalPicks(),
		DraftOrder:  draftOrder,
		Next:        onTheClock(next),
	})
	if err != nil {
		return err
	}

	if err := a.save(next, ev); err != nil {
		return err
	}
	a.draft = next
	a.armed = a.eng.clock.ArmAt(a.id, deadline, a.onClock)
	a.publish(ev)

	log.Info().
		Str("draft_id", a.id.String()).
		Str("team_id", team.String()).
		Int("teams", next.TeamCount()).
		Int("rounds", next.TotalRounds).
		Msg("draft started")
	return nil
}

// makePick validates and commits a pick. The bool reports completion.
func (a *draftActor) makePick(req PickRequest) (models.DraftPick, bool, error) {
	d := a.draft

	// a stale auto-pick is always reported as already made
	if req.Source == SourceAuto && req.ExpectedOverallPick != d.CurrentOverallPick {
		return models.DraftPick{}, false, fmt.Errorf("expected pick %d, draft at %d: %w",
			req.ExpectedOverallPick, d.CurrentOverallPick, ErrPickAlreadyMade)
	}
	if d.Status != models.DraftStatusActive {
		return models.DraftPick{}, false, fmt.Errorf("draft is %s: %w", d.Status, ErrDraftNotActive)
	}
	if req.ExpectedOverallPick != 0 && req.ExpectedOverallPick != d.CurrentOverallPick {
		return models.DraftPick{}, false, fmt.Errorf("expected pick %d, draft at %d: %w",
			req.ExpectedOverallPick, d.CurrentOverallPick, ErrPickAlreadyMade)
	}
	if req.TeamID != d.CurrentTeamID {
		return models.DraftPick{}, false, fmt.Errorf("team %s, on the clock %s: %w", req.TeamID, d.CurrentTeamID, ErrNotYourTurn)
	}
	if err := a.pool.Check(req.PlayerID); err != nil {
		return models.DraftPick{}, false, fmt.Errorf("%v: %w", err, ErrPlayerUnavailable)
	}

	now := a.now()
	used := d.TimePerPickSeconds - clock.CeilSeconds(deadlineRemaining(d, now))
	if used < 0 {
		used = 0
	}
	if used > d.TimePerPickSeconds {
		used = d.TimePerPickSeconds
	}

	pick := models.DraftPick{
		ID:              uuid.New(),
		DraftID:         d.ID,
		Round:           d.CurrentRound,
		PickInRound:     d.CurrentPickInRound,
		OverallPick:     d.CurrentOverallPick,
		TeamID:          req.TeamID,
		PlayerID:        req.PlayerID,
		IsAutoPick:      req.Source == SourceAuto,
		TimeUsedSeconds: used,
		CommittedAt:     now,
	}

	next := d.Clone()
	completed, err := a.advance(next, now)
	if err != nil {
		return models.DraftPick{}, false, err
	}

	typ := events.EventTypePickMade
	if pick.IsAutoPick {
		typ = events.EventTypeAutoPick
	}
	payload := events.PickMadePayload{
		PickID:          pick.ID.String(),
		TeamID:          pick.TeamID.String(),
		PlayerID:        pick.PlayerID.String(),
		Round:           pick.Round,
		PickInRound:     pick.PickInRound,
		OverallPick:     pick.OverallPick,
		IsAutoPick:      pick.IsAutoPick,
		TimeUsedSeconds: pick.TimeUsedSeconds,
		MadeAt:          now,
	}
	if pl, ok := a.pool.Get(req.PlayerID); ok {
		payload.PlayerName = pl.FullName
		payload.Position = string(pl.Position)
	}
	if !completed {
		payload.Next = onTheClock(next)
	}

	evs := make([]events.DraftEvent, 0, 2)
	ev, err := a.nextEvent(next, typ, now, payload)
	if err != nil {
		return models.DraftPick{}, false, err
	}
	evs = append(evs, ev)
	if completed {
		var dur time.Duration
		if next.StartedAt != nil {
			dur = now.Sub(*next.StartedAt)
		}
		ev, err := a.nextEvent(next, events.EventTypeDraftCompleted, now, events.DraftCompletedPayload{
			DraftID:     next.ID.String(),
			CompletedAt: now,
			Duration:    dur.String(),
			TotalPicks:  next.TotalPicks(),
		})
		if err != nil {
			return models.DraftPick{}, false, err
		}
		evs = append(evs, ev)
	}

	ctx, cancel := a.opContext()
	err = a.eng.cfg.Store.CommitPick(ctx, next, pick, evs)
	cancel()
	if err != nil {
		return a.recoverCommit(pick, evs, fmt.Errorf("commit pick: %w", err))
	}

	if err := a.pool.Claim(req.PlayerID); err != nil {
		log.Error().Err(err).Str("draft_id", a.id.String()).Str("player_id", req.PlayerID.String()).Msg("pool out of sync with store")
	}
	a.picks = append(a.picks, pick)
	a.draft = next
	a.haltPending = false
	if completed {
		a.eng.clock.Cancel(a.id)
		a.armed = clock.Handle{}
	} else {
		a.armed = a.eng.clock.ArmAt(a.id, *next.TurnDeadline, a.onClock)
	}
	a.publish(evs...)

	log.Info().
		Str("draft_id", a.id.String()).
		Str("team_id", pick.TeamID.String()).
		Str("player_id", pick.PlayerID.String()).
		Int("overall_pick", pick.OverallPick).
		Bool("auto", pick.IsAutoPick).
		Msg("pick committed")
	if completed {
		log.Info().Str("draft_id", a.id.String()).Int("total_picks", next.TotalPicks()).Msg("draft completed")
	}
	return pick, completed, nil
}

// recoverCommit runs after CommitPick failed. The store may still have
// committed the pick, so the actor reloads from it: when the pick is there it
// counts as made, otherwise cause is returned. Either way the clock follows
// the reloaded draft.
func (a *draftActor) recoverCommit(pick models.DraftPick, evs []events.DraftEvent, cause error) (models.DraftPick, bool, error) {
	if err := a.resync(); err != nil {
		log.Error().
			Err(err).
			Str("draft_id", a.id.String()).
			Int("overall_pick", pick.OverallPick).
			Msg("failed to reload draft after commit error")
		return models.DraftPick{}, false, cause
	}
	if !a.hasPick(pick.ID) {
		return models.DraftPick{}, a.draft.Status.Terminal(), cause
	}

	a.publish(evs...)
	log.Warn().
		Err(cause).
		Str("draft_id", a.id.String()).
		Str("team_id", pick.TeamID.String()).
		Int("overall_pick", pick.OverallPick).
		Msg("pick committed despite store error")
	return pick, a.draft.Status.Terminal(), nil
}

// resync replaces the actor's draft, picks and pool with the stored ones and
// re-arms the clock from the stored deadline. Until it succeeds every
// command first retries it.
func (a *draftActor) resync() error {
	a.needsResync = true
	ctx, cancel := a.opContext()
	defer cancel()

	d, err := a.eng.cfg.Store.GetDraft(ctx, a.id)
	if err != nil {
		return fmt.Errorf("get draft: %w", err)
	}
	picks, err := a.eng.cfg.Store.ListPicks(ctx, a.id)
	if err != nil {
		return fmt.Errorf("list picks: %w", err)
	}
	players, err := a.eng.cfg.Store.ListPool(ctx, a.id)
	if err != nil {
		return fmt.Errorf("list pool: %w", err)
	}

	a.draft = d
	a.picks = picks
	a.pool = pool.New(players)
	a.needsResync = false
	a.haltPending = false

	a.eng.clock.Cancel(a.id)
	a.armed = clock.Handle{}
	if d.Status == models.DraftStatusActive {
		deadline := a.now().Add(a.turnDuration())
		if d.TurnDeadline != nil {
			deadline = *d.TurnDeadline
		}
		a.armed = a.eng.clock.ArmAt(a.id, deadline, a.onClock)
	}

	log.Info().
		Str("draft_id", a.id.String()).
		Str("status", string(d.Status)).
		Int("overall_pick", d.CurrentOverallPick).
		Msg("draft reloaded from store")
	return nil
}

func (a *draftActor) hasPick(id uuid.UUID) bool {
	for _, p := range a.picks {
		if p.ID == id {
			return true
		}
	}
	return false
}

// advance moves d past its current pick. It reports whether that was the
// last pick of the draft.
func (a *draftActor) advance(d *models.Draft, now time.Time) (bool, error) {
	total := d.TotalPicks()
	overall := d.CurrentOverallPick + 1
	d.UpdatedAt = now

	if overall > total {
		d.Status = models.DraftStatusCompleted
		d.CurrentRound = d.TotalRounds + 1
		d.CurrentPickInRound = 1
		d.CurrentOverallPick = total + 1
		d.CurrentTeamID = uuid.Nil
		d.TurnDeadline = nil
		d.CompletedAt = &now
		return true, nil
	}

	round, pickInRound := order.SlotForOverall(d.TeamCount(), overall)
	team, err := teamFor(d, round, pickInRound)
	if err != nil {
		return false, err
	}
	d.CurrentRound = round
	d.CurrentPickInRound = pickInRound
	d.CurrentOverallPick = overall
	d.CurrentTeamID = team
	deadline := now.Add(a.turnDuration())
	d.TurnDeadline = &deadline
	return false, nil
}

func (a *draftActor) pause(reason string) error {
	if a.draft.Status != models.DraftStatusActive {
		return fmt.Errorf("pause from %s: %w", a.draft.Status, ErrInvalidTransition)
	}

	now := a.now()
	remaining := clock.CeilSeconds(deadlineRemaining(a.draft, now))
	next := a.draft.Clone()
	next.Status = models.DraftStatusPaused
	next.PausedRemainingSeconds = &remaining
	next.TurnDeadline = nil
	next.UpdatedAt = now

	ev, err := a.nextEvent(next, events.EventTypeDraftPaused, now, events.DraftPausedPayload{
		DraftID:          next.ID.String(),
		PausedAt:         now,
		Reason:           reason,
		RemainingSeconds: remaining,
	})
	if err != nil {
		return err
	}
	if err := a.save(next, ev); err != nil {
		return err
	}

	a.draft = next
	a.eng.clock.Cancel(a.id)
	a.armed = clock.Handle{}
	a.haltPending = false
	a.publish(ev)

	log.Info().
		Str("draft_id", a.id.String()).
		Str("reason", reason).
		Int("remaining_seconds", remaining).
		Msg("draft paused")
	return nil
}

func (a *draftActor) resume() error {
	if a.draft.Status != models.DraftStatusPaused {
		return fmt.Errorf("resume from %s: %w", a.draft.Status, ErrInvalidTransition)
	}

	now := a.now()
	remaining := a.turnDuration()
	if a.draft.PausedRemainingSeconds != nil {
		remaining = time.Duration(*a.draft.PausedRemainingSeconds) * time.Second
	}
	deadline := now.Add(remaining)

	next := a.draft.Clone()
	next.Status = models.DraftStatusActive
	next.TurnDeadline = &deadline
	next.PausedRemainingSeconds = nil
	next.UpdatedAt = now

	ev, err := a.nextEvent(next, events.EventTypeDraftResumed, now, events.DraftResumedPayload{
		DraftID:   next.ID.String(),
		ResumedAt: now,
		Next:      onTheClock(next),
	})
	if err != nil {
		return err
	}
	if err := a.save(next, ev); err != nil {
		return err
	}

	a.draft = next
	a.armed = a.eng.clock.ArmAt(a.id, deadline, a.onClock)
	a.publish(ev)

	log.Info().
		Str("draft_id", a.id.String()).
		Dur("remaining", remaining).
		Msg("draft resumed")
	return nil
}

func (a *draftActor) cancel(reason string) error {
	if a.draft.Status.Terminal() {
		return fmt.Errorf("cancel from %s: %w", a.draft.Status, ErrInvalidTransition)
	}

	now := a.now()
	next := a.draft.Clone()
	next.Status = models.DraftStatusCancelled
	next.TurnDeadline = nil
	next.PausedRemainingSeconds = nil
	next.UpdatedAt = now

	ev, err := a.nextEvent(next, events.EventTypeDraftCancelled, now, events.DraftCancelledPayload{
		DraftID:     next.ID.String(),
		CancelledAt: now,
		Reason:      reason,
	})
	if err != nil {
		return err
	}
	if err := a.save(next, ev); err != nil {
		return err
	}

	a.draft = next
	a.eng.clock.Cancel(a.id)
	a.armed = clock.Handle{}
	a.publish(ev)

	log.Info().Str("draft_id", a.id.String()).Str("reason", reason).Msg("draft cancelled")
	return nil
}

func (a *draftActor) setOrder(draftOrder []uuid.UUID) error {
	switch a.draft.Status {
	case models.DraftStatusScheduled, models.DraftStatusWaiting:
	default:
		return fmt.Errorf("set order while %s: %w", a.draft.Status, ErrInvalidTransition)
	}

	next := a.draft.Clone()
	next.DraftOrder = draftOrder
	next.Status = models.DraftStatusWaiting
	next.UpdatedAt = a.now()
	if err := a.save(next); err != nil {
		return err
	}
	a.draft = next

	log.Info().Str("draft_id", a.id.String()).Int("teams", len(draftOrder)).Msg("draft order set")
	return nil
}

// onExpire handles a clock expiry. The bool reports completion.
func (a *draftActor) onExpire(h clock.Handle) bool {
	if h.Generation != a.armed.Generation {
		log.Debug().
			Str("draft_id", a.id.String()).
			Uint64("generation", h.Generation).
			Uint64("armed_generation", a.armed.Generation).
			Msg("ignoring stale expiry")
		return false
	}
	a.armed = clock.Handle{}
	if a.needsResync {
		if err := a.resync(); err != nil {
			a.retryResync(err)
			return false
		}
		return a.draft.Status.Terminal()
	}
	if a.draft.Status != models.DraftStatusActive {
		return false
	}
	if a.haltPending {
		a.halt(errors.New("retrying halt"))
		return false
	}

	d := a.draft
	ctx, cancel := a.opContext()
	playerID, err := a.eng.cfg.Strategy.Select(ctx, d.ID, d.CurrentTeamID, a.pool.Snapshot())
	cancel()
	if err != nil {
		a.halt(fmt.Errorf("select player: %w", err))
		return false
	}

	_, completed, err := a.makePick(PickRequest{
		DraftID:             d.ID,
		TeamID:              d.CurrentTeamID,
		PlayerID:            playerID,
		Source:              SourceAuto,
		ExpectedOverallPick: d.CurrentOverallPick,
	})
	switch {
	case err == nil:
		return completed
	case a.needsResync:
		a.retryResync(err)
		return false
	case completed:
		return true
	case errors.Is(err, ErrPickAlreadyMade):
		// makePick already reloaded the draft and re-armed the clock
		log.Debug().Err(err).Str("draft_id", a.id.String()).Msg("auto-pick lost the race")
		return false
	default:
		a.halt(err)
		return false
	}
}

// halt pauses the draft after auto-pick failed. If even that cannot be
// persisted it is retried after HaltRetryDelay.
func (a *draftActor) halt(cause error) {
	log.Error().
		Err(cause).
		Str("draft_id", a.id.String()).
		Str("team_id", a.draft.CurrentTeamID.String()).
		Int("overall_pick", a.draft.CurrentOverallPick).
		Msg("auto-pick failed, halting draft")

	if err := a.pause(ReasonAutoPickFailed); err != nil {
		log.Error().Err(err).Str("draft_id", a.id.String()).Dur("retry_in", a.eng.cfg.HaltRetryDelay).Msg("failed to halt draft")
		a.haltPending = true
		a.armed = a.eng.clock.Arm(a.id, a.eng.cfg.HaltRetryDelay, a.onClock)
	}
}

// retryResync schedules another reload after HaltRetryDelay.
func (a *draftActor) retryResync(cause error) {
	log.Error().
		Err(cause).
		Str("draft_id", a.id.String()).
		Dur("retry_in", a.eng.cfg.HaltRetryDelay).
		Msg("draft out of sync with store")
	a.armed = a.eng.clock.Arm(a.id, a.eng.cfg.HaltRetryDelay, a.onClock)
}

func (a *draftActor) onTick() {
	d := a.draft
	if d.Status != models.DraftStatusActive || d.TurnDeadline == nil || a.haltPending || a.needsResync {
		return
	}

	now := a.now()
	next := d.Clone()
	ev, err := a.nextEvent(next, events.EventTypeTimeUpdate, now, events.TimeUpdatePayload{
		TeamID:           d.CurrentTeamID.String(),
		OverallPick:      d.CurrentOverallPick,
		TimeRemainingSec: clock.CeilSeconds(deadlineRemaining(d, now)),
		TurnDeadline:     *d.TurnDeadline,
		TickedAt:         now,
	})
	if err != nil {
		log.Warn().Err(err).Str("draft_id", a.id.String()).Msg("failed to build time update")
		return
	}
	if err := a.save(next, ev); err != nil {
		log.Warn().Err(err).Str("draft_id", a.id.String()).Msg("skipping time update")
		return
	}
	a.draft = next
	a.publish(ev)
}

func (a *draftActor) snapshot() Snapshot {
	return buildSnapshot(a.draft, a.picks, a.pool.AvailableCount(), deadlineRemaining(a.draft, a.now()))
}

// nextEvent assigns the next sequence of d to a new event.
func (a *draftActor) nextEvent(d *models.Draft, typ events.EventType, at time.Time, payload any) (events.DraftEvent, error) {
	d.LastSequence++
	ev, err := events.New(d.ID, d.LastSequence, typ, at, payload)
	if err != nil {
		return events.DraftEvent{}, fmt.Errorf("build %s event: %w", typ, err)
	}
	return ev, nil
}

func (a *draftActor) save(d *models.Draft, evs ...events.DraftEvent) error {
	ctx, cancel := a.opContext()
	defer cancel()
	if err := a.eng.cfg.Store.SaveDraft(ctx, d, evs); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (a *draftActor) publish(evs ...events.DraftEvent) {
	for _, ev := range evs {
		a.eng.cfg.Broadcaster.Publish(ev)
	}
}

func (a *draftActor) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.eng.cfg.OpTimeout)
}

func (a *draftActor) now() time.Time {
	return a.eng.clock.Now().UTC()
}

func (a *draftActor) turnDuration() time.Duration {
	return time.Duration(a.draft.TimePerPickSeconds) * time.Second
}

func teamFor(d *models.Draft, round, pickInRound int) (uuid.UUID, error) {
	team, err := order.TeamForSlot(d.Type, d.DraftOrder, round, pickInRound)
	if err != nil {
		return uuid.Nil, fmt.Errorf("team for round %d pick %d: %w", round, pickInRound, err)
	}
	return team, nil
}

func onTheClock(d *models.Draft) *events.OnTheClock {
	return &events.OnTheClock{
		TeamID:         d.CurrentTeamID.String(),
		Round:          d.CurrentRound,
		PickInRound:    d.CurrentPickInRound,
		OverallPick:    d.CurrentOverallPick,
		TurnDeadline:   d.TurnDeadline,
		TimePerPickSec: d.TimePerPickSeconds,
	}
}
