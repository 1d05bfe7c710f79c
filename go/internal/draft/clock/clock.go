// Package clock owns the per-pick countdown for every live draft.
package clock

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Handle identifies one armed period. Generation increases on every arm so a
// late expiry can be recognised as stale by whoever consumes it.
type Handle struct {
	DraftID    uuid.UUID
	Generation uint64
	Deadline   time.Time
}

type entry struct {
	handle Handle
	timer  clockwork.Timer
	done   chan struct{}
}

// TurnClock holds at most one pending deadline per draft.
type TurnClock struct {
	clock clockwork.Clock

	mu     sync.Mutex
	active map[uuid.UUID]*entry
	gen    uint64
}

// New creates a TurnClock. In production pass clockwork.NewRealClock(), in
// tests a FakeClock.
func New(c clockwork.Clock) *TurnClock {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &TurnClock{
		clock:  c,
		active: make(map[uuid.UUID]*entry),
	}
}

// Now returns the current time of the underlying clock.
func (tc *TurnClock) Now() time.Time {
	return tc.clock.Now()
}

// Arm schedules onExpire to run d from now. Any handle already armed for the
// draft is cancelled first.
func (tc *TurnClock) Arm(draftID uuid.UUID, d time.Duration, onExpire func(Handle)) Handle {
	return tc.ArmAt(draftID, tc.clock.Now().Add(d), onExpire)
}

// ArmAt schedules onExpire at an absolute deadline. A deadline already in the
// past fires immediately.
func (tc *TurnClock) ArmAt(draftID uuid.UUID, deadline time.Time, onExpire func(Handle)) Handle {
	tc.mu.Lock()
	tc.gen++
	h := Handle{DraftID: draftID, Generation: tc.gen, Deadline: deadline}

	wait := deadline.Sub(tc.clock.Now())
	if wait < 0 {
		wait = 0
	}
	e := &entry{
		handle: h,
		timer:  tc.clock.NewTimer(wait),
		done:   make(chan struct{}),
	}
	if existing, ok := tc.active[draftID]; ok {
		existing.stop()
		log.Debug().Str("draft_id", draftID.String()).Uint64("generation", existing.handle.Generation).Msg("replaced existing timer")
	}
	tc.active[draftID] = e
	tc.mu.Unlock()

	go tc.wait(e, onExpire)

	log.Debug().
		Str("draft_id", draftID.String()).
		Time("deadline", deadline).
		Dur("duration", wait).
		Uint64("generation", h.Generation).
		Msg("armed turn clock")

	return h
}

func (tc *TurnClock) wait(e *entry, onExpire func(Handle)) {
	select {
	case <-e.timer.Chan():
		tc.mu.Lock()
		current, ok := tc.active[e.handle.DraftID]
		if !ok || current != e {
			// cancelled or replaced between firing and here
			tc.mu.Unlock()
			return
		}
		delete(tc.active, e.handle.DraftID)
		tc.mu.Unlock()

		log.Debug().Str("draft_id", e.handle.DraftID.String()).Uint64("generation", e.handle.Generation).Msg("turn clock expired")
		if onExpire != nil {
			onExpire(e.handle)
		}
	case <-e.done:
	}
}

// Cancel stops the pending deadline for a draft. It is a no-op when nothing
// is armed.
func (tc *TurnClock) Cancel(draftID uuid.UUID) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if e, ok := tc.active[draftID]; ok {
		e.stop()
		delete(tc.active, draftID)
		log.Debug().Str("draft_id", draftID.String()).Msg("cancelled turn clock")
	}
}

// Remaining returns the time left before the deadline, never negative.
func (tc *TurnClock) Remaining(draftID uuid.UUID) time.Duration {
	tc.mu.Lock()
	e, ok := tc.active[draftID]
	tc.mu.Unlock()
	if !ok {
		return 0
	}
	left := e.handle.Deadline.Sub(tc.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}

// RemainingSeconds is Remaining rounded up to whole seconds.
func (tc *TurnClock) RemainingSeconds(draftID uuid.UUID) int {
	return CeilSeconds(tc.Remaining(draftID))
}

// Armed returns the live handle for a draft, if any.
func (tc *TurnClock) Armed(draftID uuid.UUID) (Handle, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	e, ok := tc.active[draftID]
	if !ok {
		return Handle{}, false
	}
	return e.handle, true
}

// ActiveCount returns how many drafts currently have a deadline.
func (tc *TurnClock) ActiveCount() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.active)
}

// CeilSeconds converts a duration to whole seconds, rounding up.
func CeilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func (e *entry) stop() {
	stopAndDrainTimer(e.timer)
	close(e.done)
}

// stopAndDrainTimer stops a timer and drains its channel if it already fired.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
