package engine

import (
	"errors"

	"github.com/mcdev12/dynasty-draft/go/internal/draft/autopick"
)

var (
	// ErrInvalidTransition means the operation is not valid in the draft's
	// current status.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotYourTurn means the team is not on the clock.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrPlayerUnavailable means the player is unknown or already drafted.
	ErrPlayerUnavailable = errors.New("player unavailable")
	// ErrPickAlreadyMade means another commit won the current pick.
	ErrPickAlreadyMade = errors.New("pick already made")
	// ErrDraftNotActive means picks are not being accepted.
	ErrDraftNotActive = errors.New("draft not active")
	// ErrPoolExhausted means auto-pick found nobody left to draft.
	ErrPoolExhausted = autopick.ErrPoolExhausted

	ErrDraftNotFound = errors.New("draft not found")
	ErrInvalidOrder  = errors.New("invalid draft order")
	ErrInvalidDraft  = errors.New("invalid draft settings")
	ErrEngineClosed  = errors.New("engine closed")
)
