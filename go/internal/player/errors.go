package player

import "errors"

// ErrNoPlayers is returned when a sport has no draftable players.
var ErrNoPlayers = errors.New("no draftable players")
