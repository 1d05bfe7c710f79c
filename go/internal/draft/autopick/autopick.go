// Package autopick chooses a player for a team whose turn clock expired.
package autopick

//go:generate mockgen -source=autopick.go -destination=mocks/mock_autopick.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/pool"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrPoolExhausted means there was nobody left to pick. Completion should
// have been detected before this could happen.
var ErrPoolExhausted = errors.New("player pool exhausted")

// Strategy is what the engine calls when a clock expires.
type Strategy interface {
	Select(ctx context.Context, draftID, teamID uuid.UUID, players []models.PoolPlayer) (uuid.UUID, error)
}

// RosterRepository reports which starting-lineup positions a team still needs.
type RosterRepository interface {
	GetRosterNeeds(ctx context.Context, draftID, teamID uuid.UUID) ([]models.Position, error)
}

// Ranker orders available players, best first.
type Ranker interface {
	RankedAvailablePlayers(ctx context.Context, players []models.PoolPlayer) ([]uuid.UUID, error)
}

// Selector picks the best available player, preferring unmet roster needs.
type Selector struct {
	roster RosterRepository
	ranker Ranker
}

// Option configures a Selector.
type Option func(*Selector)

// WithRoster enables roster-need filtering.
func WithRoster(r RosterRepository) Option {
	return func(s *Selector) { s.roster = r }
}

// WithRanker replaces the built-in rank/ADP ordering.
func WithRanker(r Ranker) Option {
	return func(s *Selector) { s.ranker = r }
}

// NewSelector builds a Selector. With no options it falls back to the single
// best-ranked available player.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select implements Strategy.
func (s *Selector) Select(ctx context.Context, draftID, teamID uuid.UUID, players []models.PoolPlayer) (uuid.UUID, error) {
	available := make(map[uuid.UUID]models.PoolPlayer, len(players))
	for _, pl := range players {
		if pl.Available {
			available[pl.PlayerID] = pl
		}
	}
	if len(available) == 0 {
		return uuid.Nil, ErrPoolExhausted
	}

	ranked, err := s.rank(ctx, players, available)
	if err != nil {
		return uuid.Nil, err
	}
	if len(ranked) == 0 {
		return uuid.Nil, fmt.Errorf("ranker returned no available players: %w", ErrPoolExhausted)
	}

	if s.roster != nil {
		needs, err := s.roster.GetRosterNeeds(ctx, draftID, teamID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("get roster needs: %w", err)
		}
		if len(needs) > 0 {
			want := make(map[models.Position]bool, len(needs))
			for _, pos := range needs {
				want[pos] = true
			}
			for _, pl := range ranked {
				if want[pl.Position] {
					log.Debug().
						Str("draft_id", draftID.String()).
						Str("team_id", teamID.String()).
						Str("player_id", pl.PlayerID.String()).
						Str("position", string(pl.Position)).
						Msg("auto-pick filled roster need")
					return pl.PlayerID, nil
				}
			}
		}
	}

	return ranked[0].PlayerID, nil
}

func (s *Selector) rank(ctx context.Context, players []models.PoolPlayer, available map[uuid.UUID]models.PoolPlayer) ([]models.PoolPlayer, error) {
	if s.ranker == nil {
		out := make([]models.PoolPlayer, 0, len(available))
		for _, pl := range players {
			if _, ok := available[pl.PlayerID]; ok {
				out = append(out, pl)
			}
		}
		pool.SortByRank(out)
		return out, nil
	}

	ids, err := s.ranker.RankedAvailablePlayers(ctx, players)
	if err != nil {
		return nil, fmt.Errorf("rank available players: %w", err)
	}
	out := make([]models.PoolPlayer, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		pl, ok := available[id]
		if !ok || seen[id] {
			// ranker may lag behind the pool
			continue
		}
		seen[id] = true
		out = append(out, pl)
	}
	return out, nil
}
