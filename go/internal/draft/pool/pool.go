// Package pool tracks which players are still available in a draft.
package pool

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
)

var (
	ErrUnknownPlayer = errors.New("player not in pool")
	ErrUnavailable   = errors.New("player already drafted")
)

// Pool is written only by the owning draft's serialization context. Reads are
// safe from any goroutine.
type Pool struct {
	mu      sync.RWMutex
	players map[uuid.UUID]*models.PoolPlayer
	order   []uuid.UUID // insertion order, keeps snapshots stable
	left    int
}

// New builds a pool from players. Duplicate ids keep the first entry.
func New(players []models.PoolPlayer) *Pool {
	p := &Pool{players: make(map[uuid.UUID]*models.PoolPlayer, len(players))}
	for _, pl := range players {
		if _, dup := p.players[pl.PlayerID]; dup {
			continue
		}
		cp := pl
		p.players[pl.PlayerID] = &cp
		p.order = append(p.order, pl.PlayerID)
		if cp.Available {
			p.left++
		}
	}
	return p
}

// IsAvailable reports whether playerID can still be drafted.
func (p *Pool) IsAvailable(playerID uuid.UUID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pl, ok := p.players[playerID]
	return ok && pl.Available
}

// Check returns nil if playerID can be claimed, or why not.
func (p *Pool) Check(playerID uuid.UUID) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pl, ok := p.players[playerID]
	if !ok {
		return fmt.Errorf("%s: %w", playerID, ErrUnknownPlayer)
	}
	if !pl.Available {
		return fmt.Errorf("%s: %w", playerID, ErrUnavailable)
	}
	return nil
}

// Claim marks a player unavailable. A player can be claimed exactly once.
func (p *Pool) Claim(playerID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	pl, ok := p.players[playerID]
	if !ok {
		return fmt.Errorf("%s: %w", playerID, ErrUnknownPlayer)
	}
	if !pl.Available {
		return fmt.Errorf("%s: %w", playerID, ErrUnavailable)
	}
	pl.Available = false
	p.left--
	return nil
}

// Get returns a copy of the entry for playerID.
func (p *Pool) Get(playerID uuid.UUID) (models.PoolPlayer, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pl, ok := p.players[playerID]
	if !ok {
		return models.PoolPlayer{}, false
	}
	return *pl, true
}

// AvailableCount returns the number of undrafted players.
func (p *Pool) AvailableCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.left
}

// Len returns the total pool size.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.order)
}

// Snapshot returns a copy of every entry in insertion order.
func (p *Pool) Snapshot() []models.PoolPlayer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.PoolPlayer, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.players[id])
	}
	return out
}

// Available returns the undrafted players best rank first.
func (p *Pool) Available() []models.PoolPlayer {
	p.mu.RLock()
	out := make([]models.PoolPlayer, 0, p.left)
	for _, id := range p.order {
		if pl := p.players[id]; pl.Available {
			out = append(out, *pl)
		}
	}
	p.mu.RUnlock()

	SortByRank(out)
	return out
}

// Search fuzzy-matches available players by name, best rank first.
func (p *Pool) Search(query string, limit int) []models.PoolPlayer {
	var out []models.PoolPlayer
	for _, pl := range p.Available() {
		if query == "" || fuzzy.MatchNormalizedFold(query, pl.FullName) {
			out = append(out, pl)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

// SortByRank orders players by ascending rank, then ADP, then lowest id. Rank
// zero means unranked and sorts last.
func SortByRank(players []models.PoolPlayer) {
	sort.SliceStable(players, func(i, j int) bool {
		return Less(players[i], players[j])
	})
}

// Less is the deterministic best-available ordering.
func Less(a, b models.PoolPlayer) bool {
	ra, rb := rankKey(a.Rank), rankKey(b.Rank)
	if ra != rb {
		return ra < rb
	}
	if da, db := adpKey(a.ADP), adpKey(b.ADP); da != db {
		return da < db
	}
	return lessID(a.PlayerID, b.PlayerID)
}

func rankKey(r int) int {
	if r <= 0 {
		return int(^uint(0) >> 1)
	}
	return r
}

func adpKey(adp float64) float64 {
	if adp <= 0 {
		return 1e18
	}
	return adp
}

func lessID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
