package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/events"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
)

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]*models.Draft
	picks  map[uuid.UUID][]models.DraftPick
	pools  map[uuid.UUID][]models.PoolPlayer
	outbox map[uuid.UUID][]events.DraftEvent
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[uuid.UUID]*models.Draft),
		picks:  make(map[uuid.UUID][]models.DraftPick),
		pools:  make(map[uuid.UUID][]models.PoolPlayer),
		outbox: make(map[uuid.UUID][]events.DraftEvent),
	}
}

func (m *MemoryStore) CreateDraft(ctx context.Context, d *models.Draft, players []models.PoolPlayer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drafts[d.ID]; ok {
		return fmt.Errorf("draft %s already exists: %w", d.ID, ErrInvalidDraft)
	}
	m.drafts[d.ID] = d.Clone()
	m.pools[d.ID] = append([]models.PoolPlayer(nil), players...)
	return nil
}

func (m *MemoryStore) SaveDraft(ctx context.Context, d *models.Draft, evs []events.DraftEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drafts[d.ID]; !ok {
		return fmt.Errorf("draft %s: %w", d.ID, ErrDraftNotFound)
	}
	m.drafts[d.ID] = d.Clone()
	m.outbox[d.ID] = append(m.outbox[d.ID], evs...)
	return nil
}

func (m *MemoryStore) CommitPick(ctx context.Context, d *models.Draft, pick models.DraftPick, evs []events.DraftEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.drafts[d.ID]
	if !ok {
		return fmt.Errorf("draft %s: %w", d.ID, ErrDraftNotFound)
	}
	if stored.CurrentOverallPick != pick.OverallPick {
		return fmt.Errorf("stored draft at pick %d: %w", stored.CurrentOverallPick, ErrPickAlreadyMade)
	}
	for _, p := range m.picks[d.ID] {
		if p.OverallPick == pick.OverallPick {
			return fmt.Errorf("overall pick %d exists: %w", pick.OverallPick, ErrPickAlreadyMade)
		}
	}

	players := m.pools[d.ID]
	idx := -1
	for i := range players {
		if players[i].PlayerID == pick.PlayerID {
			idx = i
			break
		}
	}
	if idx < 0 || !players[idx].Available {
		return fmt.Errorf("player %s: %w", pick.PlayerID, ErrPlayerUnavailable)
	}

	players[idx].Available = false
	m.drafts[d.ID] = d.Clone()
	m.picks[d.ID] = append(m.picks[d.ID], pick)
	m.outbox[d.ID] = append(m.outbox[d.ID], evs...)
	return nil
}

func (m *MemoryStore) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, ErrDraftNotFound)
	}
	return d.Clone(), nil
}

func (m *MemoryStore) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.DraftPick(nil), m.picks[draftID]...), nil
}

func (m *MemoryStore) ListPool(ctx context.Context, draftID uuid.UUID) ([]models.PoolPlayer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.PoolPlayer(nil), m.pools[draftID]...), nil
}

func (m *MemoryStore) ListDraftIDsByStatus(ctx context.Context, statuses ...models.DraftStatus) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := make(map[models.DraftStatus]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var ids []uuid.UUID
	for id, d := range m.drafts {
		if want[d.Status] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// Outbox returns every event recorded for a draft, in commit order.
func (m *MemoryStore) Outbox(draftID uuid.UUID) []events.DraftEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]events.DraftEvent(nil), m.outbox[draftID]...)
}
