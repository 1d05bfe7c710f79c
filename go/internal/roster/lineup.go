package roster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"gopkg.in/yaml.v3"
)

// DraftRecords reads what a draft has committed so far. The engine's stores
// satisfy it.
type DraftRecords interface {
	ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	ListPool(ctx context.Context, draftID uuid.UUID) ([]models.PoolPlayer, error)
}

// ParseLineup decodes a YAML lineup template.
func ParseLineup(data []byte) (models.Lineup, error) {
	var l models.Lineup
	if err := yaml.Unmarshal(data, &l); err != nil {
		return models.Lineup{}, fmt.Errorf("decode lineup: %w", err)
	}
	if len(l.Slots) == 0 {
		return models.Lineup{}, errors.New("lineup has no slots")
	}
	for _, s := range l.Slots {
		if s.Count < 1 {
			return models.Lineup{}, fmt.Errorf("slot %q: count must be positive", s.Name)
		}
		if len(s.Eligible) == 0 {
			return models.Lineup{}, fmt.Errorf("slot %q: no eligible positions", s.Name)
		}
	}
	return l, nil
}

// LoadLineup reads a YAML lineup template from path. An empty path gives the
// default lineup.
func LoadLineup(path string) (models.Lineup, error) {
	if path == "" {
		return models.DefaultLineup(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Lineup{}, fmt.Errorf("read lineup file: %w", err)
	}
	return ParseLineup(data)
}

// LineupNeeds reports the starting slots a team has not filled yet.
type LineupNeeds struct {
	lineup  models.Lineup
	records DraftRecords
}

func NewLineupNeeds(lineup models.Lineup, records DraftRecords) *LineupNeeds {
	// Single-position slots fill before flex slots.
	slots := append([]models.LineupSlot(nil), lineup.Slots...)
	sort.SliceStable(slots, func(i, j int) bool {
		return len(slots[i].Eligible) < len(slots[j].Eligible)
	})
	return &LineupNeeds{lineup: models.Lineup{Slots: slots}, records: records}
}

// GetRosterNeeds returns the positions that could fill an open slot for the
// team, in slot order. It is empty once the lineup is full.
func (n *LineupNeeds) GetRosterNeeds(ctx context.Context, draftID, teamID uuid.UUID) ([]models.Position, error) {
	picks, err := n.records.ListPicks(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	pool, err := n.records.ListPool(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("list pool: %w", err)
	}

	positions := make(map[uuid.UUID]models.Position, len(pool))
	for _, pl := range pool {
		positions[pl.PlayerID] = pl.Position
	}
	var drafted []models.Position
	for _, p := range picks {
		if p.TeamID == teamID {
			drafted = append(drafted, positions[p.PlayerID])
		}
	}
	return openPositions(n.lineup, drafted), nil
}

func openPositions(lineup models.Lineup, drafted []models.Position) []models.Position {
	open := make([]int, len(lineup.Slots))
	for i, s := range lineup.Slots {
		open[i] = s.Count
	}
	for _, pos := range drafted {
		for i, s := range lineup.Slots {
			if open[i] > 0 && s.Accepts(pos) {
				open[i]--
				break
			}
		}
	}

	var needs []models.Position
	seen := make(map[models.Position]bool)
	for i, s := range lineup.Slots {
		if open[i] == 0 {
			continue
		}
		for _, pos := range s.Eligible {
			if !seen[pos] {
				seen[pos] = true
				needs = append(needs, pos)
			}
		}
	}
	return needs
}
