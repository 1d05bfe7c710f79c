package models

// LineupSlot is a starting lineup slot. A slot either names a single position
// or, for flex slots, a set of eligible positions.
type LineupSlot struct {
	Name     string     `yaml:"name" json:"name"`
	Eligible []Position `yaml:"eligible" json:"eligible"`
	Count    int        `yaml:"count" json:"count"`
}

// Accepts reports whether a player at position p can fill the slot.
func (s LineupSlot) Accepts(p Position) bool {
	for _, e := range s.Eligible {
		if e == p {
			return true
		}
	}
	return false
}

// Lineup is the ordered set of starting slots a team must fill.
type Lineup struct {
	Slots []LineupSlot `yaml:"slots" json:"slots"`
}

// DefaultLineup is a common redraft starting lineup.
func DefaultLineup() Lineup {
	return Lineup{Slots: []LineupSlot{
		{Name: "QB", Eligible: []Position{PositionQB}, Count: 1},
		{Name: "RB", Eligible: []Position{PositionRB}, Count: 2},
		{Name: "WR", Eligible: []Position{PositionWR}, Count: 2},
		{Name: "TE", Eligible: []Position{PositionTE}, Count: 1},
		{Name: "FLEX", Eligible: []Position{PositionRB, PositionWR, PositionTE}, Count: 1},
		{Name: "K", Eligible: []Position{PositionK}, Count: 1},
		{Name: "DST", Eligible: []Position{PositionDST}, Count: 1},
	}}
}
