package progression

import (
	"strings"

	"talecraft/internal/content"
	"talecraft/internal/tracks"
)

// AlignmentManager owns unbounded spectrum scores. A score falling in a gap
// between zones legitimately derives no zone.
type AlignmentManager struct {
	ledger
	axes  map[string]*tracks.AlignmentAxis
	order []string
}

func NewAlignmentManager(axes []tracks.AlignmentAxis) *AlignmentManager {
	m := &AlignmentManager{ledger: newLedger(CategoryAlignment)}
	m.UpdateDefinitions(axes)
	return m
}

func (m *AlignmentManager) UpdateDefinitions(axes []tracks.AlignmentAxis) {
	m.axes = make(map[string]*tracks.AlignmentAxis, len(axes))
	m.order = m.order[:0]
	for i := range axes {
		a := axes[i]
		m.axes[strings.ToLower(a.ID)] = &a
		m.order = append(m.order, a.ID)
		if _, ok := m.scores[a.ID]; !ok {
			m.scores[a.ID] = 0
		}
	}
}

func (m *AlignmentManager) axis(id string) (*tracks.AlignmentAxis, bool) {
	a, ok := m.axes[strings.ToLower(id)]
	return a, ok
}

func (m *AlignmentManager) Score(id string) int {
	a, ok := m.axis(id)
	if !ok {
		return 0
	}
	return m.scores[a.ID]
}

func (m *AlignmentManager) ChangeScore(id string, delta int, reason string) bool {
	a, ok := m.axis(id)
	if !ok {
		return false
	}
	next := m.scores[a.ID] + delta
	m.scores[a.ID] = next
	m.record(a.ID, delta, next, reason)
	return true
}

// Zone returns the zone containing the current score, or nil in a gap and
// for unknown ids.
func (m *AlignmentManager) Zone(id string) *tracks.AlignmentZone {
	a, ok := m.axis(id)
	if !ok {
		return nil
	}
	return a.ZoneFor(m.scores[a.ID])
}

func (m *AlignmentManager) History(id string) []ChangeRecord {
	a, ok := m.axis(id)
	if !ok {
		return nil
	}
	return m.historyFor(a.ID)
}

// View is the snapshot fragment: value plus derived zone id per axis.
func (m *AlignmentManager) View() map[string]AlignmentStanding {
	out := make(map[string]AlignmentStanding, len(m.order))
	for _, id := range m.order {
		a := m.axes[strings.ToLower(id)]
		standing := AlignmentStanding{Value: m.scores[a.ID]}
		if z := a.ZoneFor(m.scores[a.ID]); z != nil {
			standing.Zone = z.ID
		}
		out[a.ID] = standing
	}
	return out
}

func (m *AlignmentManager) ApplyEffects(in *content.Interaction) {
	for _, eff := range in.Effects.Alignment {
		reason := eff.Note
		if reason == "" {
			reason = in.Title
		}
		m.ChangeScore(eff.Track, eff.Amount, reason)
	}
}
