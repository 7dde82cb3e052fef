package progression

import (
	"strings"

	"talecraft/internal/content"
	"talecraft/internal/tracks"
)

// InfluenceManager owns bounded reputation scores. Changes clamp to the
// domain range; unknown domain ids read as 0 and change as a no-op.
type InfluenceManager struct {
	ledger
	domains map[string]*tracks.InfluenceDomain
	order   []string
}

func NewInfluenceManager(domains []tracks.InfluenceDomain) *InfluenceManager {
	m := &InfluenceManager{ledger: newLedger(CategoryInfluence)}
	m.UpdateDefinitions(domains)
	return m
}

// UpdateDefinitions swaps the domain set. New domains start at their default
// score; scores for removed domains are kept but hidden until the domain
// comes back.
func (m *InfluenceManager) UpdateDefinitions(domains []tracks.InfluenceDomain) {
	m.domains = make(map[string]*tracks.InfluenceDomain, len(domains))
	m.order = m.order[:0]
	for i := range domains {
		d := domains[i]
		m.domains[strings.ToLower(d.ID)] = &d
		m.order = append(m.order, d.ID)
		if _, ok := m.scores[d.ID]; !ok {
			m.scores[d.ID] = d.Default
		}
	}
}

func (m *InfluenceManager) domain(id string) (*tracks.InfluenceDomain, bool) {
	d, ok := m.domains[strings.ToLower(id)]
	return d, ok
}

func (m *InfluenceManager) Score(id string) int {
	d, ok := m.domain(id)
	if !ok {
		return 0
	}
	return m.scores[d.ID]
}

func (m *InfluenceManager) ChangeScore(id string, delta int, reason string) bool {
	d, ok := m.domain(id)
	if !ok {
		return false
	}
	next := d.Clamp(m.scores[d.ID] + delta)
	m.scores[d.ID] = next
	m.record(d.ID, delta, next, reason)
	return true
}

// Tier returns the standing band for a domain, or "" for unknown ids.
func (m *InfluenceManager) Tier(id string) string {
	d, ok := m.domain(id)
	if !ok {
		return ""
	}
	return d.Tier(m.scores[d.ID])
}

func (m *InfluenceManager) History(id string) []ChangeRecord {
	d, ok := m.domain(id)
	if !ok {
		return nil
	}
	return m.historyFor(d.ID)
}

// View is the snapshot fragment: current score per defined domain.
func (m *InfluenceManager) View() map[string]int {
	out := make(map[string]int, len(m.order))
	for _, id := range m.order {
		out[id] = m.scores[id]
	}
	return out
}

func (m *InfluenceManager) ApplyEffects(in *content.Interaction) {
	for _, eff := range in.Effects.Influence {
		reason := eff.Note
		if reason == "" {
			reason = in.Title
		}
		m.ChangeScore(eff.Track, eff.Amount, reason)
	}
}
