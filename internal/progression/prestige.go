package progression

import (
	"fmt"
	"math"
	"strings"

	"talecraft/internal/content"
	"talecraft/internal/tracks"
)

// PrestigeManager owns unbounded ladder scores. Positive changes may fan
// out a single-hop counter effect into the tracks a definition names.
type PrestigeManager struct {
	ledger
	tracks map[string]*tracks.PrestigeTrack
	order  []string
}

func NewPrestigeManager(defs []tracks.PrestigeTrack) *PrestigeManager {
	m := &PrestigeManager{ledger: newLedger(CategoryPrestige)}
	m.UpdateDefinitions(defs)
	return m
}

func (m *PrestigeManager) UpdateDefinitions(defs []tracks.PrestigeTrack) {
	m.tracks = make(map[string]*tracks.PrestigeTrack, len(defs))
	m.order = m.order[:0]
	for i := range defs {
		t := defs[i]
		m.tracks[strings.ToLower(t.ID)] = &t
		m.order = append(m.order, t.ID)
		if _, ok := m.scores[t.ID]; !ok {
			m.scores[t.ID] = 0
		}
	}
}

func (m *PrestigeManager) track(id string) (*tracks.PrestigeTrack, bool) {
	t, ok := m.tracks[strings.ToLower(id)]
	return t, ok
}

func (m *PrestigeManager) Score(id string) int {
	t, ok := m.track(id)
	if !ok {
		return 0
	}
	return m.scores[t.ID]
}

func (m *PrestigeManager) ChangeScore(id string, delta int, reason string) bool {
	t, ok := m.track(id)
	if !ok {
		return false
	}
	m.apply(t, delta, reason)
	if delta > 0 && len(t.Counters) > 0 {
		m.applyCounterEffects(t, delta)
	}
	return true
}

// apply mutates one track without triggering counter effects. Counter
// application goes through here so a countered track can never fan out
// again, whatever its own counter list says.
func (m *PrestigeManager) apply(t *tracks.PrestigeTrack, delta int, reason string) {
	next := m.scores[t.ID] + delta
	m.scores[t.ID] = next
	m.record(t.ID, delta, next, reason)
}

func (m *PrestigeManager) applyCounterEffects(source *tracks.PrestigeTrack, positiveDelta int) {
	counterDelta := int(math.Floor(float64(positiveDelta) * -0.25))
	reason := fmt.Sprintf("counter effect from gaining %s prestige", source.ID)
	for _, id := range source.Counters {
		t, ok := m.track(id)
		if !ok {
			continue
		}
		m.apply(t, counterDelta, reason)
	}
}

// ApplyDecay drops every decaying track by its decay rate, floored at zero.
// Decay deltas are negative, so they never trigger counter effects.
func (m *PrestigeManager) ApplyDecay() {
	for _, id := range m.order {
		t := m.tracks[strings.ToLower(id)]
		score := m.scores[t.ID]
		if t.Decay <= 0 || score <= 0 {
			continue
		}
		drop := t.Decay
		if score < drop {
			drop = score
		}
		m.apply(t, -drop, "periodic decay")
	}
}

// Level returns the highest level at or below the current score, or nil
// below every threshold and for unknown ids.
func (m *PrestigeManager) Level(id string) *tracks.PrestigeLevel {
	t, ok := m.track(id)
	if !ok {
		return nil
	}
	return t.LevelFor(m.scores[t.ID])
}

func (m *PrestigeManager) History(id string) []ChangeRecord {
	t, ok := m.track(id)
	if !ok {
		return nil
	}
	return m.historyFor(t.ID)
}

// View is the snapshot fragment: value plus derived level id per track.
func (m *PrestigeManager) View() map[string]PrestigeStanding {
	out := make(map[string]PrestigeStanding, len(m.order))
	for _, id := range m.order {
		t := m.tracks[strings.ToLower(id)]
		standing := PrestigeStanding{Value: m.scores[t.ID]}
		if lvl := t.LevelFor(m.scores[t.ID]); lvl != nil {
			standing.Level = lvl.ID
		}
		out[t.ID] = standing
	}
	return out
}

func (m *PrestigeManager) ApplyEffects(in *content.Interaction) {
	for _, eff := range in.Effects.Prestige {
		reason := eff.Note
		if reason == "" {
			reason = in.Title
		}
		m.ChangeScore(eff.Track, eff.Amount, reason)
	}
}
