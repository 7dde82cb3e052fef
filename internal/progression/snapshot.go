package progression

import "talecraft/internal/tracks"

type PrestigeStanding struct {
	Value int    `json:"value"`
	Level string `json:"level,omitempty"`
}

type AlignmentStanding struct {
	Value int    `json:"value"`
	Zone  string `json:"zone,omitempty"`
}

// BaseState is the player state owned by collaborators outside the
// progression core.
type BaseState struct {
	Level           int             `json:"level"`
	Skills          map[string]int  `json:"skills,omitempty"`
	CompletedQuests map[string]bool `json:"completed_quests,omitempty"`
	Inventory       map[string]int  `json:"inventory,omitempty"`
}

// Snapshot is the flattened view prerequisites evaluate against. It is
// ephemeral: rebuild it after any manager mutation, never cache it across
// changes.
type Snapshot struct {
	Level           int                          `json:"level"`
	Skills          map[string]int               `json:"skills"`
	CompletedQuests map[string]bool              `json:"completed_quests"`
	Inventory       map[string]int               `json:"inventory"`
	Influence       map[string]int               `json:"influence"`
	Prestige        map[string]PrestigeStanding  `json:"prestige"`
	Alignment       map[string]AlignmentStanding `json:"alignment"`
}

// Restore builds the three managers from definitions plus persisted
// scores. Tracks absent from the score maps start at their defaults.
func Restore(set *tracks.Set, influence, prestige, alignment map[string]int) (*InfluenceManager, *PrestigeManager, *AlignmentManager) {
	im := NewInfluenceManager(set.Influence)
	im.RestoreScores(influence)
	pm := NewPrestigeManager(set.Prestige)
	pm.RestoreScores(prestige)
	am := NewAlignmentManager(set.Alignment)
	am.RestoreScores(alignment)
	return im, pm, am
}

func BuildSnapshot(base BaseState, im *InfluenceManager, pm *PrestigeManager, am *AlignmentManager) *Snapshot {
	snap := &Snapshot{
		Level:           base.Level,
		Skills:          base.Skills,
		CompletedQuests: base.CompletedQuests,
		Inventory:       base.Inventory,
		Influence:       im.View(),
		Prestige:        pm.View(),
		Alignment:       am.View(),
	}
	if snap.Skills == nil {
		snap.Skills = map[string]int{}
	}
	if snap.CompletedQuests == nil {
		snap.CompletedQuests = map[string]bool{}
	}
	if snap.Inventory == nil {
		snap.Inventory = map[string]int{}
	}
	return snap
}
