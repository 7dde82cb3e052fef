package progression

import "talecraft/internal/content"

// Applicator runs a completed interaction's effects through the three
// managers in a fixed order: influence, prestige, alignment. Effects naming
// unknown tracks are skipped by the managers' silent-false contract; the
// applicator itself never fails.
type Applicator struct {
	Influence *InfluenceManager
	Prestige  *PrestigeManager
	Alignment *AlignmentManager
}

func (a *Applicator) Apply(in *content.Interaction) {
	a.Influence.ApplyEffects(in)
	a.Prestige.ApplyEffects(in)
	a.Alignment.ApplyEffects(in)
}
