package prereq

import (
	"strings"
	"testing"

	"talecraft/internal/content"
	"talecraft/internal/progression"
	"talecraft/internal/tracks"
)

func testSet(t *testing.T) *tracks.Set {
	t.Helper()
	set := &tracks.Set{
		Version: 1,
		Influence: []tracks.InfluenceDomain{
			{ID: "city_watch", Name: "City Watch", Min: 0, Max: 100, Default: 0},
		},
		Prestige: []tracks.PrestigeTrack{
			{
				ID: "renown", Name: "Renown",
				Levels: []tracks.PrestigeLevel{
					{ID: "unknown", Name: "Unknown", Threshold: 0},
					{ID: "recognized", Name: "Recognized", Threshold: 10},
					{ID: "famous", Name: "Famous", Threshold: 50},
				},
			},
		},
		Alignment: []tracks.AlignmentAxis{
			{
				ID: "morality", Name: "Morality",
				Zones: []tracks.AlignmentZone{
					{ID: "cruel", Name: "Cruel", Min: -100, Max: -20},
					{ID: "kind", Name: "Kind", Min: 20, Max: 100},
				},
			},
		},
	}
	if err := set.Prepare(); err != nil {
		t.Fatalf("preparing tracks: %v", err)
	}
	return set
}

type fixture struct {
	set       *tracks.Set
	evaluator *Evaluator
	influence *progression.InfluenceManager
	prestige  *progression.PrestigeManager
	alignment *progression.AlignmentManager
	base      progression.BaseState
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	set := testSet(t)
	return &fixture{
		set:       set,
		evaluator: New(set),
		influence: progression.NewInfluenceManager(set.Influence),
		prestige:  progression.NewPrestigeManager(set.Prestige),
		alignment: progression.NewAlignmentManager(set.Alignment),
	}
}

func (f *fixture) snapshot() *progression.Snapshot {
	return progression.BuildSnapshot(f.base, f.influence, f.prestige, f.alignment)
}

func gated(conditions ...content.Condition) *content.Interaction {
	in := &content.Interaction{
		ID:    "gate",
		Title: "Gate",
		Prerequisites: content.Prerequisites{
			Groups: []content.Group{{Conditions: conditions}},
		},
	}
	in.Normalize()
	return in
}

func TestEvaluateZeroGroups(t *testing.T) {
	f := newFixture(t)
	in := &content.Interaction{ID: "open", Title: "Open"}
	in.Normalize()

	v := f.evaluator.Evaluate(in, f.snapshot())
	if !v.Satisfied || !v.Visible {
		t.Fatalf("expected zero-group interaction satisfied, got %+v", v)
	}
	if v.Reason != "" {
		t.Fatalf("expected empty reason, got %q", v.Reason)
	}
}

func TestEvaluateGatingEndToEnd(t *testing.T) {
	f := newFixture(t)
	in := gated(content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Value: 50})

	f.influence.ChangeScore("city_watch", 49, "test")
	if v := f.evaluator.Evaluate(in, f.snapshot()); v.Satisfied {
		t.Fatalf("expected unsatisfied at 49")
	}

	f.influence.ChangeScore("city_watch", 2, "test")
	if v := f.evaluator.Evaluate(in, f.snapshot()); !v.Satisfied {
		t.Fatalf("expected satisfied at 51")
	}
}

func TestEvaluateComparators(t *testing.T) {
	f := newFixture(t)
	f.influence.ChangeScore("city_watch", 30, "test")
	snap := f.snapshot()

	cases := []struct {
		name string
		cond content.Condition
		want bool
	}{
		{"at_least pass", content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareAtLeast, Value: 30}, true},
		{"at_least fail", content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareAtLeast, Value: 31}, false},
		{"at_most pass", content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareAtMost, Value: 30}, true},
		{"at_most fail", content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareAtMost, Value: 29}, false},
		{"equals pass", content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareEquals, Value: 30}, true},
		{"equals fail", content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareEquals, Value: 29}, false},
		{"between pass", content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareBetween, Value: 20, Max: 40}, true},
		{"between boundary", content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareBetween, Value: 30, Max: 30}, true},
		{"between fail", content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareBetween, Value: 31, Max: 40}, false},
		{"empty between never passes", content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareBetween, Value: 40, Max: 20}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := f.evaluator.Evaluate(gated(tc.cond), snap)
			if v.Satisfied != tc.want {
				t.Fatalf("expected satisfied=%v, got %+v", tc.want, v)
			}
		})
	}
}

func TestEvaluateGroupSemantics(t *testing.T) {
	f := newFixture(t)
	f.influence.ChangeScore("city_watch", 30, "test")
	f.prestige.ChangeScore("renown", 5, "test")
	snap := f.snapshot()

	passing := content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Value: 10}
	failing := content.Condition{Type: content.ConditionPrestige, Track: "renown", Value: 100}

	t.Run("all requires every condition", func(t *testing.T) {
		in := gated(passing, failing)
		if v := f.evaluator.Evaluate(in, snap); v.Satisfied {
			t.Fatalf("expected all-group to fail")
		}
	})

	t.Run("any requires one condition", func(t *testing.T) {
		in := &content.Interaction{
			ID:    "gate",
			Title: "Gate",
			Prerequisites: content.Prerequisites{
				Groups: []content.Group{{Operator: content.OperatorAny, Conditions: []content.Condition{failing, passing}}},
			},
		}
		in.Normalize()
		if v := f.evaluator.Evaluate(in, snap); !v.Satisfied {
			t.Fatalf("expected any-group to pass")
		}
	})

	t.Run("groups combine with AND", func(t *testing.T) {
		in := &content.Interaction{
			ID:    "gate",
			Title: "Gate",
			Prerequisites: content.Prerequisites{
				Groups: []content.Group{
					{Conditions: []content.Condition{passing}},
					{Conditions: []content.Condition{failing}},
				},
			},
		}
		in.Normalize()
		if v := f.evaluator.Evaluate(in, snap); v.Satisfied {
			t.Fatalf("expected second group to veto")
		}
	})

	t.Run("empty group passes", func(t *testing.T) {
		in := &content.Interaction{
			ID:    "gate",
			Title: "Gate",
			Prerequisites: content.Prerequisites{
				Groups: []content.Group{{Operator: content.OperatorAny}},
			},
		}
		in.Normalize()
		if v := f.evaluator.Evaluate(in, snap); !v.Satisfied {
			t.Fatalf("expected empty group to pass")
		}
	})
}

func TestEvaluatePrestigeLevels(t *testing.T) {
	f := newFixture(t)
	f.prestige.ChangeScore("renown", 15, "test")
	snap := f.snapshot()

	t.Run("rank comparison", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionPrestige, Track: "renown", Level: "recognized"})
		if v := f.evaluator.Evaluate(in, snap); !v.Satisfied {
			t.Fatalf("expected recognized requirement met at 15")
		}
	})

	t.Run("higher level required", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionPrestige, Track: "renown", Level: "famous"})
		if v := f.evaluator.Evaluate(in, snap); v.Satisfied {
			t.Fatalf("expected famous requirement unmet at 15")
		}
	})

	t.Run("higher standing satisfies lower requirement", func(t *testing.T) {
		f := newFixture(t)
		f.prestige.ChangeScore("renown", 500, "test")
		in := gated(content.Condition{Type: content.ConditionPrestige, Track: "renown", Level: "unknown"})
		if v := f.evaluator.Evaluate(in, f.snapshot()); !v.Satisfied {
			t.Fatalf("expected famous standing to satisfy unknown requirement")
		}
	})

	t.Run("unknown level id never passes", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionPrestige, Track: "renown", Level: "mythic"})
		if v := f.evaluator.Evaluate(in, snap); v.Satisfied {
			t.Fatalf("expected unknown level id to fail")
		}
	})

	t.Run("numeric comparison", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionPrestige, Track: "renown", Value: 10})
		if v := f.evaluator.Evaluate(in, snap); !v.Satisfied {
			t.Fatalf("expected value comparison to pass")
		}
	})
}

func TestEvaluateAlignmentZones(t *testing.T) {
	f := newFixture(t)
	f.alignment.ChangeScore("morality", -30, "test")
	snap := f.snapshot()

	t.Run("zone match", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionAlignment, Track: "morality", Zone: "cruel"})
		if v := f.evaluator.Evaluate(in, snap); !v.Satisfied {
			t.Fatalf("expected cruel zone match")
		}
	})

	t.Run("zone mismatch", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionAlignment, Track: "morality", Zone: "kind"})
		if v := f.evaluator.Evaluate(in, snap); v.Satisfied {
			t.Fatalf("expected kind zone mismatch")
		}
	})

	t.Run("gap matches no zone", func(t *testing.T) {
		f := newFixture(t)
		f.alignment.ChangeScore("morality", 0, "test")
		in := gated(content.Condition{Type: content.ConditionAlignment, Track: "morality", Zone: "kind"})
		if v := f.evaluator.Evaluate(in, f.snapshot()); v.Satisfied {
			t.Fatalf("expected gap to match nothing")
		}
	})

	t.Run("numeric comparison", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionAlignment, Track: "morality", Compare: content.CompareAtMost, Value: -20})
		if v := f.evaluator.Evaluate(in, snap); !v.Satisfied {
			t.Fatalf("expected at_most -20 to pass at -30")
		}
	})
}

func TestEvaluateBaseConditions(t *testing.T) {
	f := newFixture(t)
	f.base = progression.BaseState{
		Level:           4,
		Skills:          map[string]int{"stealth": 7},
		CompletedQuests: map[string]bool{"find_the_ledger": true},
		Inventory:       map[string]int{"gold_coin": 3},
	}
	snap := f.snapshot()

	cases := []struct {
		name string
		cond content.Condition
		want bool
	}{
		{"level met", content.Condition{Type: content.ConditionLevel, Value: 4}, true},
		{"level unmet", content.Condition{Type: content.ConditionLevel, Value: 5}, false},
		{"skill met", content.Condition{Type: content.ConditionSkill, Skill: "stealth", Value: 5}, true},
		{"missing skill reads zero", content.Condition{Type: content.ConditionSkill, Skill: "smithing", Value: 1}, false},
		{"quest completed", content.Condition{Type: content.ConditionQuest, Quest: "find_the_ledger"}, true},
		{"quest missing", content.Condition{Type: content.ConditionQuest, Quest: "slay_the_wyrm"}, false},
		{"item count met", content.Condition{Type: content.ConditionItem, Item: "gold_coin", Count: 3}, true},
		{"item count unmet", content.Condition{Type: content.ConditionItem, Item: "gold_coin", Count: 4}, false},
		{"item missing", content.Condition{Type: content.ConditionItem, Item: "ruby", Count: 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := f.evaluator.Evaluate(gated(tc.cond), snap)
			if v.Satisfied != tc.want {
				t.Fatalf("expected satisfied=%v, got %+v", tc.want, v)
			}
		})
	}
}

func TestEvaluateRemovedTrackSafeDefault(t *testing.T) {
	f := newFixture(t)
	snap := f.snapshot()

	t.Run("at_least against missing track fails", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionInfluence, Track: "disbanded_guild", Value: 50})
		if v := f.evaluator.Evaluate(in, snap); v.Satisfied {
			t.Fatalf("expected missing track to read zero")
		}
	})

	t.Run("at_most against missing track passes as zero", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionInfluence, Track: "disbanded_guild", Compare: content.CompareAtMost, Value: 10})
		if v := f.evaluator.Evaluate(in, snap); !v.Satisfied {
			t.Fatalf("expected missing track to evaluate as score 0")
		}
	})

	t.Run("level requirement on missing prestige track fails", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionPrestige, Track: "ghost", Level: "famous"})
		if v := f.evaluator.Evaluate(in, snap); v.Satisfied {
			t.Fatalf("expected missing prestige track to fail level check")
		}
	})
}

func TestEvaluateReasons(t *testing.T) {
	f := newFixture(t)
	snap := f.snapshot()

	t.Run("authored message surfaces verbatim", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Value: 50})
		in.Prerequisites.ShowWhenUnavailable = true
		in.Prerequisites.UnavailableMessage = "The captain pretends not to see you."

		v := f.evaluator.Evaluate(in, snap)
		if v.Satisfied {
			t.Fatalf("expected unsatisfied")
		}
		if !v.Visible {
			t.Fatalf("expected visible with show_when_unavailable")
		}
		if v.Reason != "The captain pretends not to see you." {
			t.Fatalf("expected verbatim message, got %q", v.Reason)
		}
	})

	t.Run("generated reason names the first failing condition", func(t *testing.T) {
		in := gated(
			content.Condition{Type: content.ConditionInfluence, Track: "city_watch", Value: 50},
			content.Condition{Type: content.ConditionQuest, Quest: "find_the_ledger"},
		)

		v := f.evaluator.Evaluate(in, snap)
		if v.Satisfied || v.Visible {
			t.Fatalf("expected hidden unsatisfied verdict, got %+v", v)
		}
		if !strings.Contains(v.Reason, "city_watch") || !strings.Contains(v.Reason, "at least 50") {
			t.Fatalf("unexpected reason %q", v.Reason)
		}
	})

	t.Run("item reason counts", func(t *testing.T) {
		in := gated(content.Condition{Type: content.ConditionItem, Item: "gold_coin", Count: 50})
		v := f.evaluator.Evaluate(in, snap)
		if !strings.Contains(v.Reason, "50") || !strings.Contains(v.Reason, "gold_coin") {
			t.Fatalf("unexpected reason %q", v.Reason)
		}
	})
}
