package prereq

import (
	"fmt"
	"strings"

	"talecraft/internal/content"
	"talecraft/internal/progression"
	"talecraft/internal/tracks"
)

// Verdict is the availability decision for one interaction. Reason carries
// the authored unavailable message verbatim when the interaction opts in,
// otherwise a generated sentence for the first failing condition.
type Verdict struct {
	Satisfied bool   `json:"satisfied"`
	Visible   bool   `json:"visible"`
	Reason    string `json:"reason,omitempty"`
}

// Evaluator decides interaction availability against a snapshot. It never
// fails: conditions naming unknown tracks evaluate against the safe default
// (score 0, no level, no zone).
type Evaluator struct {
	Tracks *tracks.Set
}

func New(set *tracks.Set) *Evaluator {
	return &Evaluator{Tracks: set}
}

// Evaluate walks the prerequisite groups. Groups combine with AND; an
// interaction with no groups is always satisfied.
func (e *Evaluator) Evaluate(in *content.Interaction, snap *progression.Snapshot) Verdict {
	prereqs := in.Prerequisites
	if len(prereqs.Groups) == 0 {
		return Verdict{Satisfied: true, Visible: true}
	}

	for _, group := range prereqs.Groups {
		ok, failed := e.evalGroup(group, snap)
		if ok {
			continue
		}
		verdict := Verdict{Visible: prereqs.ShowWhenUnavailable}
		if prereqs.ShowWhenUnavailable && strings.TrimSpace(prereqs.UnavailableMessage) != "" {
			verdict.Reason = prereqs.UnavailableMessage
		} else if failed != nil {
			verdict.Reason = e.describe(*failed, snap)
		}
		return verdict
	}
	return Verdict{Satisfied: true, Visible: true}
}

// evalGroup reports whether a group passes and, when it does not, the
// condition to explain. A group with no conditions passes under either
// operator.
func (e *Evaluator) evalGroup(g content.Group, snap *progression.Snapshot) (bool, *content.Condition) {
	if len(g.Conditions) == 0 {
		return true, nil
	}
	if g.Operator == content.OperatorAny {
		for i := range g.Conditions {
			if e.evalCondition(g.Conditions[i], snap) {
				return true, nil
			}
		}
		return false, &g.Conditions[0]
	}
	for i := range g.Conditions {
		if !e.evalCondition(g.Conditions[i], snap) {
			return false, &g.Conditions[i]
		}
	}
	return true, nil
}

func (e *Evaluator) evalCondition(c content.Condition, snap *progression.Snapshot) bool {
	switch c.Type {
	case content.ConditionInfluence:
		return compare(e.influenceScore(c.Track, snap), c)
	case content.ConditionPrestige:
		return e.evalPrestige(c, snap)
	case content.ConditionAlignment:
		return e.evalAlignment(c, snap)
	case content.ConditionLevel:
		return compare(snap.Level, c)
	case content.ConditionSkill:
		return compare(snap.Skills[c.Skill], c)
	case content.ConditionQuest:
		return snap.CompletedQuests[c.Quest]
	case content.ConditionItem:
		return snap.Inventory[c.Item] >= c.Count
	default:
		return false
	}
}

func (e *Evaluator) influenceScore(id string, snap *progression.Snapshot) int {
	if d, ok := e.Tracks.InfluenceByID(id); ok {
		return snap.Influence[d.ID]
	}
	return 0
}

func (e *Evaluator) evalPrestige(c content.Condition, snap *progression.Snapshot) bool {
	track, ok := e.Tracks.PrestigeByID(c.Track)
	if c.Level != "" {
		if !ok {
			return false
		}
		want := track.LevelRank(c.Level)
		if want < 0 {
			return false
		}
		have := track.LevelRank(snap.Prestige[track.ID].Level)
		return have >= want
	}
	value := 0
	if ok {
		value = snap.Prestige[track.ID].Value
	}
	return compare(value, c)
}

func (e *Evaluator) evalAlignment(c content.Condition, snap *progression.Snapshot) bool {
	axis, ok := e.Tracks.AlignmentByID(c.Track)
	if c.Zone != "" {
		if !ok {
			return false
		}
		zone := snap.Alignment[axis.ID].Zone
		return zone != "" && strings.EqualFold(zone, c.Zone)
	}
	value := 0
	if ok {
		value = snap.Alignment[axis.ID].Value
	}
	return compare(value, c)
}

func compare(actual int, c content.Condition) bool {
	switch c.Compare {
	case content.CompareAtMost:
		return actual <= c.Value
	case content.CompareEquals:
		return actual == c.Value
	case content.CompareBetween:
		return actual >= c.Value && actual <= c.Max
	default:
		return actual >= c.Value
	}
}

func (e *Evaluator) describe(c content.Condition, snap *progression.Snapshot) string {
	switch c.Type {
	case content.ConditionInfluence:
		return fmt.Sprintf("requires %s influence %s (currently %d)",
			c.Track, describeCompare(c), e.influenceScore(c.Track, snap))
	case content.ConditionPrestige:
		if c.Level != "" {
			return fmt.Sprintf("requires %s prestige level %s", c.Track, c.Level)
		}
		value := 0
		if track, ok := e.Tracks.PrestigeByID(c.Track); ok {
			value = snap.Prestige[track.ID].Value
		}
		return fmt.Sprintf("requires %s prestige %s (currently %d)", c.Track, describeCompare(c), value)
	case content.ConditionAlignment:
		if c.Zone != "" {
			return fmt.Sprintf("requires %s alignment in the %s zone", c.Track, c.Zone)
		}
		value := 0
		if axis, ok := e.Tracks.AlignmentByID(c.Track); ok {
			value = snap.Alignment[axis.ID].Value
		}
		return fmt.Sprintf("requires %s alignment %s (currently %d)", c.Track, describeCompare(c), value)
	case content.ConditionLevel:
		return fmt.Sprintf("requires level %s (currently %d)", describeCompare(c), snap.Level)
	case content.ConditionSkill:
		return fmt.Sprintf("requires %s skill %s (currently %d)", c.Skill, describeCompare(c), snap.Skills[c.Skill])
	case content.ConditionQuest:
		return fmt.Sprintf("requires completing quest %s", c.Quest)
	case content.ConditionItem:
		if c.Count > 1 {
			return fmt.Sprintf("requires %d of item %s", c.Count, c.Item)
		}
		return fmt.Sprintf("requires item %s", c.Item)
	default:
		return "requirements not met"
	}
}

func describeCompare(c content.Condition) string {
	switch c.Compare {
	case content.CompareAtMost:
		return fmt.Sprintf("of at most %d", c.Value)
	case content.CompareEquals:
		return fmt.Sprintf("of exactly %d", c.Value)
	case content.CompareBetween:
		return fmt.Sprintf("between %d and %d", c.Value, c.Max)
	default:
		return fmt.Sprintf("of at least %d", c.Value)
	}
}
