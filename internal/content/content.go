package content

import (
	"fmt"
	"strings"
)

type Interaction struct {
	ID            string        `yaml:"id,omitempty" json:"id"`
	Title         string        `yaml:"title" json:"title"`
	Tags          []string      `yaml:"tags,omitempty" json:"tags,omitempty"`
	Prerequisites Prerequisites `yaml:"prerequisites,omitempty" json:"prerequisites"`
	Effects       EffectSet     `yaml:"effects,omitempty" json:"effects"`
	Body          string        `yaml:"-" json:"body,omitempty"`
	SourceFile    string        `yaml:"-" json:"source_file,omitempty"`
}

type Prerequisites struct {
	Groups              []Group `yaml:"groups,omitempty" json:"groups"`
	ShowWhenUnavailable bool    `yaml:"show_when_unavailable,omitempty" json:"show_when_unavailable"`
	UnavailableMessage  string  `yaml:"unavailable_message,omitempty" json:"unavailable_message,omitempty"`
}

// Group is one requirement block. Groups combine with AND; conditions
// inside a group combine per the group operator.
type Group struct {
	Operator   Operator    `yaml:"operator,omitempty" json:"operator"`
	Conditions []Condition `yaml:"conditions,omitempty" json:"conditions"`
}

type Operator string

const (
	OperatorAll Operator = "all"
	OperatorAny Operator = "any"
)

func (o Operator) IsValid() bool {
	switch o {
	case OperatorAll, OperatorAny:
		return true
	default:
		return false
	}
}

type ConditionType string

const (
	ConditionInfluence ConditionType = "influence"
	ConditionPrestige  ConditionType = "prestige"
	ConditionAlignment ConditionType = "alignment"
	ConditionLevel     ConditionType = "level"
	ConditionSkill     ConditionType = "skill"
	ConditionQuest     ConditionType = "quest"
	ConditionItem      ConditionType = "item"
)

func (c ConditionType) IsValid() bool {
	switch c {
	case ConditionInfluence, ConditionPrestige, ConditionAlignment,
		ConditionLevel, ConditionSkill, ConditionQuest, ConditionItem:
		return true
	default:
		return false
	}
}

type Comparator string

const (
	CompareAtLeast Comparator = "at_least"
	CompareAtMost  Comparator = "at_most"
	CompareEquals  Comparator = "equals"
	CompareBetween Comparator = "between"
)

func (c Comparator) IsValid() bool {
	switch c {
	case CompareAtLeast, CompareAtMost, CompareEquals, CompareBetween:
		return true
	default:
		return false
	}
}

type Condition struct {
	Type    ConditionType `yaml:"type" json:"type"`
	Track   string        `yaml:"track,omitempty" json:"track,omitempty"`
	Compare Comparator    `yaml:"compare,omitempty" json:"compare,omitempty"`
	Value   int           `yaml:"value,omitempty" json:"value,omitempty"`
	Max     int           `yaml:"max,omitempty" json:"max,omitempty"`
	Level   string        `yaml:"level,omitempty" json:"level,omitempty"`
	Zone    string        `yaml:"zone,omitempty" json:"zone,omitempty"`
	Skill   string        `yaml:"skill,omitempty" json:"skill,omitempty"`
	Quest   string        `yaml:"quest,omitempty" json:"quest,omitempty"`
	Item    string        `yaml:"item,omitempty" json:"item,omitempty"`
	Count   int           `yaml:"count,omitempty" json:"count,omitempty"`
}

type EffectSet struct {
	Influence []Effect `yaml:"influence,omitempty" json:"influence"`
	Prestige  []Effect `yaml:"prestige,omitempty" json:"prestige"`
	Alignment []Effect `yaml:"alignment,omitempty" json:"alignment"`
}

type Effect struct {
	Track  string `yaml:"track" json:"track"`
	Amount int    `yaml:"amount" json:"amount"`
	Note   string `yaml:"note,omitempty" json:"note,omitempty"`
}

// Normalize fills defaults so downstream code never branches on missing
// shapes: nil slices become empty, group operators default to all,
// comparators to at_least, item counts to 1.
func (in *Interaction) Normalize() {
	if in.Tags == nil {
		in.Tags = []string{}
	}
	if in.Prerequisites.Groups == nil {
		in.Prerequisites.Groups = []Group{}
	}
	for i := range in.Prerequisites.Groups {
		g := &in.Prerequisites.Groups[i]
		if g.Operator == "" {
			g.Operator = OperatorAll
		}
		if g.Conditions == nil {
			g.Conditions = []Condition{}
		}
		for j := range g.Conditions {
			c := &g.Conditions[j]
			if c.Compare == "" {
				c.Compare = CompareAtLeast
			}
			if c.Type == ConditionItem && c.Count == 0 {
				c.Count = 1
			}
		}
	}
	if in.Effects.Influence == nil {
		in.Effects.Influence = []Effect{}
	}
	if in.Effects.Prestige == nil {
		in.Effects.Prestige = []Effect{}
	}
	if in.Effects.Alignment == nil {
		in.Effects.Alignment = []Effect{}
	}
}

// Validate reports the first structural problem in an interaction. It runs
// after Normalize, so defaults are already in place.
func (in *Interaction) Validate() error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("interaction id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("interaction %s title is required", in.ID)
	}
	for gi, g := range in.Prerequisites.Groups {
		if !g.Operator.IsValid() {
			return fmt.Errorf("interaction %s group %d has unknown operator %q", in.ID, gi, g.Operator)
		}
		for ci, c := range g.Conditions {
			if !c.Type.IsValid() {
				return fmt.Errorf("interaction %s group %d condition %d has unknown type %q", in.ID, gi, ci, c.Type)
			}
			if !c.Compare.IsValid() {
				return fmt.Errorf("interaction %s group %d condition %d has unknown comparator %q", in.ID, gi, ci, c.Compare)
			}
			switch c.Type {
			case ConditionInfluence, ConditionPrestige, ConditionAlignment:
				if strings.TrimSpace(c.Track) == "" {
					return fmt.Errorf("interaction %s group %d condition %d needs a track", in.ID, gi, ci)
				}
			case ConditionSkill:
				if strings.TrimSpace(c.Skill) == "" {
					return fmt.Errorf("interaction %s group %d condition %d needs a skill", in.ID, gi, ci)
				}
			case ConditionQuest:
				if strings.TrimSpace(c.Quest) == "" {
					return fmt.Errorf("interaction %s group %d condition %d needs a quest", in.ID, gi, ci)
				}
			case ConditionItem:
				if strings.TrimSpace(c.Item) == "" {
					return fmt.Errorf("interaction %s group %d condition %d needs an item", in.ID, gi, ci)
				}
				if c.Count < 1 {
					return fmt.Errorf("interaction %s group %d condition %d has non-positive count", in.ID, gi, ci)
				}
			}
		}
	}
	for _, eff := range in.Effects.Influence {
		if strings.TrimSpace(eff.Track) == "" {
			return fmt.Errorf("interaction %s has influence effect without a track", in.ID)
		}
	}
	for _, eff := range in.Effects.Prestige {
		if strings.TrimSpace(eff.Track) == "" {
			return fmt.Errorf("interaction %s has prestige effect without a track", in.ID)
		}
	}
	for _, eff := range in.Effects.Alignment {
		if strings.TrimSpace(eff.Track) == "" {
			return fmt.Errorf("interaction %s has alignment effect without a track", in.ID)
		}
	}
	return nil
}
