package tracks

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Set struct {
	Version   int               `yaml:"version" json:"version"`
	Influence []InfluenceDomain `yaml:"influence" json:"influence"`
	Prestige  []PrestigeTrack   `yaml:"prestige" json:"prestige"`
	Alignment []AlignmentAxis   `yaml:"alignment" json:"alignment"`

	influenceIndex map[string]*InfluenceDomain
	prestigeIndex  map[string]*PrestigeTrack
	alignmentIndex map[string]*AlignmentAxis
}

type InfluenceDomain struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Color       string `yaml:"color,omitempty" json:"color,omitempty"`
	Min         int    `yaml:"min" json:"min"`
	Max         int    `yaml:"max" json:"max"`
	Default     int    `yaml:"default" json:"default"`
}

type PrestigeTrack struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Color       string          `yaml:"color,omitempty" json:"color,omitempty"`
	Decay       int             `yaml:"decay" json:"decay"`
	Counters    []string        `yaml:"counters,omitempty" json:"counters,omitempty"`
	Levels      []PrestigeLevel `yaml:"levels,omitempty" json:"levels,omitempty"`
}

type PrestigeLevel struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Threshold   int    `yaml:"threshold" json:"threshold"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type AlignmentAxis struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Color       string          `yaml:"color,omitempty" json:"color,omitempty"`
	Zones       []AlignmentZone `yaml:"zones,omitempty" json:"zones,omitempty"`
}

type AlignmentZone struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Min         int    `yaml:"min" json:"min"`
	Max         int    `yaml:"max" json:"max"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading tracks: %w", err)
	}

	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("loading tracks: %w", err)
	}

	if err := set.Prepare(); err != nil {
		return nil, fmt.Errorf("loading tracks: %w", err)
	}

	return &set, nil
}

// Prepare sorts, validates, and indexes a set. Sets decoded from a source
// other than Load (bundle import) must call it before use.
func (s *Set) Prepare() error {
	for i := range s.Prestige {
		t := &s.Prestige[i]
		sort.SliceStable(t.Levels, func(a, b int) bool {
			return t.Levels[a].Threshold < t.Levels[b].Threshold
		})
	}
	for i := range s.Alignment {
		a := &s.Alignment[i]
		sort.SliceStable(a.Zones, func(x, y int) bool {
			return a.Zones[x].Min < a.Zones[y].Min
		})
	}

	if err := validateSet(s); err != nil {
		return err
	}

	s.influenceIndex = make(map[string]*InfluenceDomain)
	for i := range s.Influence {
		d := &s.Influence[i]
		s.influenceIndex[strings.ToLower(d.ID)] = d
	}
	s.prestigeIndex = make(map[string]*PrestigeTrack)
	for i := range s.Prestige {
		t := &s.Prestige[i]
		s.prestigeIndex[strings.ToLower(t.ID)] = t
	}
	s.alignmentIndex = make(map[string]*AlignmentAxis)
	for i := range s.Alignment {
		a := &s.Alignment[i]
		s.alignmentIndex[strings.ToLower(a.ID)] = a
	}

	return nil
}

func validateSet(s *Set) error {
	if s.Version != 1 {
		return fmt.Errorf("unsupported version: %d", s.Version)
	}

	influenceIDs := make(map[string]struct{})
	for i, d := range s.Influence {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("influence domain %d id is required", i)
		}
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("influence domain %s name is required", d.ID)
		}
		key := strings.ToLower(d.ID)
		if _, exists := influenceIDs[key]; exists {
			return fmt.Errorf("duplicate influence domain id: %s", d.ID)
		}
		influenceIDs[key] = struct{}{}
		if d.Min >= d.Max {
			return fmt.Errorf("influence domain %s has empty range %d..%d", d.ID, d.Min, d.Max)
		}
		if d.Default < d.Min || d.Default > d.Max {
			return fmt.Errorf("influence domain %s default %d outside %d..%d", d.ID, d.Default, d.Min, d.Max)
		}
	}

	prestigeIDs := make(map[string]struct{})
	for i, t := range s.Prestige {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("prestige track %d id is required", i)
		}
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("prestige track %s name is required", t.ID)
		}
		key := strings.ToLower(t.ID)
		if _, exists := prestigeIDs[key]; exists {
			return fmt.Errorf("duplicate prestige track id: %s", t.ID)
		}
		prestigeIDs[key] = struct{}{}
		if t.Decay < 0 {
			return fmt.Errorf("prestige track %s has negative decay", t.ID)
		}
		for _, c := range t.Counters {
			if strings.TrimSpace(c) == "" {
				return fmt.Errorf("prestige track %s has empty counter id", t.ID)
			}
			if strings.EqualFold(c, t.ID) {
				return fmt.Errorf("prestige track %s counters itself", t.ID)
			}
		}
		levelIDs := make(map[string]struct{})
		for _, lvl := range t.Levels {
			if strings.TrimSpace(lvl.ID) == "" {
				return fmt.Errorf("prestige track %s has level with empty id", t.ID)
			}
			lkey := strings.ToLower(lvl.ID)
			if _, exists := levelIDs[lkey]; exists {
				return fmt.Errorf("prestige track %s has duplicate level: %s", t.ID, lvl.ID)
			}
			levelIDs[lkey] = struct{}{}
		}
		for j := 1; j < len(t.Levels); j++ {
			if t.Levels[j].Threshold == t.Levels[j-1].Threshold {
				return fmt.Errorf("prestige track %s has duplicate threshold %d", t.ID, t.Levels[j].Threshold)
			}
		}
	}

	if cycle := counterCycle(s.Prestige); cycle != nil {
		return fmt.Errorf("prestige counter cycle: %s", strings.Join(cycle, " -> "))
	}

	alignmentIDs := make(map[string]struct{})
	for i, a := range s.Alignment {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("alignment axis %d id is required", i)
		}
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("alignment axis %s name is required", a.ID)
		}
		key := strings.ToLower(a.ID)
		if _, exists := alignmentIDs[key]; exists {
			return fmt.Errorf("duplicate alignment axis id: %s", a.ID)
		}
		alignmentIDs[key] = struct{}{}

		zoneIDs := make(map[string]struct{})
		for _, z := range a.Zones {
			if strings.TrimSpace(z.ID) == "" {
				return fmt.Errorf("alignment axis %s has zone with empty id", a.ID)
			}
			zkey := strings.ToLower(z.ID)
			if _, exists := zoneIDs[zkey]; exists {
				return fmt.Errorf("alignment axis %s has duplicate zone: %s", a.ID, z.ID)
			}
			zoneIDs[zkey] = struct{}{}
			if z.Min > z.Max {
				return fmt.Errorf("alignment axis %s zone %s has inverted range %d..%d", a.ID, z.ID, z.Min, z.Max)
			}
		}
		for j := 1; j < len(a.Zones); j++ {
			if a.Zones[j].Min <= a.Zones[j-1].Max {
				return fmt.Errorf("alignment axis %s zones %s and %s overlap", a.ID, a.Zones[j-1].ID, a.Zones[j].ID)
			}
		}
	}

	return nil
}

// counterCycle walks the prestige counter graph and returns the first cycle
// found, or nil. Counter ids that name no prestige track are ignored here;
// they surface as validation warnings instead.
func counterCycle(tracks []PrestigeTrack) []string {
	known := make(map[string]struct{}, len(tracks))
	for _, t := range tracks {
		known[strings.ToLower(t.ID)] = struct{}{}
	}
	edges := make(map[string][]string, len(tracks))
	for _, t := range tracks {
		src := strings.ToLower(t.ID)
		for _, c := range t.Counters {
			key := strings.ToLower(c)
			if _, ok := known[key]; ok {
				edges[src] = append(edges[src], key)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		finished
	)
	state := make(map[string]int, len(tracks))
	var path []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		state[node] = visiting
		path = append(path, node)
		for _, next := range edges[node] {
			switch state[next] {
			case visiting:
				start := 0
				for i, p := range path {
					if p == next {
						start = i
						break
					}
				}
				cycle = append(append([]string{}, path[start:]...), next)
				return true
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state[node] = finished
		return false
	}

	for _, t := range tracks {
		key := strings.ToLower(t.ID)
		if state[key] == unvisited && visit(key) {
			return cycle
		}
	}
	return nil
}

func (s *Set) InfluenceByID(id string) (*InfluenceDomain, bool) {
	if s == nil {
		return nil, false
	}
	d, ok := s.influenceIndex[strings.ToLower(id)]
	return d, ok
}

func (s *Set) PrestigeByID(id string) (*PrestigeTrack, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.prestigeIndex[strings.ToLower(id)]
	return t, ok
}

func (s *Set) AlignmentByID(id string) (*AlignmentAxis, bool) {
	if s == nil {
		return nil, false
	}
	a, ok := s.alignmentIndex[strings.ToLower(id)]
	return a, ok
}

func (d *InfluenceDomain) Clamp(score int) int {
	if score < d.Min {
		return d.Min
	}
	if score > d.Max {
		return d.Max
	}
	return score
}

var influenceTiers = []struct {
	Name   string
	Cutoff int
}{
	{"Exalted", 90},
	{"Revered", 75},
	{"Honored", 60},
	{"Friendly", 45},
	{"Neutral", 35},
	{"Indifferent", 25},
	{"Unfriendly", 15},
	{"Hostile", 5},
}

// Tier names the standing band for a score. Cutoffs are percent of the
// domain range, inclusive, checked in integer cross-multiplication so
// boundary scores land exactly.
func (d *InfluenceDomain) Tier(score int) string {
	span := d.Max - d.Min
	if span <= 0 {
		return ""
	}
	for _, t := range influenceTiers {
		if (score-d.Min)*100 >= t.Cutoff*span {
			return t.Name
		}
	}
	return "Hated"
}

// LevelFor returns the highest level whose threshold is at or below score,
// or nil below every threshold. Levels are threshold-sorted by Prepare.
func (t *PrestigeTrack) LevelFor(score int) *PrestigeLevel {
	var match *PrestigeLevel
	for i := range t.Levels {
		if score < t.Levels[i].Threshold {
			break
		}
		match = &t.Levels[i]
	}
	return match
}

func (t *PrestigeTrack) LevelRank(id string) int {
	for i := range t.Levels {
		if strings.EqualFold(t.Levels[i].ID, id) {
			return i
		}
	}
	return -1
}

// ZoneFor returns the zone containing score, or nil when the score falls in
// a gap between zones.
func (a *AlignmentAxis) ZoneFor(score int) *AlignmentZone {
	for i := range a.Zones {
		z := &a.Zones[i]
		if score >= z.Min && score <= z.Max {
			return z
		}
	}
	return nil
}
