package validate

import (
	"context"
	"fmt"
	"strings"

	"talecraft/internal/content"
	"talecraft/internal/store"
	"talecraft/internal/tracks"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeUnknownTrackCondition = "unknown_track_condition"
	codeUnknownTrackEffect    = "unknown_track_effect"
	codeUnknownPrestigeLevel  = "unknown_prestige_level"
	codeUnknownAlignmentZone  = "unknown_alignment_zone"
	codeEmptyBetweenRange     = "empty_between_range"
	codeUnknownCounterTarget  = "unknown_counter_target"
	codeScoreOutOfBounds      = "score_out_of_bounds"
)

type Issue struct {
	Severity    Severity
	Code        string
	Message     string
	Interaction string
	Profile     string
	FilePath    string
}

type Report struct {
	Issues []Issue
}

// Store is the slice of the storage API validation reads from.
type Store interface {
	ListInteractionDocs(ctx context.Context) ([]store.Interaction, error)
	ListProfiles(ctx context.Context) ([]store.Profile, error)
}

// Run cross-checks stored content and profiles against the current track
// definitions. Unknown tracks in conditions and effects are warnings
// because the runtime treats them as score 0 / no-op; unknown levels and
// zones are errors because those conditions can never pass.
func Run(ctx context.Context, set *tracks.Set, db Store) (*Report, error) {
	if set == nil {
		return nil, fmt.Errorf("track definitions are required")
	}
	if db == nil {
		return nil, fmt.Errorf("store is required")
	}

	issues := make([]Issue, 0)
	issues = append(issues, validateCounters(set)...)

	docs, err := db.ListInteractionDocs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	for i := range docs {
		doc := &docs[i].Doc
		issues = append(issues, validateConditions(doc, set)...)
		issues = append(issues, validateEffects(doc, set)...)
	}

	profiles, err := db.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	for i := range profiles {
		issues = append(issues, validateProfileScores(&profiles[i], set)...)
	}

	return &Report{Issues: issues}, nil
}

func validateConditions(doc *content.Interaction, set *tracks.Set) []Issue {
	var issues []Issue
	for _, g := range doc.Prerequisites.Groups {
		for _, c := range g.Conditions {
			if c.Compare == content.CompareBetween && c.Max < c.Value {
				issues = append(issues, docIssue(doc, SeverityError, codeEmptyBetweenRange,
					fmt.Sprintf("empty between range %d..%d", c.Value, c.Max)))
			}

			switch c.Type {
			case content.ConditionInfluence:
				if _, ok := set.InfluenceByID(c.Track); !ok {
					issues = append(issues, docIssue(doc, SeverityWarn, codeUnknownTrackCondition,
						fmt.Sprintf("condition references unknown influence domain: %s", c.Track)))
				}
			case content.ConditionPrestige:
				track, ok := set.PrestigeByID(c.Track)
				if !ok {
					issues = append(issues, docIssue(doc, SeverityWarn, codeUnknownTrackCondition,
						fmt.Sprintf("condition references unknown prestige track: %s", c.Track)))
					continue
				}
				if c.Level != "" && track.LevelRank(c.Level) < 0 {
					issues = append(issues, docIssue(doc, SeverityError, codeUnknownPrestigeLevel,
						fmt.Sprintf("unknown level %s for prestige track %s", c.Level, c.Track)))
				}
			case content.ConditionAlignment:
				axis, ok := set.AlignmentByID(c.Track)
				if !ok {
					issues = append(issues, docIssue(doc, SeverityWarn, codeUnknownTrackCondition,
						fmt.Sprintf("condition references unknown alignment axis: %s", c.Track)))
					continue
				}
				if c.Zone != "" && !axisHasZone(axis, c.Zone) {
					issues = append(issues, docIssue(doc, SeverityError, codeUnknownAlignmentZone,
						fmt.Sprintf("unknown zone %s for alignment axis %s", c.Zone, c.Track)))
				}
			}
		}
	}
	return issues
}

func validateEffects(doc *content.Interaction, set *tracks.Set) []Issue {
	var issues []Issue
	for _, eff := range doc.Effects.Influence {
		if _, ok := set.InfluenceByID(eff.Track); !ok {
			issues = append(issues, docIssue(doc, SeverityWarn, codeUnknownTrackEffect,
				fmt.Sprintf("effect targets unknown influence domain: %s", eff.Track)))
		}
	}
	for _, eff := range doc.Effects.Prestige {
		if _, ok := set.PrestigeByID(eff.Track); !ok {
			issues = append(issues, docIssue(doc, SeverityWarn, codeUnknownTrackEffect,
				fmt.Sprintf("effect targets unknown prestige track: %s", eff.Track)))
		}
	}
	for _, eff := range doc.Effects.Alignment {
		if _, ok := set.AlignmentByID(eff.Track); !ok {
			issues = append(issues, docIssue(doc, SeverityWarn, codeUnknownTrackEffect,
				fmt.Sprintf("effect targets unknown alignment axis: %s", eff.Track)))
		}
	}
	return issues
}

func validateCounters(set *tracks.Set) []Issue {
	var issues []Issue
	for _, t := range set.Prestige {
		for _, counter := range t.Counters {
			if _, ok := set.PrestigeByID(counter); !ok {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeUnknownCounterTarget,
					Message:  fmt.Sprintf("prestige track %s counters unknown track: %s", t.ID, counter),
				})
			}
		}
	}
	return issues
}

func validateProfileScores(p *store.Profile, set *tracks.Set) []Issue {
	var issues []Issue
	for id, score := range p.Influence {
		domain, ok := set.InfluenceByID(id)
		if !ok {
			continue
		}
		if score < domain.Min || score > domain.Max {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeScoreOutOfBounds,
				Message:  fmt.Sprintf("influence score %d outside %s bounds %d..%d", score, domain.ID, domain.Min, domain.Max),
				Profile:  p.Name,
			})
		}
	}
	return issues
}

func docIssue(doc *content.Interaction, severity Severity, code, message string) Issue {
	return Issue{
		Severity:    severity,
		Code:        code,
		Message:     message,
		Interaction: doc.ID,
		FilePath:    doc.SourceFile,
	}
}

func axisHasZone(axis *tracks.AlignmentAxis, id string) bool {
	for _, z := range axis.Zones {
		if strings.EqualFold(z.ID, id) {
			return true
		}
	}
	return false
}
