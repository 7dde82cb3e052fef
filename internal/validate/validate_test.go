package validate

import (
	"context"
	"strings"
	"testing"

	"talecraft/internal/content"
	"talecraft/internal/store"
	"talecraft/internal/tracks"
)

type mockStore struct {
	docs     []store.Interaction
	profiles []store.Profile
}

func (m *mockStore) ListInteractionDocs(ctx context.Context) ([]store.Interaction, error) {
	return m.docs, nil
}

func (m *mockStore) ListProfiles(ctx context.Context) ([]store.Profile, error) {
	return m.profiles, nil
}

func testSet(t *testing.T) *tracks.Set {
	t.Helper()
	set := &tracks.Set{
		Version: 1,
		Influence: []tracks.InfluenceDomain{
			{ID: "city_watch", Name: "City Watch", Min: 0, Max: 100, Default: 35},
		},
		Prestige: []tracks.PrestigeTrack{
			{ID: "merchant_guild", Name: "Merchant Guild", Decay: 5, Levels: []tracks.PrestigeLevel{
				{ID: "associate", Name: "Associate", Threshold: 0},
				{ID: "partner", Name: "Partner", Threshold: 50},
			}},
		},
		Alignment: []tracks.AlignmentAxis{
			{ID: "morality", Name: "Morality", Zones: []tracks.AlignmentZone{
				{ID: "cruel", Name: "Cruel", Min: -100, Max: -20},
				{ID: "kind", Name: "Kind", Min: 20, Max: 100},
			}},
		},
	}
	if err := set.Prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	return set
}

func doc(id string, groups ...content.Group) store.Interaction {
	in := content.Interaction{
		ID:            id,
		Title:         id,
		SourceFile:    "content/" + id + ".md",
		Prerequisites: content.Prerequisites{Groups: groups},
	}
	in.Normalize()
	return store.Interaction{Doc: in}
}

func group(conditions ...content.Condition) content.Group {
	return content.Group{Operator: content.OperatorAll, Conditions: conditions}
}

func hasIssueCode(issues []Issue, code string) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func TestRunCleanContent(t *testing.T) {
	in := doc("gate-pass", group(content.Condition{
		Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareAtLeast, Value: 50,
	}))
	in.Doc.Effects.Influence = []content.Effect{{Track: "city_watch", Amount: 5}}

	db := &mockStore{docs: []store.Interaction{in}}
	report, err := Run(context.Background(), testSet(t), db)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", report.Issues)
	}
}

func TestRunUnknownTrackCondition(t *testing.T) {
	in := doc("old-favor", group(content.Condition{
		Type: content.ConditionInfluence, Track: "old_guard", Compare: content.CompareAtLeast, Value: 10,
	}))

	db := &mockStore{docs: []store.Interaction{in}}
	report, err := Run(context.Background(), testSet(t), db)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", report.Issues)
	}
	issue := report.Issues[0]
	if issue.Code != codeUnknownTrackCondition {
		t.Fatalf("expected %s, got %s", codeUnknownTrackCondition, issue.Code)
	}
	if issue.Severity != SeverityWarn {
		t.Fatalf("unknown track conditions are warnings, got %s", issue.Severity)
	}
	if issue.Interaction != "old-favor" || issue.FilePath != "content/old-favor.md" {
		t.Fatalf("expected issue location, got %+v", issue)
	}
}

func TestRunUnknownTrackEffect(t *testing.T) {
	in := doc("smuggle")
	in.Doc.Effects.Prestige = []content.Effect{{Track: "thieves_den", Amount: 10}}

	db := &mockStore{docs: []store.Interaction{in}}
	report, err := Run(context.Background(), testSet(t), db)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", report.Issues)
	}
	issue := report.Issues[0]
	if issue.Code != codeUnknownTrackEffect || issue.Severity != SeverityWarn {
		t.Fatalf("expected unknown effect warning, got %+v", issue)
	}
	if !strings.Contains(issue.Message, "thieves_den") {
		t.Fatalf("expected track id in message, got %q", issue.Message)
	}
}

func TestRunUnknownPrestigeLevel(t *testing.T) {
	in := doc("guild-audience", group(content.Condition{
		Type: content.ConditionPrestige, Track: "merchant_guild", Compare: content.CompareAtLeast, Level: "mythic",
	}))

	db := &mockStore{docs: []store.Interaction{in}}
	report, err := Run(context.Background(), testSet(t), db)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", report.Issues)
	}
	issue := report.Issues[0]
	if issue.Code != codeUnknownPrestigeLevel || issue.Severity != SeverityError {
		t.Fatalf("expected unknown level error, got %+v", issue)
	}
}

func TestRunUnknownAlignmentZone(t *testing.T) {
	in := doc("shrine-offering", group(content.Condition{
		Type: content.ConditionAlignment, Track: "morality", Compare: content.CompareAtLeast, Zone: "saintly",
	}))

	db := &mockStore{docs: []store.Interaction{in}}
	report, err := Run(context.Background(), testSet(t), db)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", report.Issues)
	}
	issue := report.Issues[0]
	if issue.Code != codeUnknownAlignmentZone || issue.Severity != SeverityError {
		t.Fatalf("expected unknown zone error, got %+v", issue)
	}
}

func TestRunEmptyBetweenRange(t *testing.T) {
	in := doc("narrow-window", group(content.Condition{
		Type: content.ConditionInfluence, Track: "city_watch", Compare: content.CompareBetween, Value: 60, Max: 40,
	}))

	db := &mockStore{docs: []store.Interaction{in}}
	report, err := Run(context.Background(), testSet(t), db)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", report.Issues)
	}
	issue := report.Issues[0]
	if issue.Code != codeEmptyBetweenRange || issue.Severity != SeverityError {
		t.Fatalf("expected empty range error, got %+v", issue)
	}
	if !strings.Contains(issue.Message, "60..40") {
		t.Fatalf("expected range in message, got %q", issue.Message)
	}
}

func TestRunUnknownCounterTarget(t *testing.T) {
	set := testSet(t)
	set.Prestige[0].Counters = []string{"vanished_guild"}
	if err := set.Prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	report, err := Run(context.Background(), set, &mockStore{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", report.Issues)
	}
	issue := report.Issues[0]
	if issue.Code != codeUnknownCounterTarget || issue.Severity != SeverityWarn {
		t.Fatalf("expected counter warning, got %+v", issue)
	}
	if !strings.Contains(issue.Message, "merchant_guild") || !strings.Contains(issue.Message, "vanished_guild") {
		t.Fatalf("expected both track ids in message, got %q", issue.Message)
	}
}

func TestRunScoreOutOfBounds(t *testing.T) {
	db := &mockStore{profiles: []store.Profile{
		{ID: "p1", Name: "Mara", Influence: map[string]int{"city_watch": 150}},
		{ID: "p2", Name: "Wren", Influence: map[string]int{"city_watch": 80, "departed_track": 999}},
	}}

	report, err := Run(context.Background(), testSet(t), db)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", report.Issues)
	}
	issue := report.Issues[0]
	if issue.Code != codeScoreOutOfBounds || issue.Severity != SeverityWarn {
		t.Fatalf("expected out-of-bounds warning, got %+v", issue)
	}
	if issue.Profile != "Mara" {
		t.Fatalf("expected profile name on issue, got %+v", issue)
	}
}

func TestRunNilArguments(t *testing.T) {
	if _, err := Run(context.Background(), nil, &mockStore{}); err == nil {
		t.Fatalf("expected error for nil set")
	}
	if _, err := Run(context.Background(), testSet(t), nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}
