package progression

import (
	"testing"

	"talecraft/internal/tracks"
)

func testAxes() []tracks.AlignmentAxis {
	return []tracks.AlignmentAxis{
		{
			ID: "morality", Name: "Morality",
			Zones: []tracks.AlignmentZone{
				{ID: "cruel", Name: "Cruel", Min: -100, Max: -20},
				{ID: "neutral", Name: "Neutral", Min: -19, Max: 19},
				{ID: "kind", Name: "Kind", Min: 30, Max: 100},
			},
		},
	}
}

func TestAlignmentUnbounded(t *testing.T) {
	m := NewAlignmentManager(testAxes())

	m.ChangeScore("morality", -500, "test")
	if got := m.Score("morality"); got != -500 {
		t.Fatalf("expected -500, got %d", got)
	}
	m.ChangeScore("morality", 1500, "test")
	if got := m.Score("morality"); got != 1000 {
		t.Fatalf("expected 1000, got %d", got)
	}
}

func TestAlignmentZones(t *testing.T) {
	m := NewAlignmentManager(testAxes())

	if z := m.Zone("morality"); z == nil || z.ID != "neutral" {
		t.Fatalf("expected neutral at 0, got %v", z)
	}

	m.ChangeScore("morality", -20, "test")
	if z := m.Zone("morality"); z == nil || z.ID != "cruel" {
		t.Fatalf("expected cruel at -20, got %v", z)
	}

	t.Run("gap derives no zone", func(t *testing.T) {
		m := NewAlignmentManager(testAxes())
		m.ChangeScore("morality", 25, "test")
		if z := m.Zone("morality"); z != nil {
			t.Fatalf("expected nil zone in gap, got %s", z.ID)
		}
	})

	t.Run("outside every zone derives no zone", func(t *testing.T) {
		m := NewAlignmentManager(testAxes())
		m.ChangeScore("morality", 5000, "test")
		if z := m.Zone("morality"); z != nil {
			t.Fatalf("expected nil zone, got %s", z.ID)
		}
	})
}

func TestAlignmentUnknownAxis(t *testing.T) {
	m := NewAlignmentManager(testAxes())

	if got := m.Score("order"); got != 0 {
		t.Fatalf("expected 0 for unknown axis, got %d", got)
	}
	if m.ChangeScore("order", 10, "test") {
		t.Fatalf("expected change to fail for unknown axis")
	}
	if z := m.Zone("order"); z != nil {
		t.Fatalf("expected nil zone for unknown axis")
	}
}

func TestAlignmentView(t *testing.T) {
	m := NewAlignmentManager(testAxes())
	m.ChangeScore("morality", 50, "test")

	view := m.View()
	standing, ok := view["morality"]
	if !ok {
		t.Fatalf("expected morality in view")
	}
	if standing.Value != 50 || standing.Zone != "kind" {
		t.Fatalf("unexpected standing %+v", standing)
	}

	t.Run("gap leaves zone empty", func(t *testing.T) {
		m := NewAlignmentManager(testAxes())
		m.ChangeScore("morality", 25, "test")
		if standing := m.View()["morality"]; standing.Zone != "" {
			t.Fatalf("expected empty zone id, got %q", standing.Zone)
		}
	})
}
