package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"talecraft/internal/content"
	"talecraft/internal/progression"
	"talecraft/internal/store"
	"talecraft/internal/store/sqlite"
	"talecraft/internal/tracks"
)

func openStore(t *testing.T) *sqlite.Client {
	t.Helper()
	ctx := context.Background()
	client, err := sqlite.New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(ctx); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	if err := client.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return client
}

func testSet(t *testing.T) *tracks.Set {
	t.Helper()
	set := &tracks.Set{
		Version: 1,
		Influence: []tracks.InfluenceDomain{
			{ID: "city_watch", Name: "City Watch", Min: 0, Max: 100, Default: 35},
		},
	}
	if err := set.Prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	return set
}

func seedProject(t *testing.T, db *sqlite.Client) time.Time {
	t.Helper()
	ctx := context.Background()

	in := content.Interaction{
		ID:         "gate-pass",
		Title:      "Gate Pass",
		Tags:       []string{"watch"},
		Body:       "The guards wave you through.",
		SourceFile: "content/gate_pass.md",
	}
	in.Normalize()
	if err := db.UpsertInteraction(ctx, store.Interaction{Doc: in, SourceHash: "hash-1"}); err != nil {
		t.Fatalf("upsert interaction: %v", err)
	}

	p := &store.Profile{ID: "p1", Name: "Mara", Level: 3, Influence: map[string]int{"city_watch": 40}}
	if err := db.CreateProfile(ctx, p); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	changes := []progression.TrackChange{
		{Category: progression.CategoryInfluence, Track: "city_watch", ChangeRecord: progression.ChangeRecord{
			Timestamp: base, Delta: 5, NewValue: 40, Reason: "Waved through the gate",
		}},
	}
	if err := db.SaveProgress(ctx, p, changes); err != nil {
		t.Fatalf("save progress: %v", err)
	}
	return base
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openStore(t)
	base := seedProject(t, src)

	var buf bytes.Buffer
	if err := Export(ctx, "harborfall", testSet(t), src, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	for _, key := range []string{"project", "exported_at", "tracks", "interactions", "profiles", "changes"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("expected %q in export document", key)
		}
	}

	dst := openStore(t)
	result, err := Import(ctx, dst, &buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected import errors: %v", result.Errors)
	}
	if result.InteractionsImported != 1 || result.ProfilesImported != 1 || result.ChangesImported != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Tracks == nil || len(result.Tracks.Influence) != 1 {
		t.Fatalf("expected embedded tracks in result")
	}

	in, err := dst.GetInteraction(ctx, "gate-pass")
	if err != nil {
		t.Fatalf("get interaction: %v", err)
	}
	if in == nil || in.Doc.Title != "Gate Pass" || in.SourceHash != "hash-1" {
		t.Fatalf("unexpected interaction after import: %+v", in)
	}

	p, err := dst.GetProfile(ctx, "p1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil || p.Name != "Mara" || p.Level != 3 || p.Influence["city_watch"] != 40 {
		t.Fatalf("unexpected profile after import: %+v", p)
	}

	changes, err := dst.ListChanges(ctx, "p1", "", "", 0)
	if err != nil {
		t.Fatalf("list changes: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if !changes[0].Timestamp.Equal(base) {
		t.Fatalf("expected original timestamp %v, got %v", base, changes[0].Timestamp)
	}
	if changes[0].Reason != "Waved through the gate" {
		t.Fatalf("unexpected change reason %q", changes[0].Reason)
	}
}

func TestImportInvalidJSON(t *testing.T) {
	dst := openStore(t)
	if _, err := Import(context.Background(), dst, strings.NewReader("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestImportRejectsBadTracks(t *testing.T) {
	dst := openStore(t)
	doc := `{"project":"x","interactions":[],"profiles":[],"tracks":{"version":2}}`
	if _, err := Import(context.Background(), dst, strings.NewReader(doc)); err == nil || !strings.Contains(err.Error(), "bundle tracks") {
		t.Fatalf("expected tracks validation error, got %v", err)
	}
}

func TestImportCollectsRecordErrors(t *testing.T) {
	ctx := context.Background()
	dst := openStore(t)
	doc := `{
	  "project": "x",
	  "interactions": [{"title": ""}],
	  "profiles": [{"id": "", "name": ""}]
	}`

	result, err := Import(ctx, dst, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.InteractionsImported != 0 || result.ProfilesImported != 0 {
		t.Fatalf("expected nothing imported, got %+v", result)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 record errors, got %v", result.Errors)
	}
}

func TestImportDuplicateProfile(t *testing.T) {
	ctx := context.Background()
	src := openStore(t)
	seedProject(t, src)

	var buf bytes.Buffer
	if err := Export(ctx, "harborfall", testSet(t), src, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	payload := buf.Bytes()

	dst := openStore(t)
	if _, err := Import(ctx, dst, bytes.NewReader(payload)); err != nil {
		t.Fatalf("first import: %v", err)
	}

	result, err := Import(ctx, dst, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if result.InteractionsImported != 1 {
		t.Fatalf("expected interaction upsert to stay idempotent, got %+v", result)
	}
	if result.ProfilesImported != 0 || len(result.Errors) == 0 {
		t.Fatalf("expected duplicate profile error, got %+v", result)
	}
}
