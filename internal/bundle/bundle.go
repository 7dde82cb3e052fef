package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"talecraft/internal/content"
	"talecraft/internal/progression"
	"talecraft/internal/store"
	"talecraft/internal/tracks"
)

// Document is the single JSON file a project exports to. Everything in it
// is plain data: track definitions as configured, interactions as
// authored, profiles with their current scores, and each profile's full
// change journal keyed by profile id.
type Document struct {
	Project      string                               `json:"project"`
	ExportedAt   time.Time                            `json:"exported_at"`
	Tracks       *tracks.Set                          `json:"tracks,omitempty"`
	Interactions []InteractionRecord                  `json:"interactions"`
	Profiles     []ProfileRecord                      `json:"profiles"`
	Changes      map[string][]progression.TrackChange `json:"changes,omitempty"`
}

type InteractionRecord struct {
	content.Interaction
	SourceHash string `json:"source_hash,omitempty"`
}

type ProfileRecord struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Level           int             `json:"level"`
	Skills          map[string]int  `json:"skills,omitempty"`
	Inventory       map[string]int  `json:"inventory,omitempty"`
	CompletedQuests map[string]bool `json:"completed_quests,omitempty"`
	Influence       map[string]int  `json:"influence,omitempty"`
	Prestige        map[string]int  `json:"prestige,omitempty"`
	Alignment       map[string]int  `json:"alignment,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Result struct {
	InteractionsImported int
	ProfilesImported     int
	ChangesImported      int
	Tracks               *tracks.Set
	Errors               []error
}

// Store is the slice of the storage API export/import runs against.
type Store interface {
	EnsureSchema(ctx context.Context) error
	ListInteractionDocs(ctx context.Context) ([]store.Interaction, error)
	UpsertInteraction(ctx context.Context, in store.Interaction) error
	ListProfiles(ctx context.Context) ([]store.Profile, error)
	CreateProfile(ctx context.Context, p *store.Profile) error
	SaveProgress(ctx context.Context, p *store.Profile, changes []progression.TrackChange) error
	ListChanges(ctx context.Context, profileID, category, track string, limit int) ([]progression.TrackChange, error)
}

// Export writes the whole project as one indented JSON document.
func Export(ctx context.Context, project string, set *tracks.Set, db Store, w io.Writer) error {
	docs, err := db.ListInteractionDocs(ctx)
	if err != nil {
		return fmt.Errorf("list interactions: %w", err)
	}
	profiles, err := db.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	out := Document{
		Project:      project,
		ExportedAt:   time.Now().UTC(),
		Tracks:       set,
		Interactions: make([]InteractionRecord, 0, len(docs)),
		Profiles:     make([]ProfileRecord, 0, len(profiles)),
		Changes:      make(map[string][]progression.TrackChange),
	}

	for _, d := range docs {
		out.Interactions = append(out.Interactions, InteractionRecord{
			Interaction: d.Doc,
			SourceHash:  d.SourceHash,
		})
	}

	for _, p := range profiles {
		out.Profiles = append(out.Profiles, ProfileRecord{
			ID:              p.ID,
			Name:            p.Name,
			Level:           p.Level,
			Skills:          p.Skills,
			Inventory:       p.Inventory,
			CompletedQuests: p.CompletedQuests,
			Influence:       p.Influence,
			Prestige:        p.Prestige,
			Alignment:       p.Alignment,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
		})
		changes, err := db.ListChanges(ctx, p.ID, "", "", 0)
		if err != nil {
			return fmt.Errorf("list changes for %s: %w", p.ID, err)
		}
		if len(changes) > 0 {
			out.Changes[p.ID] = changes
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	return nil
}

// Import reads a Document and loads it into the store. Interactions are
// normalized and validated before upserting; profiles are created with
// their journals replayed under the original timestamps. Per-record
// problems are collected in Result.Errors rather than aborting, matching
// the ingest pipeline. Embedded track definitions are validated and
// returned but never written anywhere: tracks.yaml stays under the
// designer's control.
func Import(ctx context.Context, db Store, r io.Reader) (*Result, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}

	if doc.Tracks != nil {
		if err := doc.Tracks.Prepare(); err != nil {
			return nil, fmt.Errorf("bundle tracks: %w", err)
		}
	}

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	result := &Result{Tracks: doc.Tracks}

	for i := range doc.Interactions {
		in := doc.Interactions[i].Interaction
		in.Normalize()
		if err := in.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("interaction %d: %w", i, err))
			continue
		}
		if err := db.UpsertInteraction(ctx, store.Interaction{Doc: in, SourceHash: doc.Interactions[i].SourceHash}); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("upserting %s: %w", in.ID, err))
			continue
		}
		result.InteractionsImported++
	}

	for _, rec := range doc.Profiles {
		if strings.TrimSpace(rec.ID) == "" || strings.TrimSpace(rec.Name) == "" {
			result.Errors = append(result.Errors, fmt.Errorf("profile record missing id or name"))
			continue
		}
		p := store.Profile{
			ID:              rec.ID,
			Name:            rec.Name,
			Level:           rec.Level,
			Skills:          rec.Skills,
			Inventory:       rec.Inventory,
			CompletedQuests: rec.CompletedQuests,
			Influence:       rec.Influence,
			Prestige:        rec.Prestige,
			Alignment:       rec.Alignment,
		}
		if err := db.CreateProfile(ctx, &p); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("creating profile %s: %w", rec.ID, err))
			continue
		}
		result.ProfilesImported++

		changes := doc.Changes[rec.ID]
		if len(changes) == 0 {
			continue
		}
		if err := db.SaveProgress(ctx, &p, changes); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("restoring journal for %s: %w", rec.ID, err))
			continue
		}
		result.ChangesImported += len(changes)
	}

	return result, nil
}
