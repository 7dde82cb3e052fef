package store

import (
	"context"

	"talecraft/internal/progression"
)

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	UpsertInteraction(ctx context.Context, in Interaction) error
	GetInteraction(ctx context.Context, id string) (*Interaction, error)
	ListInteractions(ctx context.Context, tag string) ([]InteractionSummary, error)
	ListInteractionDocs(ctx context.Context) ([]Interaction, error)
	Search(ctx context.Context, query, tag string) ([]SearchResult, error)
	SourceHashes(ctx context.Context) (map[string]string, error)
	RemoveStaleInteractions(ctx context.Context, currentSourceFiles []string) (int64, error)

	CreateProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, ref string) (*Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	SaveProgress(ctx context.Context, p *Profile, changes []progression.TrackChange) error

	ListChanges(ctx context.Context, profileID, category, track string, limit int) ([]progression.TrackChange, error)
}
