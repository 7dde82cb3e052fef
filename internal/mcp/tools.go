package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"talecraft/internal/content"
	"talecraft/internal/prereq"
	"talecraft/internal/progression"
	"talecraft/internal/store"
	"talecraft/internal/tracks"
)

type SearchInteractionsInput struct {
	Query string `json:"query" jsonschema:"search terms"`
	Tag   string `json:"tag,omitempty" jsonschema:"restrict to a tag"`
}

type SearchResultOutput struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	Score   float64  `json:"score"`
	Snippet string   `json:"snippet,omitempty"`
}

type SearchInteractionsOutput struct {
	Results []SearchResultOutput `json:"results"`
}

type GetInteractionInput struct {
	ID string `json:"id" jsonschema:"interaction id"`
}

type InteractionOutput struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Tags          []string              `json:"tags"`
	Prerequisites content.Prerequisites `json:"prerequisites"`
	Effects       content.EffectSet     `json:"effects"`
	Body          string                `json:"body"`
	SourceFile    string                `json:"source_file,omitempty"`
}

type ListInteractionsInput struct {
	Tag string `json:"tag,omitempty" jsonschema:"tag filter"`
}

type InteractionSummaryOutput struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	SourceFile string   `json:"source_file,omitempty"`
}

type ListInteractionsOutput struct {
	Interactions []InteractionSummaryOutput `json:"interactions"`
}

type GetTracksInput struct{}

type TracksOutput struct {
	Influence []tracks.InfluenceDomain `json:"influence"`
	Prestige  []tracks.PrestigeTrack   `json:"prestige"`
	Alignment []tracks.AlignmentAxis   `json:"alignment"`
}

type CheckInteractionInput struct {
	ID      string `json:"id" jsonschema:"interaction id"`
	Profile string `json:"profile" jsonschema:"profile id or name"`
}

type CheckInteractionOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Satisfied bool   `json:"satisfied"`
	Visible   bool   `json:"visible"`
	Reason    string `json:"reason,omitempty"`
}

type CompleteInteractionInput struct {
	ID      string `json:"id" jsonschema:"interaction id"`
	Profile string `json:"profile" jsonschema:"profile id or name"`
}

type ChangeOutput struct {
	Category  string    `json:"category"`
	Track     string    `json:"track"`
	Delta     int       `json:"delta"`
	NewValue  int       `json:"new_value"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

type CompleteInteractionOutput struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Completed bool           `json:"completed"`
	Reason    string         `json:"reason,omitempty"`
	Changes   []ChangeOutput `json:"changes"`
}

type GetStandingInput struct {
	Profile string `json:"profile" jsonschema:"profile id or name"`
}

type StandingEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Tier  string `json:"tier,omitempty"`
	Level string `json:"level,omitempty"`
	Zone  string `json:"zone,omitempty"`
}

type GetStandingOutput struct {
	Profile   string          `json:"profile"`
	Level     int             `json:"level"`
	Influence []StandingEntry `json:"influence"`
	Prestige  []StandingEntry `json:"prestige"`
	Alignment []StandingEntry `json:"alignment"`
}

type GetHistoryInput struct {
	Profile  string `json:"profile" jsonschema:"profile id or name"`
	Category string `json:"category,omitempty" jsonschema:"influence, prestige, or alignment"`
	Track    string `json:"track,omitempty" jsonschema:"track id filter"`
	Limit    int    `json:"limit,omitempty" jsonschema:"most recent n changes"`
}

type GetHistoryOutput struct {
	Changes []ChangeOutput `json:"changes"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_interactions",
		Description: "Search interactions by title, tags, and body text",
	}, s.handleSearchInteractions)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_interaction",
		Description: "Retrieve one interaction with its prerequisites and effects",
	}, s.handleGetInteraction)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_interactions",
		Description: "List interactions with an optional tag filter",
	}, s.handleListInteractions)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_tracks",
		Description: "Return the current track definitions",
	}, s.handleGetTracks)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "check_interaction",
		Description: "Evaluate whether a profile meets an interaction's prerequisites",
	}, s.handleCheckInteraction)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "complete_interaction",
		Description: "Complete an interaction for a profile, applying and persisting its effects",
	}, s.handleCompleteInteraction)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_standing",
		Description: "Return a profile's current scores and derived standings",
	}, s.handleGetStanding)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_history",
		Description: "Return a profile's change journal",
	}, s.handleGetHistory)
}

func (s *Server) handleSearchInteractions(ctx context.Context, req *sdk.CallToolRequest, input SearchInteractionsInput) (*sdk.CallToolResult, SearchInteractionsOutput, error) {
	if input.Query == "" {
		return nil, SearchInteractionsOutput{}, fmt.Errorf("query is required")
	}
	results, err := s.db.Search(ctx, input.Query, input.Tag)
	if err != nil {
		return nil, SearchInteractionsOutput{}, err
	}

	output := make([]SearchResultOutput, 0, len(results))
	for _, result := range results {
		output = append(output, SearchResultOutput{
			ID:      result.ID,
			Title:   result.Title,
			Tags:    append([]string{}, result.Tags...),
			Score:   result.Score,
			Snippet: result.Snippet,
		})
	}
	return nil, SearchInteractionsOutput{Results: output}, nil
}

func (s *Server) handleGetInteraction(ctx context.Context, req *sdk.CallToolRequest, input GetInteractionInput) (*sdk.CallToolResult, InteractionOutput, error) {
	if input.ID == "" {
		return nil, InteractionOutput{}, fmt.Errorf("id is required")
	}
	in, err := s.db.GetInteraction(ctx, input.ID)
	if err != nil {
		return nil, InteractionOutput{}, err
	}
	if in == nil {
		return nil, InteractionOutput{}, fmt.Errorf("interaction not found: %s", input.ID)
	}
	return nil, interactionOutputFromDoc(&in.Doc), nil
}

func (s *Server) handleListInteractions(ctx context.Context, req *sdk.CallToolRequest, input ListInteractionsInput) (*sdk.CallToolResult, ListInteractionsOutput, error) {
	items, err := s.db.ListInteractions(ctx, input.Tag)
	if err != nil {
		return nil, ListInteractionsOutput{}, err
	}

	output := make([]InteractionSummaryOutput, 0, len(items))
	for _, item := range items {
		output = append(output, InteractionSummaryOutput{
			ID:         item.ID,
			Title:      item.Title,
			Tags:       append([]string{}, item.Tags...),
			SourceFile: item.SourceFile,
		})
	}
	return nil, ListInteractionsOutput{Interactions: output}, nil
}

func (s *Server) handleGetTracks(ctx context.Context, req *sdk.CallToolRequest, input GetTracksInput) (*sdk.CallToolResult, TracksOutput, error) {
	return nil, TracksOutput{
		Influence: append([]tracks.InfluenceDomain{}, s.set.Influence...),
		Prestige:  append([]tracks.PrestigeTrack{}, s.set.Prestige...),
		Alignment: append([]tracks.AlignmentAxis{}, s.set.Alignment...),
	}, nil
}

func (s *Server) handleCheckInteraction(ctx context.Context, req *sdk.CallToolRequest, input CheckInteractionInput) (*sdk.CallToolResult, CheckInteractionOutput, error) {
	in, p, err := s.loadInteractionProfile(ctx, input.ID, input.Profile)
	if err != nil {
		return nil, CheckInteractionOutput{}, err
	}

	im, pm, am := progression.Restore(s.set, p.Influence, p.Prestige, p.Alignment)
	snap := progression.BuildSnapshot(p.BaseState(), im, pm, am)
	verdict := prereq.New(s.set).Evaluate(&in.Doc, snap)

	return nil, CheckInteractionOutput{
		ID:        in.Doc.ID,
		Title:     in.Doc.Title,
		Satisfied: verdict.Satisfied,
		Visible:   verdict.Visible,
		Reason:    verdict.Reason,
	}, nil
}

func (s *Server) handleCompleteInteraction(ctx context.Context, req *sdk.CallToolRequest, input CompleteInteractionInput) (*sdk.CallToolResult, CompleteInteractionOutput, error) {
	in, p, err := s.loadInteractionProfile(ctx, input.ID, input.Profile)
	if err != nil {
		return nil, CompleteInteractionOutput{}, err
	}

	im, pm, am := progression.Restore(s.set, p.Influence, p.Prestige, p.Alignment)
	snap := progression.BuildSnapshot(p.BaseState(), im, pm, am)
	verdict := prereq.New(s.set).Evaluate(&in.Doc, snap)

	output := CompleteInteractionOutput{ID: in.Doc.ID, Title: in.Doc.Title, Changes: []ChangeOutput{}}
	if !verdict.Satisfied {
		output.Reason = verdict.Reason
		return nil, output, nil
	}

	app := progression.Applicator{Influence: im, Prestige: pm, Alignment: am}
	app.Apply(&in.Doc)

	changes := im.DrainChanges()
	changes = append(changes, pm.DrainChanges()...)
	changes = append(changes, am.DrainChanges()...)

	p.Influence = im.Scores()
	p.Prestige = pm.Scores()
	p.Alignment = am.Scores()

	if err := s.db.SaveProgress(ctx, p, changes); err != nil {
		return nil, CompleteInteractionOutput{}, err
	}

	output.Completed = true
	output.Changes = changeOutputs(changes)
	return nil, output, nil
}

func (s *Server) handleGetStanding(ctx context.Context, req *sdk.CallToolRequest, input GetStandingInput) (*sdk.CallToolResult, GetStandingOutput, error) {
	p, err := s.loadProfile(ctx, input.Profile)
	if err != nil {
		return nil, GetStandingOutput{}, err
	}

	im, pm, am := progression.Restore(s.set, p.Influence, p.Prestige, p.Alignment)

	output := GetStandingOutput{
		Profile:   p.Name,
		Level:     p.Level,
		Influence: make([]StandingEntry, 0, len(s.set.Influence)),
		Prestige:  make([]StandingEntry, 0, len(s.set.Prestige)),
		Alignment: make([]StandingEntry, 0, len(s.set.Alignment)),
	}
	for _, d := range s.set.Influence {
		output.Influence = append(output.Influence, StandingEntry{
			ID:    d.ID,
			Name:  d.Name,
			Score: im.Score(d.ID),
			Tier:  im.Tier(d.ID),
		})
	}
	for _, t := range s.set.Prestige {
		entry := StandingEntry{ID: t.ID, Name: t.Name, Score: pm.Score(t.ID)}
		if lvl := pm.Level(t.ID); lvl != nil {
			entry.Level = lvl.ID
		}
		output.Prestige = append(output.Prestige, entry)
	}
	for _, a := range s.set.Alignment {
		entry := StandingEntry{ID: a.ID, Name: a.Name, Score: am.Score(a.ID)}
		if z := am.Zone(a.ID); z != nil {
			entry.Zone = z.ID
		}
		output.Alignment = append(output.Alignment, entry)
	}
	return nil, output, nil
}

func (s *Server) handleGetHistory(ctx context.Context, req *sdk.CallToolRequest, input GetHistoryInput) (*sdk.CallToolResult, GetHistoryOutput, error) {
	if input.Category != "" && !progression.Category(input.Category).IsValid() {
		return nil, GetHistoryOutput{}, fmt.Errorf("unknown category: %s", input.Category)
	}
	p, err := s.loadProfile(ctx, input.Profile)
	if err != nil {
		return nil, GetHistoryOutput{}, err
	}

	changes, err := s.db.ListChanges(ctx, p.ID, input.Category, input.Track, input.Limit)
	if err != nil {
		return nil, GetHistoryOutput{}, err
	}
	return nil, GetHistoryOutput{Changes: changeOutputs(changes)}, nil
}

func (s *Server) loadProfile(ctx context.Context, ref string) (*store.Profile, error) {
	if ref == "" {
		return nil, fmt.Errorf("profile is required")
	}
	p, err := s.db.GetProfile(ctx, ref)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("profile not found: %s", ref)
	}
	return p, nil
}

func (s *Server) loadInteractionProfile(ctx context.Context, id, profileRef string) (*store.Interaction, *store.Profile, error) {
	if id == "" {
		return nil, nil, fmt.Errorf("id is required")
	}
	in, err := s.db.GetInteraction(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if in == nil {
		return nil, nil, fmt.Errorf("interaction not found: %s", id)
	}
	p, err := s.loadProfile(ctx, profileRef)
	if err != nil {
		return nil, nil, err
	}
	return in, p, nil
}

func interactionOutputFromDoc(doc *content.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:            doc.ID,
		Title:         doc.Title,
		Tags:          append([]string{}, doc.Tags...),
		Prerequisites: doc.Prerequisites,
		Effects:       doc.Effects,
		Body:          doc.Body,
		SourceFile:    doc.SourceFile,
	}
}

func changeOutputs(changes []progression.TrackChange) []ChangeOutput {
	out := make([]ChangeOutput, 0, len(changes))
	for _, ch := range changes {
		out = append(out, ChangeOutput{
			Category:  string(ch.Category),
			Track:     ch.Track,
			Delta:     ch.Delta,
			NewValue:  ch.NewValue,
			Reason:    ch.Reason,
			Timestamp: ch.Timestamp,
		})
	}
	return out
}
