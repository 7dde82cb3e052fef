package store

import (
	"time"

	"talecraft/internal/content"
	"talecraft/internal/progression"
)

type Interaction struct {
	Doc        content.Interaction
	SourceHash string
}

type InteractionSummary struct {
	ID         string
	Title      string
	Tags       []string
	SourceFile string
}

type SearchResult struct {
	ID      string
	Title   string
	Tags    []string
	Score   float64
	Snippet string
}

type Profile struct {
	ID              string
	Name            string
	Level           int
	Skills          map[string]int
	Inventory       map[string]int
	CompletedQuests map[string]bool
	Influence       map[string]int
	Prestige        map[string]int
	Alignment       map[string]int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p *Profile) BaseState() progression.BaseState {
	return progression.BaseState{
		Level:           p.Level,
		Skills:          p.Skills,
		CompletedQuests: p.CompletedQuests,
		Inventory:       p.Inventory,
	}
}
