package sqlite

import (
	"context"
	"testing"

	"talecraft/internal/content"
	"talecraft/internal/store"
)

func TestConvertWebsearchToFTS5(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple term",
			input:    "guard",
			expected: "guard",
		},
		{
			name:     "multiple terms",
			input:    "night guard",
			expected: "night AND guard",
		},
		{
			name:     "explicit AND",
			input:    "guard AND ledger",
			expected: "guard AND ledger",
		},
		{
			name:     "explicit OR",
			input:    "guard OR smuggler",
			expected: "guard OR smuggler",
		},
		{
			name:     "negation",
			input:    "guard -bribe",
			expected: "guard AND NOT bribe",
		},
		{
			name:     "phrase",
			input:    `"night watch"`,
			expected: `"night watch"`,
		},
		{
			name:     "phrase with other term",
			input:    `"night watch" gate`,
			expected: `"night watch" AND gate`,
		},
		{
			name:     "prefix search",
			input:    "guard*",
			expected: "guard*",
		},
		{
			name:     "complex query",
			input:    `"night watch" -bribe gate OR tower`,
			expected: `"night watch" AND NOT bribe AND gate OR tower`,
		},
		{
			name:     "NOT operator",
			input:    "guard NOT bribe",
			expected: "guard NOT bribe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertWebsearchToFTS5(tt.input)
			if result != tt.expected {
				t.Errorf("convertWebsearchToFTS5(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	client := testStore(t)
	ctx := context.Background()

	docs := []store.Interaction{
		{Doc: content.Interaction{
			ID:         "bribe-the-guard",
			Title:      "Bribe the Guard",
			Tags:       []string{"watch"},
			Body:       "A pouch of coins changes hands at the gate.",
			SourceFile: "content/bribe-the-guard.md",
		}},
		{Doc: content.Interaction{
			ID:         "gate-pass",
			Title:      "Gate Pass",
			Tags:       []string{"watch"},
			Body:       "The guard waves you through without a second glance.",
			SourceFile: "content/gate-pass.md",
		}},
		{Doc: content.Interaction{
			ID:         "market-haggle",
			Title:      "Market Haggle",
			Tags:       []string{"merchants"},
			Body:       "Spices and silk, priced for those who do not ask twice.",
			SourceFile: "content/market-haggle.md",
		}},
	}
	for i := range docs {
		docs[i].Doc.Normalize()
		if err := client.UpsertInteraction(ctx, docs[i]); err != nil {
			t.Fatalf("upsert interaction: %v", err)
		}
	}

	t.Run("title match ranks first", func(t *testing.T) {
		results, err := client.Search(ctx, "guard", "")
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].ID != "bribe-the-guard" {
			t.Fatalf("expected title match first, got %q", results[0].ID)
		}
	})

	t.Run("tag filter", func(t *testing.T) {
		results, err := client.Search(ctx, "guard", "merchants")
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(results) != 0 {
			t.Fatalf("expected no merchant results for guard, got %+v", results)
		}
	})

	t.Run("phrase query", func(t *testing.T) {
		results, err := client.Search(ctx, `"second glance"`, "")
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(results) != 1 || results[0].ID != "gate-pass" {
			t.Fatalf("expected gate-pass for phrase query, got %+v", results)
		}
	})

	t.Run("snippet highlights match", func(t *testing.T) {
		results, err := client.Search(ctx, "silk", "")
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		if results[0].Snippet == "" {
			t.Fatalf("expected snippet, got empty string")
		}
	})

	t.Run("empty query rejected", func(t *testing.T) {
		if _, err := client.Search(ctx, "   ", ""); err == nil {
			t.Fatalf("expected error for empty query")
		}
	})
}
