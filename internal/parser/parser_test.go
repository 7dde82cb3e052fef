package parser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"talecraft/internal/content"
)

func TestParse(t *testing.T) {
	t.Run("full interaction frontmatter", func(t *testing.T) {
		data := []byte(`---
id: bribe-the-captain
title: Bribe the Captain
type: interaction
tags: [guild, watch]
prerequisites:
  show_when_unavailable: true
  unavailable_message: The captain ignores you.
  groups:
    - operator: any
      conditions:
        - { type: influence, track: city_watch, compare: at_least, value: 20 }
        - { type: item, item: gold_coin, count: 50 }
effects:
  influence:
    - { track: city_watch, amount: -10, note: Caught red-handed }
  prestige:
    - { track: infamy, amount: 5 }
---

The captain pockets the coin and looks away.
`)
		in, err := Parse(data)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if in.ID != "bribe-the-captain" {
			t.Fatalf("expected id, got %q", in.ID)
		}
		if in.Title != "Bribe the Captain" {
			t.Fatalf("expected title, got %q", in.Title)
		}
		if !reflect.DeepEqual(in.Tags, []string{"guild", "watch"}) {
			t.Fatalf("unexpected tags: %#v", in.Tags)
		}
		if !in.Prerequisites.ShowWhenUnavailable {
			t.Fatalf("expected show_when_unavailable")
		}
		if len(in.Prerequisites.Groups) != 1 {
			t.Fatalf("expected one group, got %d", len(in.Prerequisites.Groups))
		}
		group := in.Prerequisites.Groups[0]
		if group.Operator != content.OperatorAny {
			t.Fatalf("expected any operator, got %q", group.Operator)
		}
		if len(group.Conditions) != 2 {
			t.Fatalf("expected two conditions, got %d", len(group.Conditions))
		}
		if group.Conditions[1].Count != 50 {
			t.Fatalf("expected item count 50, got %d", group.Conditions[1].Count)
		}
		if len(in.Effects.Influence) != 1 || in.Effects.Influence[0].Amount != -10 {
			t.Fatalf("unexpected influence effects: %#v", in.Effects.Influence)
		}
		if in.Body == "" {
			t.Fatalf("expected body")
		}
	})

	t.Run("id defaults to slug of title", func(t *testing.T) {
		in, err := Parse([]byte("---\ntitle: Greet the Night Watch!\ntype: interaction\n---\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if in.ID != "greet-the-night-watch" {
			t.Fatalf("expected slug id, got %q", in.ID)
		}
	})

	t.Run("minimal interaction normalized", func(t *testing.T) {
		in, err := Parse([]byte("---\ntitle: Minimal\ntype: interaction\n---\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if in.Tags == nil || len(in.Tags) != 0 {
			t.Fatalf("expected empty tags, got %#v", in.Tags)
		}
		if in.Prerequisites.Groups == nil {
			t.Fatalf("expected normalized groups")
		}
		if in.Body != "" {
			t.Fatalf("expected empty body, got %q", in.Body)
		}
	})

	t.Run("comparator defaults to at_least", func(t *testing.T) {
		data := []byte("---\ntitle: Gate\ntype: interaction\nprerequisites:\n  groups:\n    - conditions:\n        - { type: influence, track: guild, value: 5 }\n---\n")
		in, err := Parse(data)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		cond := in.Prerequisites.Groups[0].Conditions[0]
		if cond.Compare != content.CompareAtLeast {
			t.Fatalf("expected at_least, got %q", cond.Compare)
		}
	})

	t.Run("non-interaction document", func(t *testing.T) {
		_, err := Parse([]byte("---\ntitle: A Lore Note\ntype: lore\n---\n"))
		if !errors.Is(err, ErrNotInteraction) {
			t.Fatalf("expected ErrNotInteraction, got %v", err)
		}
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := Parse([]byte("---\ntitle: Something\n---\n"))
		if !errors.Is(err, ErrNotInteraction) {
			t.Fatalf("expected ErrNotInteraction, got %v", err)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := Parse([]byte("---\ntype: interaction\n---\n"))
		if !errors.Is(err, ErrMissingTitle) {
			t.Fatalf("expected ErrMissingTitle, got %v", err)
		}
	})

	t.Run("no frontmatter", func(t *testing.T) {
		_, err := Parse([]byte("Just text"))
		if !errors.Is(err, ErrNoFrontmatter) {
			t.Fatalf("expected ErrNoFrontmatter, got %v", err)
		}
	})

	t.Run("missing closing marker", func(t *testing.T) {
		_, err := Parse([]byte("---\ntitle: Missing\n"))
		if !errors.Is(err, ErrNoFrontmatter) {
			t.Fatalf("expected ErrNoFrontmatter, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("---\ntitle: [\n---\n"))
		if !errors.Is(err, ErrInvalidYAML) {
			t.Fatalf("expected ErrInvalidYAML, got %v", err)
		}
	})

	t.Run("invalid condition type rejected", func(t *testing.T) {
		data := []byte("---\ntitle: Gate\ntype: interaction\nprerequisites:\n  groups:\n    - conditions:\n        - { type: weather, value: 5 }\n---\n")
		if _, err := Parse(data); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("tags single string", func(t *testing.T) {
		in, err := Parse([]byte("---\ntitle: Tags\ntype: interaction\ntags: lone\n---\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(in.Tags, []string{"lone"}) {
			t.Fatalf("unexpected tags: %#v", in.Tags)
		}
	})
}

func TestParseFile(t *testing.T) {
	in, err := ParseFile(filepath.Join("testdata", "valid_interaction.md"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if in.ID != "return-the-ledger" {
		t.Fatalf("expected id, got %q", in.ID)
	}
	if in.SourceFile == "" {
		t.Fatalf("expected source file set")
	}
}

func TestParseFile_NotInteraction(t *testing.T) {
	_, err := ParseFile(filepath.Join("testdata", "lore_note.md"))
	if !errors.Is(err, ErrNotInteraction) {
		t.Fatalf("expected ErrNotInteraction, got %v", err)
	}
}

func TestParse_BOMTrim(t *testing.T) {
	data := []byte("\uFEFF---\ntitle: BOM\ntype: interaction\n---\n")
	in, err := Parse(data)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if in.Title != "BOM" {
		t.Fatalf("expected title, got %q", in.Title)
	}
}

func TestParseFile_ReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected missing file")
	}
	if _, err := ParseFile(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Greet the Captain", "greet-the-captain"},
		{"  Spaced  Out  ", "spaced-out"},
		{"Already-slugged", "already-slugged"},
		{"Symbols & Punctuation!?", "symbols-punctuation"},
		{"MixedCase42", "mixedcase42"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
