package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"talecraft/internal/content"
)

var (
	ErrNoFrontmatter  = errors.New("no frontmatter found")
	ErrInvalidYAML    = errors.New("invalid YAML in frontmatter")
	ErrMissingTitle   = errors.New("frontmatter missing required 'title' field")
	ErrNotInteraction = errors.New("document is not an interaction")
)

type frontmatter struct {
	ID            string                `yaml:"id"`
	Title         string                `yaml:"title"`
	Type          string                `yaml:"type"`
	Tags          any                   `yaml:"tags"`
	Prerequisites content.Prerequisites `yaml:"prerequisites"`
	Effects       content.EffectSet     `yaml:"effects"`
}

func ParseFile(path string) (*content.Interaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	in, err := Parse(data)
	if err != nil {
		return nil, err
	}
	in.SourceFile = path
	return in, nil
}

func Parse(data []byte) (*content.Interaction, error) {
	trimmed := bytes.TrimLeft(data, "\uFEFF\n\r\t ")
	if !bytes.HasPrefix(trimmed, []byte("---\n")) {
		return nil, ErrNoFrontmatter
	}

	rest := trimmed[len("---\n"):]
	end := bytes.Index(rest, []byte("---\n"))
	if end == -1 {
		return nil, ErrNoFrontmatter
	}

	yamlBytes := rest[:end]
	body := string(rest[end+len("---\n"):])

	var fm frontmatter
	if err := yaml.Unmarshal(yamlBytes, &fm); err != nil {
		return nil, ErrInvalidYAML
	}

	if !strings.EqualFold(strings.TrimSpace(fm.Type), "interaction") {
		return nil, ErrNotInteraction
	}
	if strings.TrimSpace(fm.Title) == "" {
		return nil, ErrMissingTitle
	}

	tags, err := parseTags(fm.Tags)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(fm.ID)
	if id == "" {
		id = Slugify(fm.Title)
	}

	in := &content.Interaction{
		ID:            id,
		Title:         fm.Title,
		Tags:          tags,
		Prerequisites: fm.Prerequisites,
		Effects:       fm.Effects,
		Body:          body,
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

func parseTags(value any) ([]string, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tags must be strings")
			}
			if strings.TrimSpace(s) == "" {
				continue
			}
			tags = append(tags, s)
		}
		if len(tags) == 0 {
			return nil, nil
		}
		return tags, nil
	default:
		return nil, fmt.Errorf("tags must be string or list of strings")
	}
}

// Slugify lowercases a title into a stable id: runs of non-alphanumeric
// characters collapse to single dashes.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
