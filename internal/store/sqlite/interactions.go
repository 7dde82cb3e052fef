package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"talecraft/internal/content"
	"talecraft/internal/store"
)

func (c *Client) UpsertInteraction(ctx context.Context, in store.Interaction) error {
	idNormalized := strings.ToLower(in.Doc.ID)

	docJSON, err := json.Marshal(in.Doc)
	if err != nil {
		return fmt.Errorf("marshaling interaction: %w", err)
	}

	tagsJSON, err := json.Marshal(in.Doc.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	query := `
	INSERT INTO interactions (interaction_id, id_normalized, title, tags, doc, body, source_file, source_hash, last_ingested)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT (id_normalized) DO UPDATE SET
		interaction_id = excluded.interaction_id,
		title = excluded.title,
		tags = excluded.tags,
		doc = excluded.doc,
		body = excluded.body,
		source_file = excluded.source_file,
		source_hash = excluded.source_hash,
		last_ingested = datetime('now')
	`

	_, err = c.db.ExecContext(ctx, query,
		in.Doc.ID,
		idNormalized,
		in.Doc.Title,
		tagsJSON,
		docJSON,
		in.Doc.Body,
		in.Doc.SourceFile,
		in.SourceHash,
	)
	if err != nil {
		return fmt.Errorf("upserting interaction: %w", err)
	}
	return nil
}

func (c *Client) GetInteraction(ctx context.Context, id string) (*store.Interaction, error) {
	query := `
	SELECT doc, source_hash
	FROM interactions
	WHERE id_normalized = ?
	`

	var docBytes []byte
	var sourceHash string
	err := c.db.QueryRowContext(ctx, query, strings.ToLower(id)).Scan(&docBytes, &sourceHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting interaction: %w", err)
	}

	return decodeInteraction(docBytes, sourceHash)
}

func (c *Client) ListInteractions(ctx context.Context, tag string) ([]store.InteractionSummary, error) {
	query := `
	SELECT interaction_id, title, tags, source_file
	FROM interactions
	ORDER BY interaction_id
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}
	defer rows.Close()

	var summaries []store.InteractionSummary
	for rows.Next() {
		var s store.InteractionSummary
		var tagsBytes []byte
		var sourceFile *string
		if err := rows.Scan(&s.ID, &s.Title, &tagsBytes, &sourceFile); err != nil {
			return nil, fmt.Errorf("scanning interaction summary: %w", err)
		}
		if len(tagsBytes) > 0 {
			if err := json.Unmarshal(tagsBytes, &s.Tags); err != nil {
				return nil, fmt.Errorf("unmarshaling tags: %w", err)
			}
		}
		if s.Tags == nil {
			s.Tags = []string{}
		}
		if sourceFile != nil {
			s.SourceFile = *sourceFile
		}

		if tag != "" && !containsTag(s.Tags, tag) {
			continue
		}

		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interaction summaries: %w", err)
	}

	if summaries == nil {
		summaries = []store.InteractionSummary{}
	}

	return summaries, nil
}

func (c *Client) ListInteractionDocs(ctx context.Context) ([]store.Interaction, error) {
	query := `
	SELECT doc, source_hash
	FROM interactions
	ORDER BY interaction_id
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing interaction docs: %w", err)
	}
	defer rows.Close()

	interactions := []store.Interaction{}
	for rows.Next() {
		var docBytes []byte
		var sourceHash string
		if err := rows.Scan(&docBytes, &sourceHash); err != nil {
			return nil, fmt.Errorf("scanning interaction doc: %w", err)
		}
		in, err := decodeInteraction(docBytes, sourceHash)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, *in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interaction docs: %w", err)
	}

	return interactions, nil
}

func decodeInteraction(docBytes []byte, sourceHash string) (*store.Interaction, error) {
	var doc content.Interaction
	if err := json.Unmarshal(docBytes, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling interaction: %w", err)
	}
	doc.Normalize()
	return &store.Interaction{Doc: doc, SourceHash: sourceHash}, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
