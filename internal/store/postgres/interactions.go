package postgres

import (
	"context"
	"encoding/json"
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

	tags := in.Doc.Tags
	if len(tags) == 0 {
		tags = nil
	}

	query := `
INSERT INTO interactions (interaction_id, id_normalized, title, tags, doc, body, source_file, source_hash, last_ingested, search_vector)
VALUES ($1, $2, $3, COALESCE($4, '{}'::text[]), $5, $6, $7, $8, now(),
    setweight(to_tsvector('simple', coalesce($3, '')), 'A') ||
    setweight(to_tsvector('english', coalesce(array_to_string(COALESCE($4, '{}'::text[]), ' '), '')), 'B') ||
    setweight(to_tsvector('english', coalesce($6, '')), 'C')
)
ON CONFLICT (id_normalized) DO UPDATE SET
    interaction_id = EXCLUDED.interaction_id,
    title = EXCLUDED.title,
    tags = EXCLUDED.tags,
    doc = EXCLUDED.doc,
    body = EXCLUDED.body,
    source_file = EXCLUDED.source_file,
    source_hash = EXCLUDED.source_hash,
    last_ingested = now(),
    search_vector = EXCLUDED.search_vector
`

	_, err = c.pool.Exec(ctx, query,
		in.Doc.ID,
		idNormalized,
		in.Doc.Title,
		tags,
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
WHERE id_normalized = $1
`

	rows, err := c.pool.Query(ctx, query, strings.ToLower(id))
	if err != nil {
		return nil, fmt.Errorf("getting interaction: %w", err)
	}
	defer rows.Close()

	var interactions []store.Interaction
	for rows.Next() {
		var docBytes []byte
		var sourceHash string
		if err := rows.Scan(&docBytes, &sourceHash); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		in, err := decodeInteraction(docBytes, sourceHash)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, *in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interaction rows: %w", err)
	}

	if len(interactions) == 0 {
		return nil, nil
	}

	return &interactions[0], nil
}

func (c *Client) ListInteractions(ctx context.Context, tag string) ([]store.InteractionSummary, error) {
	query := `
SELECT interaction_id, title, tags, COALESCE(source_file, '')
FROM interactions
WHERE ($1 = '' OR $1 = ANY(tags))
ORDER BY interaction_id
`

	rows, err := c.pool.Query(ctx, query, tag)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}
	defer rows.Close()

	summaries := []store.InteractionSummary{}
	for rows.Next() {
		var s store.InteractionSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Tags, &s.SourceFile); err != nil {
			return nil, fmt.Errorf("scanning interaction summary: %w", err)
		}
		if s.Tags == nil {
			s.Tags = []string{}
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interaction summaries: %w", err)
	}

	return summaries, nil
}

func (c *Client) ListInteractionDocs(ctx context.Context) ([]store.Interaction, error) {
	query := `
SELECT doc, source_hash
FROM interactions
ORDER BY interaction_id
`

	rows, err := c.pool.Query(ctx, query)
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
