package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// Note: the DDL runs in a single call, which PostgreSQL executes in one
	// implicit transaction. IF NOT EXISTS keeps repeated runs idempotent; a
	// real migration tool only becomes worth it once destructive schema
	// changes show up.
	ddl := `
CREATE TABLE IF NOT EXISTS interactions (
    id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    interaction_id TEXT NOT NULL,
    id_normalized  TEXT NOT NULL,
    title          TEXT NOT NULL,
    tags           TEXT[] DEFAULT '{}',
    doc            JSONB NOT NULL DEFAULT '{}',
    body           TEXT DEFAULT '',
    source_file    TEXT,
    source_hash    TEXT,
    last_ingested  TIMESTAMPTZ DEFAULT now(),
    CONSTRAINT uq_interaction_id UNIQUE (id_normalized)
);

ALTER TABLE interactions ADD COLUMN IF NOT EXISTS search_vector TSVECTOR;

CREATE TABLE IF NOT EXISTS profiles (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    level      INTEGER NOT NULL DEFAULT 1,
    skills     JSONB DEFAULT '{}',
    inventory  JSONB DEFAULT '{}',
    quests     JSONB DEFAULT '{}',
    influence  JSONB DEFAULT '{}',
    prestige   JSONB DEFAULT '{}',
    alignment  JSONB DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS changes (
    id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    profile_id  TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    category    TEXT NOT NULL,
    track       TEXT NOT NULL,
    delta       INTEGER NOT NULL,
    new_value   INTEGER NOT NULL,
    reason      TEXT DEFAULT '',
    recorded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interactions_search ON interactions USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_interactions_tags ON interactions USING GIN (tags);
CREATE INDEX IF NOT EXISTS idx_interactions_source_file ON interactions (source_file);
CREATE INDEX IF NOT EXISTS idx_profiles_name ON profiles (name);
CREATE INDEX IF NOT EXISTS idx_changes_profile ON changes (profile_id);
CREATE INDEX IF NOT EXISTS idx_changes_profile_track ON changes (profile_id, category, track);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
