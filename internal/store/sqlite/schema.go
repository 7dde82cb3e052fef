package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS interactions (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		interaction_id TEXT NOT NULL,
		id_normalized  TEXT NOT NULL,
		title          TEXT NOT NULL,
		tags           TEXT DEFAULT '[]',
		doc            TEXT NOT NULL DEFAULT '{}',
		body           TEXT DEFAULT '',
		source_file    TEXT,
		source_hash    TEXT,
		last_ingested  TEXT DEFAULT (datetime('now')),
		CONSTRAINT uq_interaction_id UNIQUE (id_normalized)
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		level      INTEGER NOT NULL DEFAULT 1,
		skills     TEXT DEFAULT '{}',
		inventory  TEXT DEFAULT '{}',
		quests     TEXT DEFAULT '{}',
		influence  TEXT DEFAULT '{}',
		prestige   TEXT DEFAULT '{}',
		alignment  TEXT DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS changes (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_id  TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		category    TEXT NOT NULL,
		track       TEXT NOT NULL,
		delta       INTEGER NOT NULL,
		new_value   INTEGER NOT NULL,
		reason      TEXT DEFAULT '',
		recorded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_interactions_source_file ON interactions (source_file);
	CREATE INDEX IF NOT EXISTS idx_profiles_name ON profiles (name);
	CREATE INDEX IF NOT EXISTS idx_changes_profile ON changes (profile_id);
	CREATE INDEX IF NOT EXISTS idx_changes_profile_track ON changes (profile_id, category, track);

	CREATE VIRTUAL TABLE IF NOT EXISTS interactions_fts USING fts5(
		title,
		tags,
		body,
		content=interactions,
		content_rowid=id
	);

	CREATE TRIGGER IF NOT EXISTS interactions_ai AFTER INSERT ON interactions BEGIN
		INSERT INTO interactions_fts(rowid, title, tags, body)
		VALUES (new.id, new.title, new.tags, new.body);
	END;

	CREATE TRIGGER IF NOT EXISTS interactions_ad AFTER DELETE ON interactions BEGIN
		INSERT INTO interactions_fts(interactions_fts, rowid, title, tags, body)
		VALUES ('delete', old.id, old.title, old.tags, old.body);
	END;

	CREATE TRIGGER IF NOT EXISTS interactions_au AFTER UPDATE ON interactions BEGIN
		INSERT INTO interactions_fts(interactions_fts, rowid, title, tags, body)
		VALUES ('delete', old.id, old.title, old.tags, old.body);
		INSERT INTO interactions_fts(rowid, title, tags, body)
		VALUES (new.id, new.title, new.tags, new.body);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	statements := splitStatements(ddl)
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

// splitStatements splits on statement-terminating semicolons. Semicolons
// inside trigger bodies (BEGIN ... END) do not terminate the statement.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inBlock := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		upper := strings.ToUpper(stripped)
		if strings.HasSuffix(upper, " BEGIN") {
			inBlock = true
		}
		if !strings.HasSuffix(upper, ";") {
			continue
		}
		if inBlock && !strings.HasPrefix(upper, "END") {
			continue
		}
		inBlock = false
		statements = append(statements, current.String())
		current.Reset()
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}

	return statements
}
