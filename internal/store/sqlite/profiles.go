package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"talecraft/internal/progression"
	"talecraft/internal/store"
)

const timeLayout = time.RFC3339Nano

func (c *Client) CreateProfile(ctx context.Context, p *store.Profile) error {
	normalizeProfile(p)

	row, err := encodeProfile(p)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	query := `
	INSERT INTO profiles (id, name, level, skills, inventory, quests, influence, prestige, alignment, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = c.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Level,
		row.skills,
		row.inventory,
		row.quests,
		row.influence,
		row.prestige,
		row.alignment,
		now.Format(timeLayout),
		now.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("creating profile: %w", err)
	}

	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (c *Client) GetProfile(ctx context.Context, ref string) (*store.Profile, error) {
	query := `
	SELECT id, name, level, skills, inventory, quests, influence, prestige, alignment, created_at, updated_at
	FROM profiles
	WHERE id = ? OR lower(name) = lower(?)
	`

	rows, err := c.db.QueryContext(ctx, query, ref, ref)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	defer rows.Close()

	var profiles []store.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profile rows: %w", err)
	}

	if len(profiles) == 0 {
		return nil, nil
	}
	if len(profiles) > 1 {
		return nil, fmt.Errorf("profile reference %q is ambiguous (%d matches)", ref, len(profiles))
	}

	return &profiles[0], nil
}

func (c *Client) ListProfiles(ctx context.Context) ([]store.Profile, error) {
	query := `
	SELECT id, name, level, skills, inventory, quests, influence, prestige, alignment, created_at, updated_at
	FROM profiles
	ORDER BY name, id
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := []store.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profile rows: %w", err)
	}

	return profiles, nil
}

func (c *Client) SaveProgress(ctx context.Context, p *store.Profile, changes []progression.TrackChange) error {
	normalizeProfile(p)

	row, err := encodeProfile(p)
	if err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
	UPDATE profiles
	SET name = ?, level = ?, skills = ?, inventory = ?, quests = ?,
	    influence = ?, prestige = ?, alignment = ?, updated_at = ?
	WHERE id = ?
	`,
		p.Name,
		p.Level,
		row.skills,
		row.inventory,
		row.quests,
		row.influence,
		row.prestige,
		row.alignment,
		now.Format(timeLayout),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %s not found", p.ID)
	}

	if err := insertChanges(ctx, tx, p.ID, changes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	p.UpdatedAt = now
	return nil
}

type profileRow struct {
	skills    []byte
	inventory []byte
	quests    []byte
	influence []byte
	prestige  []byte
	alignment []byte
}

func encodeProfile(p *store.Profile) (*profileRow, error) {
	var row profileRow
	var err error

	if row.skills, err = json.Marshal(p.Skills); err != nil {
		return nil, fmt.Errorf("marshaling skills: %w", err)
	}
	if row.inventory, err = json.Marshal(p.Inventory); err != nil {
		return nil, fmt.Errorf("marshaling inventory: %w", err)
	}
	if row.quests, err = json.Marshal(p.CompletedQuests); err != nil {
		return nil, fmt.Errorf("marshaling quests: %w", err)
	}
	if row.influence, err = json.Marshal(p.Influence); err != nil {
		return nil, fmt.Errorf("marshaling influence: %w", err)
	}
	if row.prestige, err = json.Marshal(p.Prestige); err != nil {
		return nil, fmt.Errorf("marshaling prestige: %w", err)
	}
	if row.alignment, err = json.Marshal(p.Alignment); err != nil {
		return nil, fmt.Errorf("marshaling alignment: %w", err)
	}
	return &row, nil
}

func scanProfile(rows *sql.Rows) (*store.Profile, error) {
	var p store.Profile
	var skills, inventory, quests, influence, prestige, alignment []byte
	var createdAt, updatedAt string

	err := rows.Scan(
		&p.ID,
		&p.Name,
		&p.Level,
		&skills,
		&inventory,
		&quests,
		&influence,
		&prestige,
		&alignment,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning profile: %w", err)
	}

	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &p.Skills); err != nil {
			return nil, fmt.Errorf("unmarshaling skills: %w", err)
		}
	}
	if len(inventory) > 0 {
		if err := json.Unmarshal(inventory, &p.Inventory); err != nil {
			return nil, fmt.Errorf("unmarshaling inventory: %w", err)
		}
	}
	if len(quests) > 0 {
		if err := json.Unmarshal(quests, &p.CompletedQuests); err != nil {
			return nil, fmt.Errorf("unmarshaling quests: %w", err)
		}
	}
	if len(influence) > 0 {
		if err := json.Unmarshal(influence, &p.Influence); err != nil {
			return nil, fmt.Errorf("unmarshaling influence: %w", err)
		}
	}
	if len(prestige) > 0 {
		if err := json.Unmarshal(prestige, &p.Prestige); err != nil {
			return nil, fmt.Errorf("unmarshaling prestige: %w", err)
		}
	}
	if len(alignment) > 0 {
		if err := json.Unmarshal(alignment, &p.Alignment); err != nil {
			return nil, fmt.Errorf("unmarshaling alignment: %w", err)
		}
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	normalizeProfile(&p)
	return &p, nil
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", value, err)
	}
	return t, nil
}

func normalizeProfile(p *store.Profile) {
	if p.Skills == nil {
		p.Skills = map[string]int{}
	}
	if p.Inventory == nil {
		p.Inventory = map[string]int{}
	}
	if p.CompletedQuests == nil {
		p.CompletedQuests = map[string]bool{}
	}
	if p.Influence == nil {
		p.Influence = map[string]int{}
	}
	if p.Prestige == nil {
		p.Prestige = map[string]int{}
	}
	if p.Alignment == nil {
		p.Alignment = map[string]int{}
	}
}
