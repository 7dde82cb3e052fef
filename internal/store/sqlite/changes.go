package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"talecraft/internal/progression"
)

func insertChanges(ctx context.Context, tx *sql.Tx, profileID string, changes []progression.TrackChange) error {
	if len(changes) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO changes (profile_id, category, track, delta, new_value, reason, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing change insert: %w", err)
	}
	defer stmt.Close()

	for _, ch := range changes {
		_, err := stmt.ExecContext(ctx,
			profileID,
			string(ch.Category),
			ch.Track,
			ch.Delta,
			ch.NewValue,
			ch.Reason,
			ch.Timestamp.UTC().Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("inserting change: %w", err)
		}
	}
	return nil
}

// ListChanges returns the most recent matching changes in journal order
// (oldest first). A limit of zero or less means no limit.
func (c *Client) ListChanges(ctx context.Context, profileID, category, track string, limit int) ([]progression.TrackChange, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
	SELECT category, track, delta, new_value, reason, recorded_at
	FROM changes
	WHERE profile_id = ?
	  AND (? = '' OR category = ?)
	  AND (? = '' OR track = ?)
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, profileID, category, category, track, track, limit)
	if err != nil {
		return nil, fmt.Errorf("listing changes: %w", err)
	}
	defer rows.Close()

	changes := []progression.TrackChange{}
	for rows.Next() {
		var ch progression.TrackChange
		var cat, recordedAt string
		if err := rows.Scan(&cat, &ch.Track, &ch.Delta, &ch.NewValue, &ch.Reason, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning change: %w", err)
		}
		ch.Category = progression.Category(cat)
		if ch.Timestamp, err = parseTime(recordedAt); err != nil {
			return nil, err
		}
		changes = append(changes, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating changes: %w", err)
	}

	for i, j := 0, len(changes)-1; i < j; i, j = i+1, j-1 {
		changes[i], changes[j] = changes[j], changes[i]
	}

	return changes, nil
}
