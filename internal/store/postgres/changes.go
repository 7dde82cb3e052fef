package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"talecraft/internal/progression"
)

func insertChanges(ctx context.Context, tx pgx.Tx, profileID string, changes []progression.TrackChange) error {
	for _, ch := range changes {
		_, err := tx.Exec(ctx, `
INSERT INTO changes (profile_id, category, track, delta, new_value, reason, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`,
			profileID,
			string(ch.Category),
			ch.Track,
			ch.Delta,
			ch.NewValue,
			ch.Reason,
			ch.Timestamp,
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
WHERE profile_id = $1
  AND ($2 = '' OR category = $2)
  AND ($3 = '' OR track = $3)
ORDER BY id DESC
LIMIT NULLIF($4, -1)
`

	rows, err := c.pool.Query(ctx, query, profileID, category, track, limit)
	if err != nil {
		return nil, fmt.Errorf("listing changes: %w", err)
	}
	defer rows.Close()

	changes := []progression.TrackChange{}
	for rows.Next() {
		var ch progression.TrackChange
		var cat string
		if err := rows.Scan(&cat, &ch.Track, &ch.Delta, &ch.NewValue, &ch.Reason, &ch.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning change: %w", err)
		}
		ch.Category = progression.Category(cat)
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
