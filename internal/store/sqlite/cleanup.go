package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) RemoveStaleInteractions(ctx context.Context, currentSourceFiles []string) (int64, error) {
	if len(currentSourceFiles) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(currentSourceFiles))
	args := make([]any, len(currentSourceFiles))
	for i, f := range currentSourceFiles {
		placeholders[i] = "?"
		args[i] = f
	}

	query := fmt.Sprintf(`
	DELETE FROM interactions
	WHERE source_file IS NOT NULL
	  AND source_file <> ''
	  AND source_file NOT IN (%s)
	`, strings.Join(placeholders, ", "))

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("removing stale interactions: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return affected, nil
}

func (c *Client) SourceHashes(ctx context.Context) (map[string]string, error) {
	query := `
	SELECT source_file, source_hash FROM interactions
	WHERE source_file IS NOT NULL
	  AND source_file <> ''
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query source hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var sourceFile, sourceHash string
		if err := rows.Scan(&sourceFile, &sourceHash); err != nil {
			return nil, fmt.Errorf("scanning source hash: %w", err)
		}
		hashes[sourceFile] = sourceHash
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating source hashes: %w", err)
	}

	return hashes, nil
}
