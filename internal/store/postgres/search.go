package postgres

import (
	"context"
	"fmt"
	"strings"

	"talecraft/internal/store"
)

func (c *Client) Search(ctx context.Context, query, tag string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sql := `
SELECT interaction_id, title, tags,
    ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS score,
    CASE WHEN body <> '' THEN
        ts_headline('english', body, websearch_to_tsquery('english', $1),
            'MaxFragments=2, MaxWords=40, MinWords=20, StartSel=**, StopSel=**')
    ELSE '' END AS snippet
FROM interactions
WHERE search_vector @@ websearch_to_tsquery('english', $1)
  AND ($2 = '' OR $2 = ANY(tags))
ORDER BY score DESC, interaction_id ASC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, query, tag)
	if err != nil {
		return nil, fmt.Errorf("searching interactions: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		err := rows.Scan(&r.ID, &r.Title, &r.Tags, &r.Score, &r.Snippet)
		if err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		if r.Tags == nil {
			r.Tags = []string{}
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}
