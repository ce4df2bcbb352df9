package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PgFTS implements Searcher using PostgreSQL full-text search as a fallback.
type PgFTS struct {
	db *sql.DB
}

func NewPgFTS(db *sql.DB) *PgFTS {
	return &PgFTS{db: db}
}

// Healthy always returns true: if Postgres is down, the whole app is down.
func (p *PgFTS) Healthy() bool {
	return true
}

// Search runs a UNION ALL query across sections and items using
// plainto_tsquery and ts_rank, with ts_headline for snippets.
func (p *PgFTS) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	tsQuery := "plainto_tsquery('english', $1)"
	args := []any{q.Text}
	argN := 2

	projectFilter := func(column string) string {
		if q.FilterProjectID != "" {
			clause := fmt.Sprintf(" AND %s = $%d", column, argN)
			args = append(args, q.FilterProjectID)
			argN++
			return clause
		}
		if len(q.ProjectIDs) == 0 {
			return " AND FALSE"
		}
		placeholders := make([]string, len(q.ProjectIDs))
		for i, id := range q.ProjectIDs {
			placeholders[i] = fmt.Sprintf("$%d", argN)
			args = append(args, id)
			argN++
		}
		return fmt.Sprintf(" AND %s IN (%s)", column, strings.Join(placeholders, ", "))
	}

	var subQueries []string

	if q.FilterType == "" || q.FilterType == ResultSection {
		where := "s.fts @@ " + tsQuery + projectFilter("s.project_id")
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'section'::text AS type, s.id, s.title,
				ts_headline('english', coalesce(s.description, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				s.id AS section_id, s.project_id,
				ts_rank(s.fts, %s) AS rank
			FROM sections s
			WHERE %s`, tsQuery, tsQuery, where))
	}

	if q.FilterType == "" || q.FilterType == ResultItem {
		where := "i.fts @@ " + tsQuery + projectFilter("s.project_id")
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'item'::text AS type, i.id, i.title,
				ts_headline('english', coalesce(i.description, '') || ' ' || coalesce(i.store_name, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				i.section_id, s.project_id,
				ts_rank(i.fts, %s) AS rank
			FROM items i
			JOIN sections s ON s.id = i.section_id
			WHERE %s`, tsQuery, tsQuery, where))
	}

	if len(subQueries) == 0 {
		return nil, 0, nil
	}

	countSQL := fmt.Sprintf("SELECT count(*) FROM (%s) sub",
		strings.Join(subQueries, " UNION ALL "))

	dataSQL := fmt.Sprintf(`SELECT type, id, title, snippet, section_id, project_id
		FROM (%s) sub
		ORDER BY rank DESC
		LIMIT %d OFFSET %d`,
		strings.Join(subQueries, " UNION ALL "),
		limit, offset)

	ctx := context.Background()

	var total int
	if err := p.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgfts count: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgfts query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var typ string
		if err := rows.Scan(&typ, &r.ID, &r.Title, &r.Snippet, &r.SectionID, &r.ProjectID); err != nil {
			return nil, 0, fmt.Errorf("pgfts scan: %w", err)
		}
		r.Type = ResultType(typ)
		results = append(results, r)
	}

	return results, total, rows.Err()
}

// LoadAllRecords returns all searchable records for full reindexing.
func (p *PgFTS) LoadAllRecords(ctx context.Context) ([]SectionRecord, []ItemRecord, error) {
	sectionRows, err := p.db.QueryContext(ctx, `
		SELECT id, title, description, project_id FROM sections
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load sections: %w", err)
	}
	defer sectionRows.Close()

	sections := make([]SectionRecord, 0)
	for sectionRows.Next() {
		var s SectionRecord
		if err := sectionRows.Scan(&s.ID, &s.Title, &s.Description, &s.ProjectID); err != nil {
			return nil, nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	if err := sectionRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate sections: %w", err)
	}

	itemRows, err := p.db.QueryContext(ctx, `
		SELECT i.id, i.title, i.description, i.store_name, i.item_type, i.section_id, s.project_id
		FROM items i
		JOIN sections s ON s.id = i.section_id
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load items: %w", err)
	}
	defer itemRows.Close()

	items := make([]ItemRecord, 0)
	for itemRows.Next() {
		var i ItemRecord
		if err := itemRows.Scan(&i.ID, &i.Title, &i.Description, &i.StoreName, &i.Type, &i.SectionID, &i.ProjectID); err != nil {
			return nil, nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, i)
	}
	if err := itemRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate items: %w", err)
	}

	return sections, items, nil
}
