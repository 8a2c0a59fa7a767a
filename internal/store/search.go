package store

import (
	"context"
	"fmt"
	"strings"
)

// Search finds entries whose label, keywords or content contain the query substring.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + likeEscaper.Replace(p.Query) + "%"

	where := []string{`(label LIKE ? ESCAPE '\' OR keys LIKE ? ESCAPE '\' OR secondary LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`}
	args := []interface{}{query, query, query, query}

	if p.Book != "" {
		where = append(where, "book = ?")
		args = append(args, p.Book)
	}

	sql := fmt.Sprintf(`
		SELECT book, uid, label, keys, secondary, content, probability, constant, disabled
		FROM entries
		WHERE %s
		ORDER BY book, seq
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var book string
		e, err := scanEntry(bookScanner{rows, &book})
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{Book: book, SourceEntry: e})
	}
	return results, rows.Err()
}

// likeEscaper makes LIKE wildcards in a query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// bookScanner peels a leading book column off before handing the rest to scanEntry.
type bookScanner struct {
	row  scanner
	book *string
}

func (b bookScanner) Scan(dest ...interface{}) error {
	return b.row.Scan(append([]interface{}{b.book}, dest...)...)
}
