package store

import (
	"context"

	"github.com/rcliao/dynamic-lorebook/internal/model"
)

// ExportAll returns every stored entry grouped by book, optionally limited to one book.
func (s *SQLiteStore) ExportAll(ctx context.Context, book string) (map[string][]model.SourceEntry, error) {
	query := `SELECT book, uid, label, keys, secondary, content, probability, constant, disabled
	          FROM entries`
	args := []interface{}{}
	if book != "" {
		query += ` WHERE book = ?`
		args = append(args, book)
	}
	query += ` ORDER BY book, seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]model.SourceEntry{}
	for rows.Next() {
		var b string
		e, err := scanEntry(bookScanner{rows, &b})
		if err != nil {
			return nil, err
		}
		out[b] = append(out[b], e)
	}
	return out, rows.Err()
}
