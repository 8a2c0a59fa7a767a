package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string      `json:"db_path"`
	DBSizeBytes  int64       `json:"db_size_bytes"`
	TotalEntries int         `json:"total_entries"`
	TotalShifts  int         `json:"total_shifts"`
	Books        []BookStats `json:"books"`
}

const shiftLabel = `UPPER(label) LIKE '%[SHIFT:%'`

// Books returns per-book entry counts ordered by book name.
func (s *SQLiteStore) Books(ctx context.Context) ([]BookStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT book, COUNT(*),
		       SUM(CASE WHEN `+shiftLabel+` THEN 1 ELSE 0 END),
		       SUM(disabled)
		FROM entries GROUP BY book ORDER BY book`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []BookStats{}
	for rows.Next() {
		var b BookStats
		if err := rows.Scan(&b.Book, &b.Entries, &b.Shifts, &b.Disabled); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&st.TotalEntries)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE `+shiftLabel).Scan(&st.TotalShifts)

	books, err := s.Books(ctx)
	if err != nil {
		return st, err
	}
	st.Books = books
	return st, nil
}
