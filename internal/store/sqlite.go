package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/rcliao/dynamic-lorebook/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create db dir")
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id          TEXT PRIMARY KEY,
		book        TEXT NOT NULL,
		seq         INTEGER NOT NULL,
		uid         TEXT NOT NULL,
		label       TEXT NOT NULL DEFAULT '',
		keys        TEXT,
		secondary   TEXT,
		content     TEXT NOT NULL DEFAULT '',
		probability REAL,
		constant    INTEGER NOT NULL DEFAULT 0,
		disabled    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_book_seq ON entries(book, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) ImportBook(ctx context.Context, book string, entries []model.SourceEntry) (int, error) {
	if book == "" {
		return 0, errors.New("book name is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE book = ?`, book); err != nil {
		return 0, errors.Wrap(err, "clear book")
	}

	for i, e := range entries {
		keys, _ := json.Marshal(e.PrimaryKeywords)
		secondary, _ := json.Marshal(e.SecondaryKeywords)

		var prob sql.NullFloat64
		if e.Probability != nil {
			prob = sql.NullFloat64{Float64: *e.Probability, Valid: true}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO entries (id, book, seq, uid, label, keys, secondary, content, probability, constant, disabled, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.newID(), book, i, e.ID, e.Label, string(keys), string(secondary), e.Content,
			prob, e.Constant, e.Disabled, now)
		if err != nil {
			return 0, errors.Wrapf(err, "insert entry %s", e.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *SQLiteStore) Entries(ctx context.Context, book string) ([]model.SourceEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, label, keys, secondary, content, probability, constant, disabled
		 FROM entries WHERE book = ? ORDER BY seq`, book)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.SourceEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, errors.Errorf("book not found: %s", book)
	}
	return entries, nil
}

func (s *SQLiteStore) RmBook(ctx context.Context, book string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE book = ?`, book)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return 0, errors.Errorf("book not found: %s", book)
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (model.SourceEntry, error) {
	var e model.SourceEntry
	var keys, secondary sql.NullString
	var prob sql.NullFloat64

	err := row.Scan(&e.ID, &e.Label, &keys, &secondary, &e.Content, &prob, &e.Constant, &e.Disabled)
	if err != nil {
		return e, err
	}

	if keys.Valid {
		json.Unmarshal([]byte(keys.String), &e.PrimaryKeywords)
	}
	if secondary.Valid {
		json.Unmarshal([]byte(secondary.String), &e.SecondaryKeywords)
	}
	if prob.Valid {
		p := prob.Float64
		e.Probability = &p
	}
	return e, nil
}
