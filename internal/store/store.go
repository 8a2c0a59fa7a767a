// Package store provides the lorebook storage interface and SQLite implementation.
package store

import (
	"context"

	"github.com/rcliao/dynamic-lorebook/internal/model"
)

// SearchParams holds parameters for searching entries.
type SearchParams struct {
	Book  string
	Query string
	Limit int
}

// SearchResult is a stored entry with the book it belongs to.
type SearchResult struct {
	Book string `json:"book"`
	model.SourceEntry
}

// BookStats holds per-book counts.
type BookStats struct {
	Book     string `json:"book"`
	Entries  int    `json:"entries"`
	Shifts   int    `json:"shifts"`
	Disabled int    `json:"disabled"`
}

// Store defines the lorebook storage interface.
type Store interface {
	// ImportBook replaces every entry of book with entries, keeping their order.
	ImportBook(ctx context.Context, book string, entries []model.SourceEntry) (int, error)

	// Entries returns the entries of book in source order.
	Entries(ctx context.Context, book string) ([]model.SourceEntry, error)

	// Search finds entries whose label, keywords or content contain the query.
	Search(ctx context.Context, p SearchParams) ([]SearchResult, error)

	// Books lists stored books.
	Books(ctx context.Context) ([]BookStats, error)

	// RmBook deletes a book. Returns the number of removed entries.
	RmBook(ctx context.Context, book string) (int, error)

	// Close closes the store.
	Close() error
}
