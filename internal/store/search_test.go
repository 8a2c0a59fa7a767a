package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/dynamic-lorebook/internal/model"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.ImportBook(ctx, "castle", castleBook)
	require.NoError(t, err)
	_, err = s.ImportBook(ctx, "dragons", []model.SourceEntry{
		{ID: "1", Label: "Dragon Lore", PrimaryKeywords: []string{"dragon*"}, Content: "Dragons guard the castle."},
	})
	require.NoError(t, err)

	// Content across books
	results, err := s.Search(ctx, SearchParams{Query: "castle"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "castle", results[0].Book)
	assert.Equal(t, "dragons", results[2].Book)

	// Book filter
	results, err = s.Search(ctx, SearchParams{Book: "dragons", Query: "castle"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dragon Lore", results[0].Label)

	// Secondary keys
	results, err = s.Search(ctx, SearchParams{Query: "tag:ruins"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].ID)

	// Limit
	results, err = s.Search(ctx, SearchParams{Query: "castle", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// No results
	results, err = s.Search(ctx, SearchParams{Query: "javascript"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.ImportBook(ctx, "shop", []model.SourceEntry{
		{ID: "1", Label: "Sale", Content: "Everything 50% off."},
		{ID: "2", Label: "Forge", Content: "iron_ore smelts slowly."},
		{ID: "3", Label: "Plain", Content: "Nothing special here."},
	})
	require.NoError(t, err)

	results, err := s.Search(ctx, SearchParams{Query: "%"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sale", results[0].Label)

	// Unescaped, "_" would match the space in "Everything 50%".
	results, err = s.Search(ctx, SearchParams{Query: "g_5"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = s.Search(ctx, SearchParams{Query: "_"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Forge", results[0].Label)
}
