package lorebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/dynamic-lorebook/internal/model"
)

func prob(v float64) *float64 { return &v }

func TestParseShiftMarker(t *testing.T) {
	tests := []struct {
		label  string
		parent string
		name   string
		ok     bool
	}{
		{"Dragon Lore [SHIFT:angry]", "Dragon Lore", "angry", true},
		{"[shift:night] Castle", "Castle", "night", true},
		{"[SHIFT:Dragon Lore]", "Dragon Lore", "Dragon Lore", true},
		{"Dragon Lore", "", "", false},
		{"Dragon Lore [SHIFT:]", "", "", false},
		{"Dragon Lore [SHIFT:angry", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			parent, name, ok := ParseShiftMarker(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.parent, parent)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestLoadBasic(t *testing.T) {
	entries := Load([]model.SourceEntry{
		{
			ID:                "1",
			Label:             "Dragon Lore",
			PrimaryKeywords:   []string{" Dragon* ", "", "WYRM"},
			SecondaryKeywords: []string{"priority:5 | trigger:fire"},
			Content:           "Dragons are ancient.",
			Probability:       prob(80),
		},
		{ID: "2", Content: "untitled"},
	})

	require.Len(t, entries, 2)
	e := entries[0]
	assert.Equal(t, "1", e.ID)
	assert.Equal(t, "Dragon Lore", e.Title)
	assert.Equal(t, []string{"dragon*", "wyrm"}, e.Keywords)
	assert.Equal(t, 5, e.Clauses.Priority)
	assert.Equal(t, []string{"fire"}, e.Clauses.Triggers)
	assert.Equal(t, 80, e.Probability)
	assert.NotNil(t, e.Shifts)
	assert.Empty(t, e.Shifts)

	assert.Equal(t, "Entry 2", entries[1].Title)
	assert.Equal(t, 100, entries[1].Probability)
	assert.Equal(t, 3, entries[1].Clauses.Priority)
}

func TestLoadSkipsDisabled(t *testing.T) {
	entries := Load([]model.SourceEntry{
		{ID: "1", Label: "A", Disabled: true},
		{ID: "2", Label: "B"},
		{ID: "3", Label: "B [SHIFT:x]", Disabled: true},
	})
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].Title)
	assert.Empty(t, entries[0].Shifts)
}

func TestLoadAttachesShiftsInOrder(t *testing.T) {
	entries := Load([]model.SourceEntry{
		{ID: "s1", Label: "Castle [SHIFT:night]", PrimaryKeywords: []string{"Night"}, Content: "dark", SecondaryKeywords: []string{"block:sun"}},
		{ID: "1", Label: "Castle", PrimaryKeywords: []string{"castle"}},
		{ID: "s2", Label: "Castle [SHIFT:siege]", PrimaryKeywords: []string{"siege"}, Content: "war", Probability: prob(50)},
	})

	require.Len(t, entries, 1)
	shifts := entries[0].Shifts
	require.Len(t, shifts, 2)
	assert.Equal(t, "night", shifts[0].Name)
	assert.Equal(t, "Castle", shifts[0].Parent)
	assert.Equal(t, []string{"night"}, shifts[0].Keywords)
	assert.Equal(t, []string{"sun"}, shifts[0].Clauses.RequireNone)
	assert.Equal(t, 100, shifts[0].Probability)
	assert.Equal(t, "siege", shifts[1].Name)
	assert.Equal(t, 50, shifts[1].Probability)
}

func TestLoadShiftTitleMatchIsExact(t *testing.T) {
	entries := Load([]model.SourceEntry{
		{ID: "1", Label: "castle"},
		{ID: "s", Label: "Castle [SHIFT:night]"},
	})
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Shifts)
}

func TestLoadProbabilityBounds(t *testing.T) {
	entries := Load([]model.SourceEntry{
		{ID: "1", Probability: prob(-5)},
		{ID: "2", Probability: prob(250)},
		{ID: "3", Probability: prob(33.6)},
		{ID: "4", Probability: prob(0)},
		{ID: "5", Probability: prob(0.5)},
		{ID: "6", Probability: prob(0.4)},
	})
	require.Len(t, entries, 6)
	assert.Equal(t, 0, entries[0].Probability)
	assert.Equal(t, 100, entries[1].Probability)
	assert.Equal(t, 34, entries[2].Probability)
	assert.Equal(t, 0, entries[3].Probability)
	// Fractions round half away from zero to whole percents.
	assert.Equal(t, 1, entries[4].Probability)
	assert.Equal(t, 0, entries[5].Probability)
}

func TestLoadEmpty(t *testing.T) {
	assert.Empty(t, Load(nil))
}

func TestOrphans(t *testing.T) {
	orphans := Orphans([]model.SourceEntry{
		{ID: "1", Label: "Castle"},
		{ID: "s1", Label: "Castle [SHIFT:night]"},
		{ID: "s2", Label: "Forest [SHIFT:rain]"},
		{ID: "s3", Label: "Forest [SHIFT:fog]"},
	})
	assert.Equal(t, []string{"Forest"}, orphans)
}
