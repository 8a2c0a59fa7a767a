package lorebook

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/rcliao/dynamic-lorebook/internal/model"
)

var shiftMarker = regexp.MustCompile(`(?i)\[SHIFT:([^\]]+)\]`)

// ParseShiftMarker detects a "[SHIFT:name]" marker in a label. The parent
// title is the label with the marker removed; a label holding only the
// marker names its parent inside the brackets instead.
func ParseShiftMarker(label string) (parent, name string, ok bool) {
	loc := shiftMarker.FindStringSubmatchIndex(label)
	if loc == nil {
		return "", "", false
	}
	name = strings.TrimSpace(label[loc[2]:loc[3]])
	parent = strings.TrimSpace(label[:loc[0]] + label[loc[1]:])
	if parent == "" {
		parent = name
	}
	return parent, name, true
}

// Load builds lore entries from a source collection. Disabled sources are
// skipped, shift-marked sources are attached to the entry whose title equals
// their parent exactly, and shifts without a parent are dropped.
func Load(sources []model.SourceEntry) []model.LoreEntry {
	var entries []model.LoreEntry
	pending := map[string][]model.ShiftVariant{}

	for _, src := range sources {
		if src.Disabled {
			continue
		}

		if parent, name, ok := ParseShiftMarker(src.Label); ok {
			pending[parent] = append(pending[parent], model.ShiftVariant{
				Name:        name,
				Parent:      parent,
				Keywords:    parseKeywords(src.PrimaryKeywords),
				Content:     src.Content,
				Probability: parseProbability(src.Probability),
				Clauses:     ParseClauses(src.SecondaryKeywords),
			})
			continue
		}

		title := src.Label
		if title == "" {
			title = "Entry " + src.ID
		}
		entries = append(entries, model.LoreEntry{
			ID:          src.ID,
			Title:       title,
			Keywords:    parseKeywords(src.PrimaryKeywords),
			Content:     src.Content,
			Probability: parseProbability(src.Probability),
			Constant:    src.Constant,
			Clauses:     ParseClauses(src.SecondaryKeywords),
		})
	}

	for i := range entries {
		entries[i].Shifts = slices.Clone(pending[entries[i].Title])
		if entries[i].Shifts == nil {
			entries[i].Shifts = []model.ShiftVariant{}
		}
	}

	return entries
}

// Orphans returns the parent titles of shifts that have no matching entry.
func Orphans(sources []model.SourceEntry) []string {
	titles := map[string]bool{}
	for _, e := range Load(sources) {
		titles[e.Title] = true
	}

	var orphans []string
	for _, src := range sources {
		if src.Disabled {
			continue
		}
		if parent, _, ok := ParseShiftMarker(src.Label); ok && !titles[parent] {
			orphans = append(orphans, parent)
		}
	}
	return lo.Uniq(orphans)
}

func parseKeywords(keys []string) []string {
	kws := lo.Map(keys, func(k string, _ int) string {
		return strings.ToLower(strings.TrimSpace(k))
	})
	return lo.Compact(kws)
}

func parseProbability(p *float64) int {
	if p == nil || math.IsNaN(*p) {
		return model.DefaultProbability
	}
	v := math.Round(*p)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
