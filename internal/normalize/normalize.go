// Package normalize turns recent conversation turns into a keyword search string.
package normalize

import (
	"regexp"
	"strings"

	"github.com/rcliao/dynamic-lorebook/internal/model"
)

// DefaultDepth is the number of trailing turns scanned when none is configured.
const DefaultDepth = 2

var (
	disallowed = regexp.MustCompile(`[^a-z0-9_\s-]`)
	joiners    = regexp.MustCompile(`[-_]+`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, strips punctuation, collapses '-', '_' and
// whitespace runs into single spaces, and pads the result with one space on
// each side so word boundaries anchor at the edges. Empty input yields "  ".
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = disallowed.ReplaceAllString(s, " ")
	s = joiners.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	return " " + s + " "
}

// Window joins the last depth turns with single spaces and normalizes them.
// A non-positive depth uses DefaultDepth.
func Window(turns []model.Turn, depth int) model.TextWindow {
	if depth <= 0 {
		depth = DefaultDepth
	}
	start := len(turns) - depth
	if start < 0 {
		start = 0
	}

	parts := make([]string, 0, len(turns)-start)
	for _, t := range turns[start:] {
		parts = append(parts, t.Text)
	}
	raw := strings.Join(parts, " ")

	return model.TextWindow{
		Raw:          raw,
		Normalized:   Normalize(raw),
		MessageCount: len(turns),
	}
}
