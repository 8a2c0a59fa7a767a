// Package lorebook converts a host lorebook collection into the engine's
// typed entry and shift model.
package lorebook

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/rcliao/dynamic-lorebook/internal/model"
)

// ParseClauses parses secondary keys written in the clause mini-language:
//
//	priority:5 | trigger:ruins,night | requireAny:sword,axe | block:peace | tag:ruins
//
// Prefixes are case-insensitive, unknown clauses are ignored and a repeated
// prefix overwrites the earlier value. Keys are joined with spaces, except
// that a key starting with a known prefix always opens a new clause.
func ParseClauses(secondary []string) model.Clauses {
	c := model.Clauses{Priority: model.DefaultPriority}
	if len(secondary) == 0 {
		return c
	}

	for _, part := range strings.Split(joinKeys(secondary), "|") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "priority:"):
			c.Priority = parsePriority(clauseValue(part))
		case strings.HasPrefix(part, "trigger:"):
			c.Triggers = splitTerms(clauseValue(part))
		case strings.HasPrefix(part, "requireany:"):
			c.RequireAny = splitTerms(clauseValue(part))
		case strings.HasPrefix(part, "requireall:"):
			c.RequireAll = splitTerms(clauseValue(part))
		case strings.HasPrefix(part, "requirenone:"), strings.HasPrefix(part, "block:"):
			c.RequireNone = splitTerms(clauseValue(part))
		case strings.HasPrefix(part, "tag:"):
			c.Tag = strings.TrimSpace(clauseValue(part))
		}
	}
	return c
}

var clausePrefixes = []string{"priority:", "trigger:", "requireany:", "requireall:", "requirenone:", "block:", "tag:"}

func joinKeys(secondary []string) string {
	var b strings.Builder
	for i, k := range secondary {
		k = strings.ToLower(k)
		if i > 0 {
			if hasClausePrefix(k) {
				b.WriteString(" | ")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(k)
	}
	return b.String()
}

func hasClausePrefix(k string) bool {
	k = strings.TrimSpace(k)
	return lo.ContainsBy(clausePrefixes, func(p string) bool {
		return strings.HasPrefix(k, p)
	})
}

// clauseValue returns the text between the first and second ':'.
func clauseValue(part string) string {
	fields := strings.Split(part, ":")
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

func splitTerms(s string) []string {
	terms := lo.Map(strings.Split(s, ","), func(t string, _ int) string {
		return strings.TrimSpace(t)
	})
	return lo.Compact(terms)
}

// parsePriority reads a leading, optionally signed integer. Unparseable text
// and zero fall back to the default priority; clamping happens at bucketing.
func parsePriority(s string) int {
	n, ok := leadingInt(s)
	if !ok || n == 0 {
		return model.DefaultPriority
	}
	return n
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}
