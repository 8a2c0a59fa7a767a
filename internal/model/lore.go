// Package model defines the core lorebook data types.
package model

// Default values applied when a source entry leaves a field unset.
const (
	DefaultPriority    = 3
	DefaultProbability = 100
	MinPriority        = 1
	MaxPriority        = 5
)

// Clauses holds the parsed secondary-key mini-language of an entry or shift.
type Clauses struct {
	Priority    int      `json:"priority"`
	Triggers    []string `json:"triggers,omitempty"`
	RequireAny  []string `json:"require_any,omitempty"`
	RequireAll  []string `json:"require_all,omitempty"`
	RequireNone []string `json:"require_none,omitempty"`
	Tag         string   `json:"tag,omitempty"`
}

// LoreEntry is the primary activatable unit.
type LoreEntry struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Keywords    []string       `json:"keywords"`
	Content     string         `json:"content"`
	Probability int            `json:"probability"`
	Constant    bool           `json:"constant,omitempty"`
	Clauses     Clauses        `json:"clauses"`
	Shifts      []ShiftVariant `json:"shifts"`
}

// ClampedPriority returns the entry priority bounded to [MinPriority, MaxPriority].
func (e LoreEntry) ClampedPriority() int {
	return ClampPriority(e.Clauses.Priority)
}

// ShiftVariant is conditional sub-content that rides along with an activated parent.
// Priority, triggers and tag in its clauses are parsed but never consulted.
type ShiftVariant struct {
	Name        string   `json:"name,omitempty"`
	Parent      string   `json:"parent"`
	Keywords    []string `json:"keywords"`
	Content     string   `json:"content"`
	Probability int      `json:"probability"`
	Clauses     Clauses  `json:"clauses"`
}

// ClampPriority bounds p to [MinPriority, MaxPriority].
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}
