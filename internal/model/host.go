package model

import "time"

// SourceEntry is one record of the host's native lorebook collection.
type SourceEntry struct {
	ID                string   `json:"id"`
	Label             string   `json:"label"`
	PrimaryKeywords   []string `json:"primary_keywords"`
	SecondaryKeywords []string `json:"secondary_keywords,omitempty"`
	Content           string   `json:"content"`
	Probability       *float64 `json:"probability,omitempty"`
	Constant          bool     `json:"constant,omitempty"`
	Disabled          bool     `json:"disabled,omitempty"`
}

// Turn is one message of the host conversation.
type Turn struct {
	Name     string    `json:"name,omitempty"`
	Text     string    `json:"text"`
	IsUser   bool      `json:"is_user,omitempty"`
	IsSystem bool      `json:"is_system,omitempty"`
	SentAt   time.Time `json:"send_date,omitzero"`
}

// TextWindow is the normalized search text built from the most recent turns.
type TextWindow struct {
	Raw          string `json:"raw"`
	Normalized   string `json:"normalized"`
	MessageCount int    `json:"message_count"`
}

// Activation is one emitted record of a selection call: a plain entry, or a
// shift variant that immediately follows its parent.
type Activation struct {
	Content     string `json:"content"`
	IsShift     bool   `json:"is_shift"`
	ParentTitle string `json:"parent_title,omitempty"`
	SourceID    string `json:"source_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Priority    int    `json:"priority"`
	Pass        int    `json:"pass,omitempty"`
}
