// Package inject renders activations into a single system turn and places it
// in the conversation.
package inject

import (
	"strings"
	"time"

	"github.com/rcliao/dynamic-lorebook/internal/model"
)

// Header opens every compiled lore block.
const Header = "[Dynamic Lorebook Context]"

// SystemName is the speaker name of the injected turn.
const SystemName = "System"

// Compile joins activations in order. Shifts are introduced by a
// "[Shift: <parent>]" line. No activations compile to "".
func Compile(acts []model.Activation) string {
	if len(acts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n" + Header + "\n")
	for _, a := range acts {
		if a.IsShift {
			b.WriteString("\n[Shift: " + a.ParentTitle + "]\n" + a.Content + "\n")
			continue
		}
		b.WriteString("\n" + a.Content + "\n")
	}
	return b.String()
}

// Insert returns a copy of turns with a system turn holding text placed just
// before the last turn, or appended when turns is empty. Empty text leaves
// turns unchanged.
func Insert(turns []model.Turn, text string, now time.Time) []model.Turn {
	if text == "" {
		return turns
	}

	sys := model.Turn{
		Name:     SystemName,
		Text:     text,
		IsSystem: true,
		SentAt:   now,
	}

	out := make([]model.Turn, 0, len(turns)+1)
	if len(turns) == 0 {
		return append(out, sys)
	}
	out = append(out, turns[:len(turns)-1]...)
	out = append(out, sys, turns[len(turns)-1])
	return out
}
