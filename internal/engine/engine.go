// Package engine selects which lore entries and shift variants activate for
// a window of conversation text.
package engine

import (
	"github.com/charmbracelet/log"

	"github.com/rcliao/dynamic-lorebook/internal/match"
	"github.com/rcliao/dynamic-lorebook/internal/model"
)

// DefaultLimit is the number of entries emitted per call before shift expansion.
const DefaultLimit = 6

// Engine runs selection calls. It holds no per-call state, so one Engine can
// serve any number of sequential calls.
type Engine struct {
	rng    Rand
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the source of probability draws.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine drawing from the global random source by default.
func New(opts ...Option) *Engine {
	e := &Engine{rng: globalRand{}}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = globalRand{}
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Result is the outcome of one selection call.
type Result struct {
	Activations []model.Activation `json:"activations"`
	RaisedTags  []string           `json:"raised_tags"`
	Candidates  int                `json:"candidates"`
}

type candidate struct {
	entry *model.LoreEntry
	pass  int
}

// Select runs both matching passes over entries, keeps at most limit of them
// by descending priority, and expands each survivor with its qualifying
// shift variants. A non-positive limit uses DefaultLimit.
func (e *Engine) Select(entries []model.LoreEntry, window model.TextWindow, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}
	text := window.Normalized

	var buckets [model.MaxPriority + 1][]candidate
	picked := map[string]bool{}
	raised := TagSet{}

	activate := func(entry *model.LoreEntry, pass int) {
		p := entry.ClampedPriority()
		buckets[p] = append(buckets[p], candidate{entry: entry, pass: pass})
		picked[entry.ID] = true
		raised.Add(entry.Clauses.Triggers...)
		e.logger.Debug("entry activated", "title", entry.Title, "id", entry.ID, "pass", pass, "priority", p, "triggers", entry.Clauses.Triggers)
	}

	// Pass 1: constants and direct keyword matches.
	for i := range entries {
		entry := &entries[i]
		if !entry.Constant && !match.HasAny(entry.Keywords, text) {
			continue
		}
		if !Passes(entry.Clauses, entry.Probability, text, raised, e.rng) {
			e.logger.Debug("entry rejected by conditions", "title", entry.Title, "pass", 1)
			continue
		}
		activate(entry, 1)
	}

	// Pass 2: tag cascade, a single forward sweep. Tags raised late in the
	// sweep do not revisit entries already passed over.
	for i := range entries {
		entry := &entries[i]
		if picked[entry.ID] {
			continue
		}
		if entry.Clauses.Tag == "" || !raised.Has(entry.Clauses.Tag) {
			continue
		}
		if !Passes(entry.Clauses, entry.Probability, text, raised, e.rng) {
			e.logger.Debug("entry rejected by conditions", "title", entry.Title, "pass", 2)
			continue
		}
		activate(entry, 2)
	}

	candidates := 0
	for _, b := range buckets {
		candidates += len(b)
	}

	var selected []candidate
	for p := model.MaxPriority; p >= model.MinPriority && len(selected) < limit; p-- {
		for _, c := range buckets[p] {
			if len(selected) >= limit {
				break
			}
			selected = append(selected, c)
		}
	}

	acts := make([]model.Activation, 0, len(selected))
	for _, c := range selected {
		entry := c.entry
		acts = append(acts, model.Activation{
			Content:  entry.Content,
			SourceID: entry.ID,
			Title:    entry.Title,
			Priority: entry.ClampedPriority(),
			Pass:     c.pass,
		})

		for _, shift := range entry.Shifts {
			if !match.HasAny(shift.Keywords, text) {
				continue
			}
			if !Passes(shift.Clauses, shift.Probability, text, raised, e.rng) {
				continue
			}
			e.logger.Debug("shift activated", "parent", entry.Title, "shift", shift.Name)
			acts = append(acts, model.Activation{
				Content:     shift.Content,
				IsShift:     true,
				ParentTitle: entry.Title,
				Priority:    entry.ClampedPriority(),
			})
		}
	}

	e.logger.Debug("selection complete", "candidates", candidates, "selected", len(selected), "emitted", len(acts), "messages", window.MessageCount)

	return Result{
		Activations: acts,
		RaisedTags:  raised.Sorted(),
		Candidates:  candidates,
	}
}
