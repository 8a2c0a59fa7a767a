package engine

import (
	"math/rand/v2"
	"sort"

	"github.com/rcliao/dynamic-lorebook/internal/match"
	"github.com/rcliao/dynamic-lorebook/internal/model"
)

// Rand supplies uniform draws in [0, 1) for the probability gate.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// TagSet is the set of trigger tags raised during one selection call.
type TagSet map[string]struct{}

// Add raises every tag.
func (s TagSet) Add(tags ...string) {
	for _, t := range tags {
		s[t] = struct{}{}
	}
}

// Has reports whether tag has been raised.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the raised tags in lexical order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Passes evaluates require-any, require-all and require-none clauses in that
// order, then rolls the probability gate once. The roll is skipped when a
// clause has already failed.
func Passes(c model.Clauses, probability int, text string, raised TagSet, rng Rand) bool {
	if len(c.RequireAny) > 0 && !match.HasAny(c.RequireAny, text) {
		return false
	}
	for _, term := range c.RequireAll {
		if !match.Matches(term, text) {
			return false
		}
	}
	if len(c.RequireNone) > 0 && match.HasAny(c.RequireNone, text) {
		return false
	}

	if rng == nil {
		rng = globalRand{}
	}
	return rng.Float64() <= float64(probability)/100
}
