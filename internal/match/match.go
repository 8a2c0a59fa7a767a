// Package match implements word-boundary keyword matching with prefix wildcards.
package match

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const patternCacheSize = 1024

var patterns *lru.Cache[string, *regexp.Regexp]

func init() {
	c, err := lru.New[string, *regexp.Regexp](patternCacheSize)
	if err != nil {
		panic(err)
	}
	patterns = c
}

// Matches reports whether normalized text contains term as a whole word.
// A trailing '*' makes term a prefix: "drag*" matches "drag", "dragon" and
// "dragonfly" but not "adragon". Empty terms never match.
func Matches(term, text string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	return pattern(term).MatchString(text)
}

// HasAny reports whether any keyword matches text, stopping at the first hit.
func HasAny(keywords []string, text string) bool {
	for _, kw := range keywords {
		if Matches(kw, text) {
			return true
		}
	}
	return false
}

func pattern(term string) *regexp.Regexp {
	if re, ok := patterns.Get(term); ok {
		return re
	}

	var expr string
	if stem, ok := strings.CutSuffix(term, "*"); ok {
		expr = `(?i)\b` + regexp.QuoteMeta(stem) + `\w*\b`
	} else {
		expr = `(?i)\b` + regexp.QuoteMeta(term) + `\b`
	}
	re := regexp.MustCompile(expr)
	patterns.Add(term, re)
	return re
}
