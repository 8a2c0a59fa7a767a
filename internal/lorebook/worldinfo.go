package lorebook

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/rcliao/dynamic-lorebook/internal/model"
)

// rawEntry accepts both the SillyTavern world-info field names and the
// names written by SourceEntry's own JSON encoding.
type rawEntry struct {
	UID          flexString      `json:"uid"`
	ID           flexString      `json:"id"`
	Comment      string          `json:"comment"`
	Label        string          `json:"label"`
	Key          flexList        `json:"key"`
	Primary      flexList        `json:"primary_keywords"`
	KeySecondary clauseList      `json:"keysecondary"`
	Secondary    clauseList      `json:"secondary_keywords"`
	Content      string          `json:"content"`
	Probability  json.RawMessage `json:"probability"`
	Constant     bool            `json:"constant"`
	Disable      bool            `json:"disable"`
	Disabled     bool            `json:"disabled"`
}

func (r rawEntry) source() model.SourceEntry {
	return model.SourceEntry{
		ID:                firstNonEmpty(string(r.UID), string(r.ID)),
		Label:             firstNonEmpty(r.Comment, r.Label),
		PrimaryKeywords:   firstList(r.Key, r.Primary),
		SecondaryKeywords: firstList(flexList(r.KeySecondary), flexList(r.Secondary)),
		Content:           r.Content,
		Probability:       decodeProbability(r.Probability),
		Constant:          r.Constant,
		Disabled:          r.Disable || r.Disabled,
	}
}

// DecodeWorldInfo reads a lorebook document: a world-info object whose
// "entries" field is an array or a uid-keyed object, or a bare array of
// entries. Keyed entries are returned in ascending uid order.
func DecodeWorldInfo(r io.Reader) ([]model.SourceEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read world info")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty world info document")
	}

	if data[0] == '[' {
		return decodeEntryArray(data)
	}

	var doc struct {
		Entries json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse world info")
	}
	entries := bytes.TrimSpace(doc.Entries)
	if len(entries) == 0 || string(entries) == "null" {
		return nil, errors.New("world info has no entries field")
	}
	if entries[0] == '[' {
		return decodeEntryArray(entries)
	}

	var keyed map[string]rawEntry
	if err := json.Unmarshal(entries, &keyed); err != nil {
		return nil, errors.Wrap(err, "parse world info entries")
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})

	out := make([]model.SourceEntry, 0, len(keys))
	for _, k := range keys {
		src := keyed[k].source()
		if src.ID == "" {
			src.ID = k
		}
		out = append(out, src)
	}
	return out, nil
}

func decodeEntryArray(data []byte) ([]model.SourceEntry, error) {
	var raw []*rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse entry array")
	}
	out := make([]model.SourceEntry, 0, len(raw))
	for i, r := range raw {
		if r == nil {
			continue
		}
		src := r.source()
		if src.ID == "" {
			src.ID = strconv.Itoa(i)
		}
		out = append(out, src)
	}
	return out, nil
}

// decodeProbability accepts a number or numeric string; anything else is unset.
func decodeProbability(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &f
		}
	}
	return nil
}

// flexString decodes a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	// Booleans, objects and the like are treated as absent.
	*f = ""
	return nil
}

// flexList decodes a JSON string array or a single comma-separated string.
type flexList []string

func (f *flexList) UnmarshalJSON(b []byte) error {
	list, s, ok := decodeList(b)
	switch {
	case list != nil:
		*f = list
	case ok:
		*f = strings.Split(s, ",")
	default:
		*f = nil
	}
	return nil
}

// clauseList is like flexList, but a single string is kept whole: commas
// inside clause text separate terms, not keys.
type clauseList []string

func (c *clauseList) UnmarshalJSON(b []byte) error {
	list, s, ok := decodeList(b)
	switch {
	case list != nil:
		*c = list
	case ok && strings.TrimSpace(s) != "":
		*c = []string{s}
	default:
		*c = nil
	}
	return nil
}

// decodeList returns the string form of a JSON array, or the raw string when
// b holds a single JSON string. Other values decode to neither.
func decodeList(b []byte) ([]string, string, bool) {
	var list []any
	if err := json.Unmarshal(b, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, v := range list {
			switch t := v.(type) {
			case string:
				out = append(out, t)
			case float64:
				out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
			}
		}
		return out, "", false
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return nil, s, true
	}
	return nil, "", false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstList(lists ...flexList) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return []string(l)
		}
	}
	return nil
}
