// Package models defines core data structures for candidates, job postings, and match results.
package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is one row of a keyed table: column name to cell text.
type Record map[string]string

// Get returns the value of the first key present in r with non-blank content.
// Keys are matched exactly first, then case-insensitively; when several
// columns differ only in case, the lexically smallest column name wins.
func (r Record) Get(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	names := make([]string, 0, len(r))
	for rk := range r {
		names = append(names, rk)
	}
	sort.Strings(names)
	for _, k := range keys {
		for _, rk := range names {
			if v := strings.TrimSpace(r[rk]); v != "" && strings.EqualFold(rk, k) {
				return v
			}
		}
	}
	return ""
}

// UnmarshalJSON accepts an object whose values are strings, numbers, booleans
// or null. Nested values are kept as their JSON text.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Record, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		switch t := val.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		default:
			out[k] = string(v)
		}
	}
	*r = out
	return nil
}

// SkillList is a list of skills that decodes from either a JSON array of
// strings or a single comma-separated string.
type SkillList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = ParseSkills(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("skills must be a string or a list of strings")
	}
	out := make(SkillList, 0, len(list))
	for _, item := range list {
		out = append(out, ParseSkills(item)...)
	}
	*s = out
	return nil
}

// String returns the canonical comma-separated form.
func (s SkillList) String() string {
	return strings.Join(s, ", ")
}

// ParseSkills splits a comma-separated skills string into trimmed, non-empty entries.
func ParseSkills(text string) SkillList {
	parts := strings.Split(text, ",")
	out := make(SkillList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
