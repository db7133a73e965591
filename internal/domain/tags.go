package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NormalizeTags turns whatever shape the classifier produced for tags
// (null, a comma-separated string, a JSON-array-shaped string, a list of
// values, or a stray scalar) into trimmed non-empty strings in original
// order. Anything that yields nothing normalizes to nil, never to an
// empty slice.
func NormalizeTags(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "[") {
			var arr []any
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				return NormalizeTags(arr)
			}
		}
		return dropEmpty(strings.Split(s, ","))
	case []string:
		return dropEmpty(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, el := range t {
			if el == nil {
				continue
			}
			parts = append(parts, stringify(el))
		}
		return dropEmpty(parts)
	default:
		if s := strings.TrimSpace(stringify(t)); s != "" {
			return []string{s}
		}
		return nil
	}
}

// JoinTags renders tags in the canonical comma-joined storage form.
// nil keeps the column NULL when there are no tags.
func JoinTags(tags []string) *string {
	if len(tags) == 0 {
		return nil
	}
	s := strings.Join(tags, ",")
	return &s
}

// SplitTags reverses JoinTags.
func SplitTags(s *string) []string {
	if s == nil {
		return nil
	}
	return dropEmpty(strings.Split(*s, ","))
}

func dropEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; whole values print without ".0".
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
