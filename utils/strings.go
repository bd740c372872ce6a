package utils

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

const maxStripPasses = 8

// StripTags removes any markup from admin supplied text. Entities escaped by the
// policy are decoded again since values are stored as plain text. Decoding can
// expose markup that was sent entity encoded, so passes repeat until the value
// is stable. Input that never settles is returned in its escaped form.
func StripTags(s string) string {
	for i := 0; i < maxStripPasses; i++ {
		next := html.UnescapeString(strict.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(strict.Sanitize(s))
}

// NormalizeStrings flattens a stored or decoded list into plain strings. Older
// documents stored tags as {type, value} objects; those collapse to their value.
func NormalizeStrings(items []any) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case nil:
			continue
		case string:
			result = append(result, v)
		case map[string]any:
			if value, ok := v["value"].(string); ok {
				result = append(result, value)
			} else if t, ok := v["type"].(string); ok {
				result = append(result, t)
			}
		default:
			result = append(result, fmt.Sprint(v))
		}
	}
	return result
}

// StripTagsPtr is StripTags for optional fields; nil stays nil.
func StripTagsPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return ToPointer(StripTags(*s))
}
