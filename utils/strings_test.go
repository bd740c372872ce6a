package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "Photo Walk 2024", "Photo Walk 2024"},
		{"ampersand survives", "Tom & Jerry", "Tom & Jerry"},
		{"markup removed", "<b>Capture</b> club", "Capture club"},
		{"script removed", "Hello<script>alert(1)</script>", "Hello"},
		{"trimmed", "  spaced  ", "spaced"},
		{"entity encoded markup", "&lt;img src=x onerror=alert(1)&gt;Walk", "Walk"},
		{"double encoded markup", "&amp;lt;b&amp;gt;Expo&amp;lt;/b&amp;gt;", "Expo"},
		{"encoded ampersand", "Tom &amp; Jerry", "Tom & Jerry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.input))
		})
	}
}

func TestStripTagsLeavesNoMarkup(t *testing.T) {
	input := "&lt;script&gt;alert(1)&lt;/script&gt;&lt;img src=x onerror=alert(2)&gt;Capture"
	got := StripTags(input)

	assert.NotContains(t, got, "<")
	assert.Equal(t, got, StripTags(got))
}

func TestNormalizeStrings(t *testing.T) {
	input := []any{
		"CLUBS",
		map[string]any{"type": "tag", "value": "TECH"},
		nil,
		map[string]any{"type": "SPORTS"},
	}
	assert.Equal(t, []string{"CLUBS", "TECH", "SPORTS"}, NormalizeStrings(input))
	assert.Equal(t, []string{}, NormalizeStrings(nil))
}
