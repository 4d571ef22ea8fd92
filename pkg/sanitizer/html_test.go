package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/kennel/pkg/sanitizer"
)

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Milo is the best boy", "Milo is the best boy"},
		{"tags stripped", "<b>Great</b> <i>pup</i>", "Great pup"},
		{"script removed", `<script>alert(1)</script>Hi`, "Hi"},
		{"entities decoded", "Tom &amp; Jerry", "Tom & Jerry"},
		{"trimmed", "  spaced  ", "spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.PlainText(tt.input))
		})
	}
}

func TestHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains []string
		absent   []string
	}{
		{
			name:     "keeps formatting",
			input:    "<p><strong>Loves</strong> walks</p>",
			contains: []string{"<p>", "<strong>Loves</strong>"},
		},
		{
			name:   "drops scripts and handlers",
			input:  `<p onclick="x()">Hi</p><script>steal()</script>`,
			absent: []string{"onclick", "<script", "steal"},
		},
		{
			name:     "links get nofollow",
			input:    `<a href="https://example.com">site</a>`,
			contains: []string{"nofollow", `target="_blank"`},
		},
		{
			name:   "javascript urls removed",
			input:  `<a href="javascript:alert(1)">x</a>`,
			absent: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizer.HTML(tt.input)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, got, s)
			}
		})
	}
}
