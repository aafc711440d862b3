package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple title", "AI Literacy in Schools", "ai-literacy-in-schools"},
		{"punctuation collapsed", "GPT-4: What's Next?", "gpt-4-what-s-next"},
		{"edge hyphens trimmed", "  (Draft) Ethics!  ", "draft-ethics"},
		{"digits kept", "Top 10 Tools 2024", "top-10-tools-2024"},
		{"nothing survives", "!!! ???", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.title))
		})
	}

	t.Run("capped at 50 without edge hyphen", func(t *testing.T) {
		slug := slugify(strings.Repeat("word ", 30))
		assert.LessOrEqual(t, len(slug), 50)
		assert.False(t, strings.HasPrefix(slug, "-"))
		assert.False(t, strings.HasSuffix(slug, "-"))
	})
}
