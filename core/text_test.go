package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("long title cut to cap plus ellipsis", func(t *testing.T) {
		title := strings.Repeat("a", 150)
		got := Truncate(title, MaxTitleLen)
		assert.Equal(t, strings.Repeat("a", 100)+Ellipsis, got)
		assert.Len(t, got, 103)
	})

	t.Run("short title unchanged", func(t *testing.T) {
		title := strings.Repeat("b", 90)
		assert.Equal(t, title, Truncate(title, MaxTitleLen))
	})

	t.Run("exact length unchanged", func(t *testing.T) {
		title := strings.Repeat("c", 100)
		assert.Equal(t, title, Truncate(title, MaxTitleLen))
	})

	t.Run("empty string", func(t *testing.T) {
		assert.Equal(t, "", Truncate("", MaxSnippetLen))
	})

	t.Run("multibyte runes counted as one", func(t *testing.T) {
		s := strings.Repeat("é", 120)
		got := Truncate(s, MaxTitleLen)
		assert.Equal(t, strings.Repeat("é", 100)+Ellipsis, got)
	})

	t.Run("non-positive cap disables truncation", func(t *testing.T) {
		s := strings.Repeat("d", 500)
		assert.Equal(t, s, Truncate(s, 0))
	})
}
