package core

// Ellipsis marks text that was cut at a length cap.
const Ellipsis = "..."

// Length caps applied during a catalog build pass.
const (
	// MaxTitleLen is the cap for entry titles.
	MaxTitleLen = 100
	// MaxSnippetLen is the cap for annotation snippets.
	MaxSnippetLen = 200
)

// Truncate caps s at max runes. Strings at or under the cap are returned
// unchanged; longer strings are cut to exactly max runes with the ellipsis
// marker appended.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + Ellipsis
}
