package index

import "strings"

// maxSlugLen caps derived identifiers.
const maxSlugLen = 50

// slugify derives a stable identifier from a title: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, edge hyphens
// trimmed, capped at maxSlugLen. Returns "" when nothing survives.
func slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}
