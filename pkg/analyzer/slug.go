package analyzer

import "strings"

// Slugify lowercases name and collapses every run of characters outside
// [a-z0-9] into a single hyphen, trimming hyphens at both ends.
// "Notion & Co." becomes "notion-co".
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}
