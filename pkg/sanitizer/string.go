package sanitizer

import (
	"strings"
	"unicode"
)

// CollapseWhitespace trims s, drops control characters and joins the
// remaining words with single spaces.
func CollapseWhitespace(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(cleaned), " ")
}

func NormalizeName(name string) string {
	return CollapseWhitespace(name)
}

func NormalizeOrganizer(organizer string) string {
	return CollapseWhitespace(organizer)
}

// NormalizeNameForComparison returns the key used to match room names
// regardless of case and spacing.
func NormalizeNameForComparison(name string) string {
	return strings.ToLower(CollapseWhitespace(name))
}
