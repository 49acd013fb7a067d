package text

import "regexp"

var (
	headingPattern = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)

	// block level markdown features; text counts as markdown once two
	// distinct features are present, so a stray "#" or "-" in prose does not
	markdownFeatures = []*regexp.Regexp{
		headingPattern,
		regexp.MustCompile("(?m)^(```|~~~)"),
		regexp.MustCompile(`(?m)^\s*([-*+]|\d+[.)])\s+\S`),
		regexp.MustCompile(`!?\[[^\]]+\]\([^)]+\)`),
		regexp.MustCompile(`(?m)^>\s+\S`),
		regexp.MustCompile(`(?m)^\s*(-{3,}|\*{3,}|_{3,})\s*$`),
		regexp.MustCompile(`(?m)^\|.+\|\s*$`),
	}
)

// IsMarkdown reports whether text carries markdown block formatting.
func IsMarkdown(text string) bool {
	found := 0

	for _, pattern := range markdownFeatures {
		if !pattern.MatchString(text) {
			continue
		}

		found++

		if found >= 2 {
			return true
		}
	}

	return false
}
