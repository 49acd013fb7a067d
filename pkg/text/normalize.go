package text

import (
	"regexp"
	"strings"
)

var (
	paragraphBreakPattern = regexp.MustCompile(`[ \t]*\n\s*\n\s*`)
	lineBreakPattern      = regexp.MustCompile(`[ \t]*\n\s*`)
)

// Normalize collapses runs of whitespace while keeping line and paragraph breaks.
func Normalize(text string) string {
	text = strings.TrimSpace(text)

	// \a marks breaks while fields are collapsed
	text = strings.ReplaceAll(text, "\a", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	text = paragraphBreakPattern.ReplaceAllString(text, "\a\a")
	text = lineBreakPattern.ReplaceAllString(text, "\a")

	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, "\a", "\n")

	return strings.TrimSpace(text)
}
