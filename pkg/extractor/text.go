package extractor

import (
	"path"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/elimu-ai/elimu/pkg/text"
)

var TextExtensions = []string{
	".txt",
	".text",
	".md",
}

// IsText reports whether a document can be read without a model call.
func IsText(name string, content []byte) bool {
	ext := strings.ToLower(path.Ext(name))

	if !slices.Contains(TextExtensions, ext) {
		return false
	}

	return utf8.Valid(content)
}

func normalizeText(content []byte) string {
	return text.Normalize(string(content))
}
