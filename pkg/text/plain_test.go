package text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	input := "# Photosynthesis\n\nPlants use **sunlight** to make food.\nThey need [water](https://example.com/water).\n\n- Leaves\n- Roots\n"

	require.Equal(t, "Photosynthesis\n\nPlants use sunlight to make food. They need water.\n\nLeaves\n\nRoots", PlainText(input))
}

func TestPlainTextInlineMarkup(t *testing.T) {
	require.Equal(t, "Plants use sunlight to make food.", PlainText("Plants use **sunlight** to make food."))
	require.Equal(t, "Run go test now.", PlainText("Run `go test` now."))
}

func TestPlainTextPassthrough(t *testing.T) {
	require.Equal(t, "Just a sentence.", PlainText("  Just a sentence.  "))
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"```json\n[{\"type\":\"diagram\"}]\n```": `[{"type":"diagram"}]`,
		"```\n[]\n```":                          "[]",
		"  [1, 2]  ":                            "[1, 2]",
		"```json[]```":                          "[]",
	}

	for input, want := range tests {
		require.Equal(t, want, StripCodeFence(input), input)
	}
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "a b\n\nc\nd", Normalize("  a   b \r\n\r\n\r\nc\n   d  "))
}

func TestIsMarkdown(t *testing.T) {
	require.True(t, IsMarkdown("# Title\n\n- item\n- item"))
	require.False(t, IsMarkdown("plain text with a # in it"))
}
