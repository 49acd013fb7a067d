package text

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New().Parser()

// PlainText renders markdown as readable text, dropping markup such as
// heading markers, emphasis, link targets and code fences.
func PlainText(markdown string) string {
	if !IsMarkdown(markdown) && !hasInlineMarkup(markdown) {
		return strings.TrimSpace(markdown)
	}

	source := []byte(markdown)
	doc := markdownParser.Parse(text.NewReader(source))

	var blocks []string
	var sb strings.Builder

	flush := func() {
		if s := strings.TrimSpace(sb.String()); s != "" {
			blocks = append(blocks, s)
		}

		sb.Reset()
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n.Kind() {
		case ast.KindHeading, ast.KindParagraph, ast.KindTextBlock:
			if !entering {
				flush()
			}

			return ast.WalkContinue, nil

		case ast.KindListItem:
			if entering {
				flush()
			}

			return ast.WalkContinue, nil

		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			if entering {
				flush()

				lines := n.Lines()

				for i := 0; i < lines.Len(); i++ {
					segment := lines.At(i)
					sb.Write(segment.Value(source))
				}

				flush()
			}

			return ast.WalkSkipChildren, nil

		case ast.KindHTMLBlock, ast.KindRawHTML, ast.KindThematicBreak:
			return ast.WalkSkipChildren, nil

		case ast.KindText:
			if entering {
				t := n.(*ast.Text)

				sb.Write(t.Segment.Value(source))

				if t.SoftLineBreak() || t.HardLineBreak() {
					sb.WriteByte(' ')
				}
			}

		case ast.KindString:
			if entering {
				sb.Write(n.(*ast.String).Value)
			}

		case ast.KindAutoLink:
			if entering {
				sb.Write(n.(*ast.AutoLink).URL(source))
			}

			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	flush()

	return strings.Join(blocks, "\n\n")
}

var inlineMarkupPattern = regexp.MustCompile(`(\*\*|__)[^*_]+(\*\*|__)|` + "`[^`]+`" + `|!?\[([^\]]+)\]\(([^)]+)\)`)

func hasInlineMarkup(text string) bool {
	return headingPattern.MatchString(text) || inlineMarkupPattern.MatchString(text)
}

var codeFenceWrapPattern = regexp.MustCompile("(?s)^```[a-zA-Z0-9_-]*\\s*\\n?(.*?)\\n?\\s*```$")

// StripCodeFence removes a markdown code fence wrapping the whole text.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if m := codeFenceWrapPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	return text
}
