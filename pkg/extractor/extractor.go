package extractor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/elimu-ai/elimu/pkg/document"
	"github.com/elimu-ai/elimu/pkg/generator"
	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/provider"
	"github.com/elimu-ai/elimu/pkg/retry"
)

const (
	MethodNative     = "native"
	MethodMultimodal = "gemini-multimodal"

	// characters per page for the estimated page count
	charsPerPage = 500
)

const extractPrompt = `Extract all text content from this document.

Instructions:
- Preserve the original structure, headings and paragraphs
- Keep lists and numbering as they appear
- If the document is scanned or an image, perform OCR on it
- Do not summarize, translate or add commentary

Return only the extracted text.`

type Extractor struct {
	source    *document.Source
	generator generator.Generator

	retry []retry.Option
}

type Option func(*Extractor)

func WithRetry(options ...retry.Option) Option {
	return func(e *Extractor) {
		e.retry = append(e.retry, options...)
	}
}

func New(source *document.Source, generator generator.Generator, options ...Option) *Extractor {
	if source == nil {
		source = document.New()
	}

	e := &Extractor{
		source:    source,
		generator: generator,
	}

	for _, option := range options {
		option(e)
	}

	return e
}

func (e *Extractor) Extract(ctx context.Context, ref string) (*processing.ExtractionResult, error) {
	doc, err := e.source.Open(ctx, ref)

	if err != nil {
		return nil, processing.Wrap(err, processing.KindExtractionFailed, "extract", "failed to open document")
	}

	contentType := MimeType(doc.Name)

	metadata := processing.ExtractionMetadata{
		FileName: doc.Name,
		FileSize: doc.Size,
		MIMEType: contentType,
	}

	var text string

	if IsText(doc.Name, doc.Content) {
		metadata.MIMEType = "text/plain"
		metadata.ExtractionMethod = MethodNative

		text = strings.TrimSpace(normalizeText(doc.Content))
	} else {
		if e.generator == nil {
			return nil, processing.Errorf(processing.KindConfigurationError, "extract", "no text model configured")
		}

		metadata.ExtractionMethod = MethodMultimodal

		if contentType == "application/pdf" {
			metadata.Pages = pageCount(doc.Content)
		}

		req := generator.Request{
			Prompt: extractPrompt,

			File: &provider.File{
				Name:        doc.Name,
				Content:     doc.Content,
				ContentType: contentType,
			},
		}

		options := append([]retry.Option{retry.WithOp("extract")}, e.retry...)

		text, err = retry.Do(ctx, func(ctx context.Context) (string, error) {
			return e.generator.Generate(ctx, req)
		}, options...)

		if errors.Is(err, generator.ErrEmptyOutput) {
			return nil, processing.NewError(processing.KindExtractionFailed, "extract", "no text found in document", err)
		}

		if err != nil {
			return nil, processing.Wrap(err, processing.KindExtractionFailed, "extract", "failed to extract text from document")
		}

		text = strings.TrimSpace(text)
	}

	if text == "" {
		return nil, processing.Errorf(processing.KindExtractionFailed, "extract", "no text found in document")
	}

	result := &processing.ExtractionResult{
		RawText: text,

		PageCount:          EstimatePageCount(text),
		PageCountEstimated: true,

		Metadata: metadata,
	}

	slog.DebugContext(ctx, "extracted text", "file", doc.Name, "method", metadata.ExtractionMethod, "chars", utf8.RuneCountInString(text), "pages", result.PageCount)

	return result, nil
}

// EstimatePageCount derives a page count from text length. It is a
// heuristic and does not reflect the layout of the source document.
func EstimatePageCount(text string) int {
	n := utf8.RuneCountInString(text)

	pages := (n + charsPerPage - 1) / charsPerPage

	return max(1, pages)
}
