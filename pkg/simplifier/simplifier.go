package simplifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/elimu-ai/elimu/pkg/generator"
	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/retry"
)

const (
	// fixed score until readability is measured
	ReadabilityScore = 8.0

	MaxOutputTokens = 4096
)

type Simplifier struct {
	generator generator.Generator

	retry []retry.Option
}

type Option func(*Simplifier)

func WithRetry(options ...retry.Option) Option {
	return func(s *Simplifier) {
		s.retry = append(s.retry, options...)
	}
}

func New(generator generator.Generator, options ...Option) *Simplifier {
	s := &Simplifier{
		generator: generator,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *Simplifier) Simplify(ctx context.Context, text string, config *processing.SimplificationConfig) (*processing.SimplificationResult, error) {
	if config == nil {
		config = new(processing.SimplificationConfig)
	}

	if strings.TrimSpace(text) == "" {
		return nil, processing.Errorf(processing.KindInvalidInput, "simplify", "cannot simplify empty text")
	}

	if s.generator == nil {
		return nil, processing.Errorf(processing.KindConfigurationError, "simplify", "no text model configured")
	}

	length := utf8.RuneCountInString(text)

	req := generator.Request{
		Prompt: buildPrompt(text, config),

		MaxOutputTokens: MaxTokens(length),
	}

	options := append([]retry.Option{retry.WithOp("simplify")}, s.retry...)

	simplified, err := retry.Do(ctx, func(ctx context.Context) (string, error) {
		return s.generator.Generate(ctx, req)
	}, options...)

	if errors.Is(err, generator.ErrEmptyOutput) {
		return nil, processing.NewError(processing.KindSimplificationFailed, "simplify", "model returned no text", err)
	}

	if err != nil {
		return nil, processing.Wrap(err, processing.KindSimplificationFailed, "simplify", "failed to simplify text content")
	}

	simplified = strings.TrimSpace(simplified)

	if simplified == "" {
		return nil, processing.Errorf(processing.KindSimplificationFailed, "simplify", "model returned no text")
	}

	result := &processing.SimplificationResult{
		SimplifiedText: simplified,

		OriginalLength:   length,
		SimplifiedLength: utf8.RuneCountInString(simplified),

		ReadabilityScore:     ReadabilityScore,
		ReadabilityEstimated: true,
	}

	slog.DebugContext(ctx, "simplified text", "original", result.OriginalLength, "simplified", result.SimplifiedLength)

	return result, nil
}

// MaxTokens bounds the model output to twice the input length.
func MaxTokens(length int) int {
	return max(1, min(2*length, MaxOutputTokens))
}

func buildPrompt(text string, config *processing.SimplificationConfig) string {
	var sb strings.Builder

	sb.WriteString("You are an educational accessibility assistant. Simplify the following text to make it easier to understand for learners with diverse needs.\n\n")

	sb.WriteString("Guidelines:\n")
	fmt.Fprintf(&sb, "- Use simple, clear language (%s reading level)\n", readingLevel(config.ReadingLevel))
	sb.WriteString("- Break down complex concepts into digestible parts\n")
	sb.WriteString("- Maintain accuracy of information\n")
	sb.WriteString("- Keep the core meaning intact\n")
	sb.WriteString("- Use shorter sentences and paragraphs\n")

	if lang := language(config.Language); lang != "" {
		fmt.Fprintf(&sb, "- Write the simplified version in %s\n", lang)
	}

	sb.WriteString("\nText to simplify:\n")
	sb.WriteString(`"""`)
	sb.WriteString(text)
	sb.WriteString(`"""`)
	sb.WriteString("\n\nProvide the simplified version only, without explanations.")

	return sb.String()
}

func readingLevel(level processing.ReadingLevel) string {
	switch level {
	case processing.ReadingLevelElementary:
		return "5th grade"

	case processing.ReadingLevelHigh:
		return "10th grade"
	}

	return "8th grade"
}

func language(lang string) string {
	switch strings.ToLower(lang) {
	case "sw", "swahili", "kiswahili":
		return "Kiswahili"

	case "en", "english":
		return "English"
	}

	return lang
}
