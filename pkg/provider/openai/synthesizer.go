package openai

import (
	"context"
	"io"
	"strings"

	"github.com/elimu-ai/elimu/pkg/provider"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
)

var _ provider.Synthesizer = (*Synthesizer)(nil)

type Synthesizer struct {
	*Config
	speech openai.AudioSpeechService
}

func NewSynthesizer(url, model string, options ...Option) (*Synthesizer, error) {
	cfg := newConfig(url, model, options...)

	return &Synthesizer{
		Config: cfg,
		speech: openai.NewAudioSpeechService(cfg.requestOptions()...),
	}, nil
}

func (s *Synthesizer) Synthesize(ctx context.Context, content string, options *provider.SynthesizeOptions) (*provider.Synthesis, error) {
	if options == nil {
		options = new(provider.SynthesizeOptions)
	}

	format, contentType := convertFormat(options.Format)

	params := openai.AudioSpeechNewParams{
		Model: s.model,
		Input: content,

		Voice: convertVoice(options.Voice),

		ResponseFormat: format,
	}

	if options.Speed > 0 {
		params.Speed = openai.Float(min(max(options.Speed, 0.25), 4.0))
	}

	if instructions := speechInstructions(options); instructions != "" {
		params.Instructions = openai.String(instructions)
	}

	result, err := s.speech.New(ctx, params)

	if err != nil {
		return nil, convertError(err)
	}

	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)

	if err != nil {
		return nil, err
	}

	return &provider.Synthesis{
		ID:    uuid.NewString(),
		Model: s.model,

		Content:     data,
		ContentType: contentType,
	}, nil
}

func speechInstructions(options *provider.SynthesizeOptions) string {
	var parts []string

	if options.Instructions != "" {
		parts = append(parts, options.Instructions)
	}

	if options.Language != "" {
		parts = append(parts, "Speak in language: "+options.Language+".")
	}

	return strings.Join(parts, " ")
}
