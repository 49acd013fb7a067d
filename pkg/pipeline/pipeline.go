package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/elimu-ai/elimu/pkg/narrator"
	"github.com/elimu-ai/elimu/pkg/processing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Extractor interface {
	Extract(ctx context.Context, ref string) (*processing.ExtractionResult, error)
}

type Simplifier interface {
	Simplify(ctx context.Context, text string, config *processing.SimplificationConfig) (*processing.SimplificationResult, error)
}

type Narrator interface {
	Speak(ctx context.Context, text string, options *narrator.SpeakOptions) (*processing.AudioResult, error)
}

type Visualizer interface {
	Generate(ctx context.Context, text string, config *processing.VisualsConfig) processing.VisualAidsResult
}

type Pipeline struct {
	extractor  Extractor
	simplifier Simplifier

	narrator   Narrator
	visualizer Visualizer

	logger *slog.Logger
	tracer trace.Tracer

	now func() time.Time
}

type Option func(*Pipeline)

func WithNarrator(n Narrator) Option {
	return func(p *Pipeline) {
		p.narrator = n
	}
}

func WithVisualizer(v Visualizer) Option {
	return func(p *Pipeline) {
		p.visualizer = v
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func New(extractor Extractor, simplifier Simplifier, options ...Option) (*Pipeline, error) {
	if extractor == nil {
		return nil, errors.New("extractor is required")
	}

	if simplifier == nil {
		return nil, errors.New("simplifier is required")
	}

	p := &Pipeline{
		extractor:  extractor,
		simplifier: simplifier,

		logger: slog.Default(),
		tracer: otel.Tracer("github.com/elimu-ai/elimu/pkg/pipeline"),

		now: time.Now,
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

// Process runs extract, simplify, narrate and visualize in order.
//
// Extraction and simplification failures abort the run. Narration and
// visualization failures are reported in the result. Cancellation is only
// observed between stages.
func (p *Pipeline) Process(ctx context.Context, ref string, config *processing.Config) (*processing.Result, error) {
	if config == nil {
		config = new(processing.Config)
	}

	start := time.Now()

	ctx, span := p.tracer.Start(ctx, "process document", trace.WithAttributes(attribute.String("elimu.document_uri", ref)))
	defer span.End()

	// stages finish once started
	stageCtx := context.WithoutCancel(ctx)

	fail := func(stage string, err error) error {
		err = p.fail(err, time.Since(start))

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		p.logger.ErrorContext(ctx, "document processing failed", "stage", stage, "uri", ref, "elapsed", time.Since(start), "error", err)

		return err
	}

	if err := ctx.Err(); err != nil {
		return nil, fail("extract", canceled(err))
	}

	p.logger.InfoContext(ctx, "processing document", "stage", "extract", "uri", ref)

	extraction, err := p.extractor.Extract(stageCtx, ref)

	if err != nil {
		return nil, fail("extract", err)
	}

	p.logger.InfoContext(ctx, "text extracted", "stage", "extract", "chars", len([]rune(extraction.RawText)), "pages", extraction.PageCount, "method", extraction.Metadata.ExtractionMethod, "elapsed", time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, fail("simplify", canceled(err))
	}

	simplification, err := p.simplifier.Simplify(stageCtx, extraction.RawText, &config.Simplification)

	if err != nil {
		return nil, fail("simplify", err)
	}

	p.logger.InfoContext(ctx, "text simplified", "stage", "simplify", "chars", simplification.SimplifiedLength, "elapsed", time.Since(start))

	audio := p.narrate(ctx, stageCtx, simplification.SimplifiedText, &config.Audio)
	images := p.visualize(ctx, stageCtx, simplification.SimplifiedText, &config.Visuals)

	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.String("elimu.extraction_method", extraction.Metadata.ExtractionMethod),
		attribute.Int("elimu.page_count", extraction.PageCount),
		attribute.String("elimu.audio_status", string(audio.Status)),
		attribute.String("elimu.images_status", string(images.Status)),
	)

	p.logger.InfoContext(ctx, "document processed", "uri", ref, "elapsed", elapsed, "audio", audio.Status, "images", images.Status, "visuals", len(images.Images))

	return &processing.Result{
		Text: simplification.SimplifiedText,

		Audio:  audio,
		Images: images,

		Metadata: processing.ResultMetadata{
			ProcessingTimeMs: elapsed.Milliseconds(),
			DocumentURI:      ref,
			Timestamp:        p.now().UTC(),

			ExtractionMethod: extraction.Metadata.ExtractionMethod,

			OriginalLength:   simplification.OriginalLength,
			SimplifiedLength: simplification.SimplifiedLength,

			PageCount: extraction.PageCount,
		},
	}, nil
}

func (p *Pipeline) narrate(ctx, stageCtx context.Context, text string, config *processing.AudioConfig) processing.AudioResult {
	failed := func(message string) processing.AudioResult {
		return processing.AudioResult{
			Format: processing.AudioFormatTTS,
			Status: processing.StatusFailed,
			Error:  message,
		}
	}

	if ctx.Err() != nil {
		return failed("canceled")
	}

	if config.Disabled {
		return failed("disabled")
	}

	if p.narrator == nil {
		return failed("no speech engine configured")
	}

	start := time.Now()

	audio, err := p.narrator.Speak(stageCtx, text, &narrator.SpeakOptions{
		Voice:    config.Voice,
		Language: config.Language,

		Rate:  config.Speed,
		Pitch: config.Pitch,
	})

	if err != nil {
		p.logger.WarnContext(ctx, "narration failed", "stage", "narrate", "error", err)
		return failed(err.Error())
	}

	p.logger.InfoContext(ctx, "narration started", "stage", "narrate", "duration", audio.Duration, "elapsed", time.Since(start))

	return *audio
}

func (p *Pipeline) visualize(ctx, stageCtx context.Context, text string, config *processing.VisualsConfig) processing.VisualAidsResult {
	failed := func(message string) processing.VisualAidsResult {
		return processing.VisualAidsResult{
			Images: []processing.VisualAid{},

			Status: processing.StatusFailed,
			Error:  message,
		}
	}

	if ctx.Err() != nil {
		return failed("canceled")
	}

	if config.Disabled {
		return failed("disabled")
	}

	if p.visualizer == nil {
		return failed("no visualizer configured")
	}

	start := time.Now()

	result := p.visualizer.Generate(stageCtx, text, config)

	if result.Images == nil {
		result.Images = []processing.VisualAid{}
	}

	p.logger.InfoContext(ctx, "visual aids generated", "stage", "visualize", "status", result.Status, "count", len(result.Images), "elapsed", time.Since(start))

	return result
}

func (p *Pipeline) fail(err error, elapsed time.Duration) error {
	if perr, ok := err.(*processing.Error); ok {
		result := *perr
		result.Elapsed = elapsed

		return &result
	}

	var perr *processing.Error

	if !errors.As(err, &perr) {
		return &processing.Error{
			Kind: processing.KindProcessingFailed,
			Op:   "process",

			Message: "document processing failed",
			Elapsed: elapsed,

			Err: err,
		}
	}

	// keep the caller's context around the classified error
	return &processing.Error{
		Kind: perr.Kind,
		Op:   "process",

		Attempts: perr.Attempts,
		Elapsed:  elapsed,

		Err: err,
	}
}

func canceled(err error) error {
	return processing.NewError(processing.KindProcessingFailed, "process", "canceled", err)
}
