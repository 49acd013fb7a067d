package visualizer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/elimu-ai/elimu/pkg/generator"
	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/provider"
	"github.com/elimu-ai/elimu/pkg/text"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const PlaceholderPrefix = "placeholder://visual-aid/"

const renderConcurrency = 3

type Visualizer struct {
	generator generator.Generator
	renderer  provider.Renderer

	outputDir string
	logger    *slog.Logger
}

type Option func(*Visualizer)

// WithRenderer enables image generation. Without a renderer every
// suggestion is returned with a placeholder URL.
func WithRenderer(renderer provider.Renderer) Option {
	return func(v *Visualizer) {
		v.renderer = renderer
	}
}

// WithOutputDir writes rendered images to dir instead of returning data URIs.
func WithOutputDir(dir string) Option {
	return func(v *Visualizer) {
		v.outputDir = dir
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(v *Visualizer) {
		v.logger = logger
	}
}

func New(generator generator.Generator, options ...Option) *Visualizer {
	v := &Visualizer{
		generator: generator,
		logger:    slog.Default(),
	}

	for _, option := range options {
		option(v)
	}

	return v
}

// Generate suggests and renders visual aids. Failures never escape: they
// are reported through the result status.
func (v *Visualizer) Generate(ctx context.Context, input string, config *processing.VisualsConfig) processing.VisualAidsResult {
	if config == nil {
		config = new(processing.VisualsConfig)
	}

	suggestions, err := v.Suggest(ctx, input, config)

	if err != nil {
		v.logger.Warn("visual aid suggestion failed", "error", err)

		return processing.VisualAidsResult{
			Images: []processing.VisualAid{},

			Status: processing.StatusFailed,
			Error:  err.Error(),
		}
	}

	images := v.Render(ctx, suggestions)

	return processing.VisualAidsResult{
		Images: images,
		Status: processing.StatusReady,
	}
}

// Suggest asks the text model for visual aids that fit the content.
func (v *Visualizer) Suggest(ctx context.Context, input string, config *processing.VisualsConfig) ([]processing.VisualAid, error) {
	if config == nil {
		config = new(processing.VisualsConfig)
	}

	if strings.TrimSpace(input) == "" {
		return nil, processing.Errorf(processing.KindInvalidInput, "visuals", "cannot generate visuals from empty text")
	}

	if v.generator == nil {
		return nil, processing.Errorf(processing.KindConfigurationError, "visuals", "no text model configured")
	}

	schema, err := suggestionSchema()

	if err != nil {
		return nil, processing.NewError(processing.KindVisualGenerationFailed, "visuals", "failed to build response schema", err)
	}

	output, err := v.generator.Generate(ctx, generator.Request{
		Prompt: buildPrompt(input, config),

		Format: provider.CompletionFormatJSON,
		Schema: schema,
	})

	if errors.Is(err, generator.ErrEmptyOutput) {
		return nil, processing.NewError(processing.KindVisualGenerationFailed, "visuals", "no visual aids suggested", err)
	}

	if err != nil {
		return nil, processing.Wrap(err, processing.KindVisualGenerationFailed, "visuals", "failed to suggest visual aids")
	}

	suggestions, err := ParseSuggestions(output)

	if err != nil {
		return nil, err
	}

	var result []processing.VisualAid

	for _, s := range suggestions {
		if len(config.Types) > 0 && !slices.Contains(config.Types, s.Type) {
			continue
		}

		result = append(result, s)

		if len(result) == config.Limit() {
			break
		}
	}

	if len(result) == 0 {
		return nil, processing.Errorf(processing.KindVisualGenerationFailed, "visuals", "no visual aids suggested")
	}

	return result, nil
}

// AspectRatio returns the image shape suited to a visual type.
func AspectRatio(t processing.VisualType) string {
	switch t {
	case processing.VisualTypeTimeline:
		return "16:9"

	case processing.VisualTypeInfographic:
		return "3:4"

	default:
		return "4:3"
	}
}

// Render fills in the URL of every suggestion. Each item is rendered
// independently; a failure degrades only that item to a placeholder.
func (v *Visualizer) Render(ctx context.Context, suggestions []processing.VisualAid) []processing.VisualAid {
	result := make([]processing.VisualAid, len(suggestions))

	for i, s := range suggestions {
		s.URL = PlaceholderURL(s.Type)
		s.Placeholder = true

		result[i] = s
	}

	if v.renderer == nil {
		return result
	}

	var g errgroup.Group
	g.SetLimit(renderConcurrency)

	for i := range result {
		g.Go(func() error {
			url, err := v.render(ctx, result[i])

			if err != nil {
				v.logger.Warn("visual aid rendering failed", "type", result[i].Type, "error", err)
				return nil
			}

			result[i].URL = url
			result[i].Placeholder = false

			return nil
		})
	}

	g.Wait()

	return result
}

func (v *Visualizer) render(ctx context.Context, aid processing.VisualAid) (string, error) {
	prompt := fmt.Sprintf("Create a clear, simple educational %s for secondary school students. %s. Use readable labels and a clean style with no decorative text.", aid.Type, strings.TrimSuffix(aid.Description, "."))

	rendering, err := v.renderer.Render(ctx, prompt, &provider.RenderOptions{
		AspectRatio: AspectRatio(aid.Type),
	})

	if err != nil {
		return "", processing.Wrap(err, processing.KindVisualGenerationFailed, "visuals", "failed to render image")
	}

	if len(rendering.Content) == 0 {
		return "", processing.Errorf(processing.KindVisualGenerationFailed, "visuals", "renderer returned no image")
	}

	contentType := rendering.ContentType

	if contentType == "" {
		contentType = "image/png"
	}

	if v.outputDir == "" {
		return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(rendering.Content), nil
	}

	if err := os.MkdirAll(v.outputDir, 0o755); err != nil {
		return "", err
	}

	name := filepath.Join(v.outputDir, uuid.NewString()+extension(contentType))

	if err := os.WriteFile(name, rendering.Content, 0o644); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(name)

	if err != nil {
		abs = name
	}

	return "file://" + filepath.ToSlash(abs), nil
}

func PlaceholderURL(t processing.VisualType) string {
	return PlaceholderPrefix + string(t)
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}

	return ".png"
}

type suggestion struct {
	Type        string `json:"type" jsonschema:"kind of visual aid"`
	Description string `json:"description" jsonschema:"what the visual aid should show"`
	AltText     string `json:"altText" jsonschema:"accessibility-friendly alternative text"`
}

// ParseSuggestions reads the model output, tolerating a markdown code
// fence around the JSON array.
func ParseSuggestions(output string) ([]processing.VisualAid, error) {
	data := []byte(text.StripCodeFence(output))

	var items []suggestion

	if err := json.Unmarshal(data, &items); err != nil {
		var wrapped struct {
			VisualAids []suggestion `json:"visualAids"`
		}

		if err2 := json.Unmarshal(data, &wrapped); err2 != nil || wrapped.VisualAids == nil {
			return nil, processing.NewError(processing.KindVisualGenerationFailed, "visuals", "failed to parse visual aid suggestions", err)
		}

		items = wrapped.VisualAids
	}

	var result []processing.VisualAid

	for _, item := range items {
		description := strings.TrimSpace(item.Description)

		if description == "" {
			continue
		}

		altText := strings.TrimSpace(item.AltText)

		if altText == "" {
			altText = description
		}

		result = append(result, processing.VisualAid{
			Type: normalizeType(item.Type),

			Description: description,
			AltText:     altText,
		})
	}

	return result, nil
}

func normalizeType(t string) processing.VisualType {
	val := processing.VisualType(strings.ToLower(strings.TrimSpace(t)))

	if slices.Contains(processing.VisualTypes, val) {
		return val
	}

	return processing.VisualTypeIllustration
}

func buildPrompt(input string, config *processing.VisualsConfig) string {
	types := config.Types

	if len(types) == 0 {
		types = processing.VisualTypes
	}

	names := make([]string, len(types))

	for i, t := range types {
		names[i] = string(t)
	}

	var sb strings.Builder

	sb.WriteString("Analyze the following educational content and suggest 2-3 visual learning aids that would help learners understand it better.\n\n")

	sb.WriteString("For each visual aid, provide:\n")
	fmt.Fprintf(&sb, "1. Type (%s)\n", strings.Join(names, ", "))
	sb.WriteString("2. Brief description of what it should show\n")
	sb.WriteString("3. Accessibility-friendly alt text\n\n")

	fmt.Fprintf(&sb, "Suggest at most %d visual aids.\n\n", config.Limit())

	sb.WriteString("Content:\n")
	sb.WriteString(`"""`)
	sb.WriteString(input)
	sb.WriteString(`"""`)

	sb.WriteString("\n\nRespond only with a JSON array of objects with the fields \"type\", \"description\" and \"altText\".")

	return sb.String()
}
