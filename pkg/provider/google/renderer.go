package google

import (
	"context"
	"errors"

	"github.com/elimu-ai/elimu/pkg/provider"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

var _ provider.Renderer = (*Renderer)(nil)

type Renderer struct {
	*Config

	client *genai.Client
}

func NewRenderer(model string, options ...Option) (*Renderer, error) {
	cfg := &Config{
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	client, err := cfg.newClient(context.Background())

	if err != nil {
		return nil, err
	}

	return &Renderer{
		Config: cfg,
		client: client,
	}, nil
}

func (r *Renderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if options == nil {
		options = new(provider.RenderOptions)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(input),
	}

	for _, i := range options.Images {
		parts = append(parts, genai.NewPartFromBytes(i.Content, i.ContentType))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	if options.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{
			AspectRatio: options.AspectRatio,
		}
	}

	image, err := r.client.Models.GenerateContent(ctx, r.model, contents, config)

	if err != nil {
		return nil, convertError(err)
	}

	result := &provider.Rendering{
		ID:    uuid.NewString(),
		Model: r.model,
	}

	if len(image.Candidates) == 0 || image.Candidates[0].Content == nil {
		return nil, errors.New("no image returned")
	}

	for _, part := range image.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}

		result.Content = part.InlineData.Data
		result.ContentType = part.InlineData.MIMEType
	}

	if len(result.Content) == 0 {
		return nil, errors.New("no image returned")
	}

	return result, nil
}
