package flux

import (
	"context"
	"errors"
	"io"
	"slices"

	"github.com/elimu-ai/elimu/pkg/provider"
	"github.com/elimu-ai/elimu/pkg/provider/replicate"

	"github.com/google/uuid"
)

var _ provider.Renderer = (*Renderer)(nil)

type Renderer struct {
	*replicate.Client

	model string
}

const (
	FluxSchnell string = "black-forest-labs/flux-schnell"
	FluxDev     string = "black-forest-labs/flux-dev"
	FluxPro     string = "black-forest-labs/flux-pro"

	FluxPro11 string = "black-forest-labs/flux-1.1-pro"
)

var SupportedModels = []string{
	FluxPro,
	FluxDev,
	FluxSchnell,

	FluxPro11,
}

func NewRenderer(model string, options ...replicate.Option) (*Renderer, error) {
	if !slices.Contains(SupportedModels, model) {
		return nil, errors.New("unsupported model")
	}

	client, err := replicate.New(model, options...)

	if err != nil {
		return nil, err
	}

	return &Renderer{
		Client: client,

		model: model,
	}, nil
}

func (r *Renderer) Render(ctx context.Context, prompt string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if options == nil {
		options = new(provider.RenderOptions)
	}

	if len(options.Images) > 0 {
		return nil, errors.New("image input is not supported")
	}

	input, err := r.convertInput(prompt, options.AspectRatio)

	if err != nil {
		return nil, err
	}

	resp, err := r.Run(ctx, input)

	if err != nil {
		return nil, err
	}

	return r.convertImage(resp)
}

var aspectRatios = []string{"1:1", "16:9", "21:9", "3:2", "2:3", "4:5", "5:4", "3:4", "4:3", "9:16", "9:21"}

func (r *Renderer) convertInput(prompt, aspectRatio string) (replicate.PredictionInput, error) {
	if !slices.Contains(aspectRatios, aspectRatio) {
		aspectRatio = "4:3"
	}

	switch r.model {
	case FluxSchnell, FluxDev:
		// https://replicate.com/black-forest-labs/flux-schnell/api/schema#input-schema
		input := map[string]any{
			"prompt": prompt,

			"aspect_ratio":  aspectRatio,
			"output_format": "png",
		}

		return input, nil

	case FluxPro, FluxPro11:
		// https://replicate.com/black-forest-labs/flux-1.1-pro/api/schema#input-schema
		input := map[string]any{
			"prompt": prompt,

			"aspect_ratio":  aspectRatio,
			"output_format": "png",

			"safety_tolerance": 2,
		}

		return input, nil
	}

	return nil, errors.New("unsupported model")
}

func (r *Renderer) convertImage(output replicate.PredictionOutput) (*provider.Rendering, error) {
	file, ok := output.(*replicate.FileOutput)

	if !ok {
		return nil, errors.New("unsupported output")
	}

	defer file.Close()

	data, err := io.ReadAll(file)

	if err != nil {
		return nil, err
	}

	return &provider.Rendering{
		ID:    uuid.NewString(),
		Model: r.model,

		Content:     data,
		ContentType: "image/png",
	}, nil
}
