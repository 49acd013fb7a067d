package provider

import (
	"context"
)

// Renderer generates an image from a text prompt.
type Renderer interface {
	Render(ctx context.Context, input string, options *RenderOptions) (*Rendering, error)
}

type RenderOptions struct {
	// reference images for providers that accept them
	Images []File

	// width:height such as "4:3", empty keeps the provider default
	AspectRatio string
}

type Rendering struct {
	ID    string
	Model string

	Content     []byte
	ContentType string
}
