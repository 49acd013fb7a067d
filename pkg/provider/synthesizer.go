package provider

import (
	"context"
)

// Synthesizer turns text into encoded speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, input string, options *SynthesizeOptions) (*Synthesis, error)
}

type SynthesizeOptions struct {
	Voice    string
	Language string

	// playback speed, 1.0 is normal and zero keeps the provider default
	Speed float64

	// free form delivery hints for providers that accept them
	Instructions string

	// mp3, wav or aac
	Format string
}

type Synthesis struct {
	ID    string
	Model string

	Content     []byte
	ContentType string
}
