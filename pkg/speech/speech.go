package speech

import (
	"context"
	"errors"

	"github.com/elimu-ai/elimu/pkg/processing"
)

var (
	ErrUnsupported = errors.New("not supported by speech engine")
	ErrMuted       = errors.New("audio output is muted")
	ErrNotSpeaking = errors.New("nothing is being spoken")
)

// Engine plays text through a speech output device.
type Engine interface {
	Voices(ctx context.Context) ([]processing.Voice, error)

	// Speak blocks until the utterance finished. Canceling ctx stops playback.
	Speak(ctx context.Context, text string, options *SpeakOptions) error

	Pause() error
	Resume() error

	Capabilities() Capabilities
}

type SpeakOptions struct {
	Voice    string
	Language string

	// 1.0 is the engine's normal rate and pitch
	Rate  float64
	Pitch float64
}

type Capabilities struct {
	Pause bool `json:"pause"`

	MaxInputLength int `json:"maxInputLength"`
}

// MuteChecker reports whether the output device is silenced.
type MuteChecker func(ctx context.Context) (bool, error)
