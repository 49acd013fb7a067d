package synthesized

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/provider"
	"github.com/elimu-ai/elimu/pkg/speech"
	"github.com/elimu-ai/elimu/pkg/speech/process"
)

var _ speech.Engine = (*Engine)(nil)

var commandContext = exec.CommandContext

var DefaultPlayer = []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "error", "-i", "pipe:0"}

const DefaultMaxInputLength = 4096

var DefaultVoices = []processing.Voice{
	{ID: "alloy", Name: "Alloy", Language: "en", Quality: "enhanced"},
	{ID: "ash", Name: "Ash", Language: "en", Quality: "enhanced"},
	{ID: "coral", Name: "Coral", Language: "en", Quality: "enhanced"},
	{ID: "echo", Name: "Echo", Language: "en", Quality: "enhanced"},
	{ID: "fable", Name: "Fable", Language: "en", Quality: "enhanced"},
	{ID: "nova", Name: "Nova", Language: "en", Quality: "enhanced"},
	{ID: "onyx", Name: "Onyx", Language: "en", Quality: "enhanced"},
	{ID: "sage", Name: "Sage", Language: "en", Quality: "enhanced"},
	{ID: "shimmer", Name: "Shimmer", Language: "en", Quality: "enhanced"},
}

type Engine struct {
	synthesizer provider.Synthesizer

	player []string
	voices []processing.Voice

	maxInput int
	muted    speech.MuteChecker

	handle process.Handle
}

type Option func(*Engine)

func WithPlayer(command ...string) Option {
	return func(e *Engine) {
		e.player = command
	}
}

func WithVoices(voices []processing.Voice) Option {
	return func(e *Engine) {
		e.voices = voices
	}
}

func WithMaxInputLength(n int) Option {
	return func(e *Engine) {
		e.maxInput = n
	}
}

func WithMuteChecker(checker speech.MuteChecker) Option {
	return func(e *Engine) {
		e.muted = checker
	}
}

func New(synthesizer provider.Synthesizer, options ...Option) (*Engine, error) {
	if synthesizer == nil {
		return nil, errors.New("synthesizer is required")
	}

	e := &Engine{
		synthesizer: synthesizer,

		player: DefaultPlayer,
		voices: DefaultVoices,

		maxInput: DefaultMaxInputLength,
		muted:    speech.PulseMuteChecker,
	}

	for _, option := range options {
		option(e)
	}

	if len(e.player) == 0 {
		return nil, errors.New("player command is required")
	}

	return e, nil
}

func (e *Engine) Capabilities() speech.Capabilities {
	return speech.Capabilities{
		Pause: process.Supported,

		MaxInputLength: e.maxInput,
	}
}

func (e *Engine) Voices(ctx context.Context) ([]processing.Voice, error) {
	return e.voices, nil
}

func (e *Engine) Speak(ctx context.Context, text string, options *speech.SpeakOptions) error {
	if options == nil {
		options = new(speech.SpeakOptions)
	}

	if e.muted != nil {
		if muted, err := e.muted(ctx); err == nil && muted {
			return speech.ErrMuted
		}
	}

	synthesizeOptions := &provider.SynthesizeOptions{
		Voice:    options.Voice,
		Language: options.Language,

		Speed: options.Rate,

		Instructions: "Speak clearly and calmly, like a teacher reading to a student.",
	}

	synthesis, err := e.synthesizer.Synthesize(ctx, text, synthesizeOptions)

	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	cmd := commandContext(ctx, e.player[0], e.player[1:]...)
	cmd.Stdin = bytes.NewReader(synthesis.Content)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", e.player[0], err)
	}

	e.handle.Attach(cmd.Process)
	defer e.handle.Detach()

	err = cmd.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", e.player[0], err, msg)
		}

		return fmt.Errorf("%s: %w", e.player[0], err)
	}

	return nil
}

func (e *Engine) Pause() error {
	if !process.Supported {
		return speech.ErrUnsupported
	}

	return convertError(e.handle.Suspend())
}

func (e *Engine) Resume() error {
	if !process.Supported {
		return speech.ErrUnsupported
	}

	return convertError(e.handle.Resume())
}

func convertError(err error) error {
	if errors.Is(err, os.ErrProcessDone) {
		return speech.ErrNotSpeaking
	}

	return err
}
