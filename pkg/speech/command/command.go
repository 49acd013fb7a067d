package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/speech"
	"github.com/elimu-ai/elimu/pkg/speech/process"
)

var _ speech.Engine = (*Engine)(nil)

// commandContext allows tests to substitute the speech binary.
var commandContext = exec.CommandContext

const (
	DefaultCommand = "espeak-ng"

	// espeak-ng words per minute and pitch at rate and pitch 1.0
	defaultWPM   = 175
	defaultPitch = 50

	DefaultMaxInputLength = 4000
)

type Engine struct {
	command string

	maxInput int
	muted    speech.MuteChecker

	handle process.Handle
}

type Option func(*Engine)

func WithCommand(command string) Option {
	return func(e *Engine) {
		e.command = command
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

func New(options ...Option) *Engine {
	e := &Engine{
		command:  DefaultCommand,
		maxInput: DefaultMaxInputLength,
		muted:    speech.PulseMuteChecker,
	}

	for _, option := range options {
		option(e)
	}

	return e
}

func (e *Engine) Capabilities() speech.Capabilities {
	return speech.Capabilities{
		Pause: process.Supported,

		MaxInputLength: e.maxInput,
	}
}

func (e *Engine) Voices(ctx context.Context) ([]processing.Voice, error) {
	output, err := commandContext(ctx, e.command, "--voices").Output()

	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}

	return parseVoices(output), nil
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

	cmd := commandContext(ctx, e.command, speakArgs(options)...)
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", e.command, err)
	}

	e.handle.Attach(cmd.Process)
	defer e.handle.Detach()

	err := cmd.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", e.command, err, msg)
		}

		return fmt.Errorf("%s: %w", e.command, err)
	}

	return nil
}

func (e *Engine) Pause() error {
	if !process.Supported {
		return speech.ErrUnsupported
	}

	return suspendErr(e.handle.Suspend())
}

func (e *Engine) Resume() error {
	if !process.Supported {
		return speech.ErrUnsupported
	}

	return suspendErr(e.handle.Resume())
}

func suspendErr(err error) error {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, process.ErrUnsupported):
		return speech.ErrUnsupported

	case errors.Is(err, os.ErrProcessDone):
		return speech.ErrNotSpeaking
	}

	return err
}

func speakArgs(options *speech.SpeakOptions) []string {
	args := []string{"--stdin"}

	voice := options.Voice

	if voice == "" {
		voice = options.Language
	}

	if voice != "" {
		args = append(args, "-v", voice)
	}

	if options.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(int(defaultWPM*options.Rate)))
	}

	if options.Pitch > 0 {
		pitch := min(99, int(defaultPitch*options.Pitch))
		args = append(args, "-p", strconv.Itoa(pitch))
	}

	return args
}

// parseVoices reads the table printed by "espeak-ng --voices":
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  af              --/M      Afrikaans          gmw/af
func parseVoices(output []byte) []processing.Voice {
	var result []processing.Voice

	scanner := bufio.NewScanner(bytes.NewReader(output))

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())

		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}

		result = append(result, processing.Voice{
			ID:   fields[1],
			Name: fields[3],

			Language: fields[1],
			Quality:  "default",
		})
	}

	return result
}
