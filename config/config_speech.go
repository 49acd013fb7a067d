package config

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/elimu-ai/elimu/pkg/speech"
	"github.com/elimu-ai/elimu/pkg/speech/command"
	"github.com/elimu-ai/elimu/pkg/speech/synthesized"
)

type speechConfig struct {
	Engine string `yaml:"engine"`

	Command string `yaml:"command"`

	Synthesizer string   `yaml:"synthesizer"`
	Player      []string `yaml:"player"`

	MaxInput int `yaml:"max_input"`
}

var lookPath = exec.LookPath

func (cfg *Config) registerSpeech(f *configFile) error {
	c := f.Speech

	engine := strings.ToLower(c.Engine)

	if engine == "" {
		engine = cfg.detectSpeechEngine(c)
	}

	switch engine {
	case "none", "disabled":
		return nil

	case "espeak", "command":
		cfg.speech = commandEngine(c)

	case "synthesized", "synthesizer":
		e, err := cfg.synthesizedEngine(c)

		if err != nil {
			return err
		}

		cfg.speech = e

	default:
		return errors.New("invalid speech engine: " + c.Engine)
	}

	return nil
}

func (cfg *Config) detectSpeechEngine(c speechConfig) string {
	if _, err := cfg.Synthesizer(c.Synthesizer); err == nil {
		return "synthesized"
	}

	name := c.Command

	if name == "" {
		name = command.DefaultCommand
	}

	if _, err := lookPath(name); err == nil {
		return "espeak"
	}

	return "none"
}

func commandEngine(c speechConfig) speech.Engine {
	var options []command.Option

	if c.Command != "" {
		options = append(options, command.WithCommand(c.Command))
	}

	if c.MaxInput > 0 {
		options = append(options, command.WithMaxInputLength(c.MaxInput))
	}

	return command.New(options...)
}

func (cfg *Config) synthesizedEngine(c speechConfig) (speech.Engine, error) {
	synthesizer, err := cfg.Synthesizer(c.Synthesizer)

	if err != nil {
		return nil, err
	}

	var options []synthesized.Option

	if len(c.Player) > 0 {
		options = append(options, synthesized.WithPlayer(c.Player...))
	}

	if c.MaxInput > 0 {
		options = append(options, synthesized.WithMaxInputLength(c.MaxInput))
	}

	return synthesized.New(synthesizer, options...)
}

// Speech returns nil when no speech engine is configured.
func (cfg *Config) Speech() speech.Engine {
	return cfg.speech
}
