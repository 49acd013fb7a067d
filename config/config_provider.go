package config

import (
	"errors"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/elimu-ai/elimu/pkg/limiter"
	"github.com/elimu-ai/elimu/pkg/otel"

	"golang.org/x/time/rate"
)

const (
	DefaultCompleter = "gemini-2.5-flash"
	DefaultRenderer  = "gemini-2.5-flash-image"
)

type providerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Proxy   *proxyConfig  `yaml:"proxy"`
	Timeout time.Duration `yaml:"timeout"`

	Limit *int `yaml:"limit"`

	Models map[string]modelConfig `yaml:"models"`
}

type modelConfig struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`

	Limit *int `yaml:"limit"`
}

type modelContext struct {
	ID string

	Client  *http.Client
	Limiter *rate.Limiter
}

type modelType string

const (
	modelTypeCompleter   modelType = "completer"
	modelTypeRenderer    modelType = "renderer"
	modelTypeSynthesizer modelType = "synthesizer"
)

func (cfg *Config) registerProviders(f *configFile) error {
	for _, p := range f.Providers {
		client, err := httpClient(p.Proxy, p.Timeout)

		if err != nil {
			return err
		}

		for _, id := range slices.Sorted(maps.Keys(p.Models)) {
			m := p.Models[id]

			if m.ID == "" {
				m.ID = id
			}

			limit := m.Limit

			if limit == nil {
				limit = p.Limit
			}

			context := modelContext{
				ID: m.ID,

				Client:  client,
				Limiter: createLimiter(limit),
			}

			switch detectModelType(p.Type, m) {
			case modelTypeCompleter:
				completer, err := createCompleter(p, context)

				if err != nil {
					return err
				}

				if _, ok := completer.(limiter.Completer); !ok {
					completer = limiter.NewCompleter(context.Limiter, completer)
				}

				if _, ok := completer.(otel.Completer); !ok {
					completer = otel.NewCompleter(p.Type, m.ID, completer)
				}

				cfg.RegisterCompleter(id, completer)

			case modelTypeRenderer:
				renderer, err := createRenderer(p, context)

				if err != nil {
					return err
				}

				if _, ok := renderer.(limiter.Renderer); !ok {
					renderer = limiter.NewRenderer(context.Limiter, renderer)
				}

				if _, ok := renderer.(otel.Renderer); !ok {
					renderer = otel.NewRenderer(p.Type, m.ID, renderer)
				}

				cfg.RegisterRenderer(id, renderer)

			case modelTypeSynthesizer:
				synthesizer, err := createSynthesizer(p, context)

				if err != nil {
					return err
				}

				if _, ok := synthesizer.(limiter.Synthesizer); !ok {
					synthesizer = limiter.NewSynthesizer(context.Limiter, synthesizer)
				}

				if _, ok := synthesizer.(otel.Synthesizer); !ok {
					synthesizer = otel.NewSynthesizer(p.Type, m.ID, synthesizer)
				}

				cfg.RegisterSynthesizer(id, synthesizer)

			default:
				return errors.New("invalid model type: " + m.Type + " (" + id + ")")
			}
		}
	}

	return nil
}

func detectModelType(providerType string, m modelConfig) modelType {
	if m.Type != "" {
		return modelType(strings.ToLower(m.Type))
	}

	id := strings.ToLower(m.ID)

	switch strings.ToLower(providerType) {
	case "replicate":
		return modelTypeRenderer

	case "openai", "openai-compatible":
		if strings.Contains(id, "tts") {
			return modelTypeSynthesizer
		}
	}

	if strings.Contains(id, "image") || strings.Contains(id, "imagen") {
		return modelTypeRenderer
	}

	return modelTypeCompleter
}
