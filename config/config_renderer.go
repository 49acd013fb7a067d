package config

import (
	"errors"
	"strings"

	"github.com/elimu-ai/elimu/pkg/provider"
	"github.com/elimu-ai/elimu/pkg/provider/google"
	"github.com/elimu-ai/elimu/pkg/provider/replicate"
	"github.com/elimu-ai/elimu/pkg/provider/replicate/flux"
)

func (cfg *Config) RegisterRenderer(id string, p provider.Renderer) {
	if cfg.renderer == nil {
		cfg.renderer = make(map[string]provider.Renderer)
	}

	if _, ok := cfg.renderer[""]; !ok {
		cfg.renderer[""] = p
	}

	cfg.renderer[id] = p
}

func (cfg *Config) Renderer(id string) (provider.Renderer, error) {
	if cfg.renderer != nil {
		if r, ok := cfg.renderer[id]; ok {
			return r, nil
		}
	}

	return nil, errors.New("renderer not found: " + id)
}

func createRenderer(cfg providerConfig, model modelContext) (provider.Renderer, error) {
	switch strings.ToLower(cfg.Type) {
	case "gemini", "google":
		return googleRenderer(cfg, model)

	case "replicate":
		return replicateRenderer(cfg, model)

	default:
		return nil, errors.New("invalid renderer type: " + cfg.Type)
	}
}

func googleRenderer(cfg providerConfig, model modelContext) (provider.Renderer, error) {
	return google.NewRenderer(model.ID, googleOptions(cfg, model)...)
}

func replicateRenderer(cfg providerConfig, model modelContext) (provider.Renderer, error) {
	var options []replicate.Option

	if cfg.Token != "" {
		options = append(options, replicate.WithToken(cfg.Token))
	}

	if model.Client != nil {
		options = append(options, replicate.WithClient(model.Client))
	}

	return flux.NewRenderer(model.ID, options...)
}
