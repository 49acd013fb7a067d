package config

import (
	"errors"
	"strings"

	"github.com/elimu-ai/elimu/pkg/provider"
	"github.com/elimu-ai/elimu/pkg/provider/google"
)

func (cfg *Config) RegisterCompleter(id string, p provider.Completer) {
	if cfg.completer == nil {
		cfg.completer = make(map[string]provider.Completer)
	}

	if _, ok := cfg.completer[""]; !ok {
		cfg.completer[""] = p
	}

	cfg.completer[id] = p
}

func (cfg *Config) Completer(id string) (provider.Completer, error) {
	if cfg.completer != nil {
		if c, ok := cfg.completer[id]; ok {
			return c, nil
		}
	}

	return nil, errors.New("completer not found: " + id)
}

func createCompleter(cfg providerConfig, model modelContext) (provider.Completer, error) {
	switch strings.ToLower(cfg.Type) {
	case "gemini", "google":
		return googleCompleter(cfg, model)

	default:
		return nil, errors.New("invalid completer type: " + cfg.Type)
	}
}

func googleOptions(cfg providerConfig, model modelContext) []google.Option {
	var options []google.Option

	if cfg.Token != "" {
		options = append(options, google.WithToken(cfg.Token))
	}

	if model.Client != nil {
		options = append(options, google.WithClient(model.Client))
	}

	return options
}

func googleCompleter(cfg providerConfig, model modelContext) (provider.Completer, error) {
	return google.NewCompleter(model.ID, googleOptions(cfg, model)...)
}
