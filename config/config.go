package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/elimu-ai/elimu/pkg/auth"
	"github.com/elimu-ai/elimu/pkg/document"
	"github.com/elimu-ai/elimu/pkg/narrator"
	"github.com/elimu-ai/elimu/pkg/pipeline"
	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/provider"
	"github.com/elimu-ai/elimu/pkg/speech"
	"github.com/elimu-ai/elimu/pkg/store"
	"github.com/elimu-ai/elimu/pkg/visualizer"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddress  = ":8080"
	DefaultDatabase = "elimu.db"
)

type Config struct {
	Address  string
	Database string

	// processing options applied when a request carries none
	Defaults processing.Config

	Authorizers []auth.Provider

	completer   map[string]provider.Completer
	renderer    map[string]provider.Renderer
	synthesizer map[string]provider.Synthesizer

	speech speech.Engine

	source     *document.Source
	pipeline   *pipeline.Pipeline
	narrator   *narrator.Narrator
	visualizer *visualizer.Visualizer
}

// Load reads .env files into the environment and parses the config file at
// path. Without a config file the configuration is derived from the
// environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}

	if path == "" {
		return FromEnv()
	}

	return Parse(path)
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	return build(file)
}

// FromEnv builds a Gemini backed configuration from GEMINI_API_KEY.
func FromEnv() (*Config, error) {
	token := os.Getenv("GEMINI_API_KEY")

	if token == "" {
		token = os.Getenv("EXPO_PUBLIC_GEMINI_API_KEY")
	}

	if token == "" {
		return nil, processing.NewError(processing.KindConfigurationError, "config", "GEMINI_API_KEY is not set", nil)
	}

	file := &configFile{
		Address:  os.Getenv("ADDRESS"),
		Database: os.Getenv("DATABASE"),

		Providers: []providerConfig{
			{
				Type:  "gemini",
				Token: token,

				Models: map[string]modelConfig{
					DefaultCompleter: {Type: "completer"},
					DefaultRenderer:  {Type: "renderer"},
				},
			},
		},
	}

	if token := os.Getenv("TOKEN"); token != "" {
		file.Authorizers = append(file.Authorizers, authorizerConfig{
			Type:  "static",
			Token: token,
		})
	}

	return build(file)
}

func build(file *configFile) (*Config, error) {
	c := &Config{
		Address:  file.Address,
		Database: file.Database,

		Defaults: file.Defaults,
	}

	if c.Address == "" {
		c.Address = DefaultAddress
	}

	if c.Database == "" {
		c.Database = DefaultDatabase
	}

	if err := c.registerAuthorizers(file); err != nil {
		return nil, err
	}

	if err := c.registerProviders(file); err != nil {
		return nil, err
	}

	if err := c.registerSpeech(file); err != nil {
		return nil, err
	}

	if err := c.registerPipeline(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address  string `yaml:"address"`
	Database string `yaml:"database"`

	Authorizers []authorizerConfig `yaml:"authorizers"`
	Providers   []providerConfig   `yaml:"providers"`

	Speech   speechConfig   `yaml:"speech"`
	Pipeline pipelineConfig `yaml:"pipeline"`

	Defaults processing.Config `yaml:"defaults"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}

// Source returns the document source used for extraction.
func (cfg *Config) Source() *document.Source {
	if cfg.source == nil {
		return document.New()
	}

	return cfg.source
}

func (cfg *Config) Pipeline() *pipeline.Pipeline {
	return cfg.pipeline
}

// Narrator returns nil when no speech engine is configured.
func (cfg *Config) Narrator() *narrator.Narrator {
	return cfg.narrator
}

func (cfg *Config) Visualizer() *visualizer.Visualizer {
	return cfg.visualizer
}

func (cfg *Config) OpenStore() (*store.Store, error) {
	return store.Open(cfg.Database)
}
