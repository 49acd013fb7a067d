package config

import (
	"github.com/elimu-ai/elimu/pkg/document"
	"github.com/elimu-ai/elimu/pkg/extractor"
	"github.com/elimu-ai/elimu/pkg/generator"
	"github.com/elimu-ai/elimu/pkg/narrator"
	"github.com/elimu-ai/elimu/pkg/pipeline"
	"github.com/elimu-ai/elimu/pkg/retry"
	"github.com/elimu-ai/elimu/pkg/simplifier"
	"github.com/elimu-ai/elimu/pkg/visualizer"
)

type pipelineConfig struct {
	Completer string `yaml:"completer"`
	Renderer  string `yaml:"renderer"`

	// directory for rendered images, inlined as data URIs when empty
	Output string `yaml:"output"`

	MaxSize  int64 `yaml:"max_size"`
	Attempts int   `yaml:"attempts"`

	// allow document urls that resolve to loopback or private addresses
	AllowPrivateNetworks bool `yaml:"allow_private_networks"`
}

func (cfg *Config) registerPipeline(f *configFile) error {
	c := f.Pipeline

	completer, err := cfg.Completer(c.Completer)

	if err != nil {
		return err
	}

	gen := generator.New(completer)

	var retries []retry.Option

	if c.Attempts > 0 {
		retries = append(retries, retry.WithAttempts(c.Attempts))
	}

	var sourceOptions []document.Option

	if c.MaxSize > 0 {
		sourceOptions = append(sourceOptions, document.WithMaxSize(c.MaxSize))
	}

	if !c.AllowPrivateNetworks {
		sourceOptions = append(sourceOptions, document.WithPublicOnly())
	}

	cfg.source = document.New(sourceOptions...)

	e := extractor.New(cfg.source, gen, extractor.WithRetry(retries...))
	s := simplifier.New(gen, simplifier.WithRetry(retries...))

	var visualizerOptions []visualizer.Option

	if r, err := cfg.Renderer(c.Renderer); err == nil {
		visualizerOptions = append(visualizerOptions, visualizer.WithRenderer(r))
	}

	if c.Output != "" {
		visualizerOptions = append(visualizerOptions, visualizer.WithOutputDir(c.Output))
	}

	cfg.visualizer = visualizer.New(gen, visualizerOptions...)

	options := []pipeline.Option{
		pipeline.WithVisualizer(cfg.visualizer),
	}

	if cfg.speech != nil {
		n, err := narrator.New(cfg.speech)

		if err != nil {
			return err
		}

		cfg.narrator = n
		options = append(options, pipeline.WithNarrator(n))
	}

	p, err := pipeline.New(e, s, options...)

	if err != nil {
		return err
	}

	cfg.pipeline = p

	return nil
}
