package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/pkg/provider"
)

const (
	DefaultTemperature     float32 = 0.7
	DefaultMaxOutputTokens int     = 2048
)

// Generator sends a prompt, with an optional inline file, to a text model.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type Request struct {
	Prompt string
	File   *provider.File

	Temperature     *float32
	MaxOutputTokens int

	Format provider.CompletionFormat
	Schema *provider.Schema
}

// ErrEmptyOutput reports a completion that carried no text.
var ErrEmptyOutput = errors.New("model returned no content")

var _ Generator = (*Client)(nil)

type Client struct {
	completer provider.Completer
}

// New returns a generator backed by completer. A nil completer is accepted
// and makes every call fail with a configuration error.
func New(completer provider.Completer) *Client {
	return &Client{
		completer: completer,
	}
}

func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", processing.Errorf(processing.KindInvalidInput, "generate", "cannot generate content from empty prompt")
	}

	if c.completer == nil {
		return "", processing.Errorf(processing.KindConfigurationError, "generate", "no text model configured")
	}

	temperature := DefaultTemperature

	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	maxTokens := DefaultMaxOutputTokens

	if req.MaxOutputTokens > 0 {
		maxTokens = req.MaxOutputTokens
	}

	var files []provider.File

	if req.File != nil {
		files = append(files, *req.File)
	}

	messages := []provider.Message{
		provider.UserMessage(req.Prompt, files...),
	}

	options := &provider.CompleteOptions{
		MaxTokens:   &maxTokens,
		Temperature: &temperature,

		Format: req.Format,
		Schema: req.Schema,
	}

	completion, err := c.completer.Complete(ctx, messages, options)

	if err != nil {
		if _, ok := processing.KindOf(err); ok {
			return "", err
		}

		kind := processing.Classify(err)

		// unclassified transport failures count as network errors
		if kind == processing.KindProcessingFailed && !errors.Is(err, context.Canceled) {
			kind = processing.KindNetworkError
		}

		return "", processing.NewError(kind, "generate", "text model request failed", err)
	}

	var text string

	if completion != nil && completion.Message != nil {
		text = strings.TrimSpace(completion.Message.Text())
	}

	if text == "" {
		return "", processing.NewError(processing.KindProcessingFailed, "generate", "", ErrEmptyOutput)
	}

	return text, nil
}
