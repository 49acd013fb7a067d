package replicate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/elimu-ai/elimu/pkg/provider"

	"github.com/replicate/replicate-go"
)

type Client struct {
	*Config
	client *replicate.Client
}

type PredictionInput = replicate.PredictionInput
type PredictionOutput = replicate.PredictionOutput

type FileOutput = replicate.FileOutput

func New(model string, options ...Option) (*Client, error) {
	cfg := &Config{
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	if cfg.token == "" {
		return nil, fmt.Errorf("%w: missing replicate api token", provider.ErrUnauthorized)
	}

	client, err := replicate.NewClient(cfg.Options()...)

	if err != nil {
		return nil, err
	}

	return &Client{
		Config: cfg,
		client: client,
	}, nil
}

func (c *Client) Run(ctx context.Context, input PredictionInput) (PredictionOutput, error) {
	output, err := c.client.RunWithOptions(ctx, c.model, input, nil, replicate.WithBlockUntilDone(), replicate.WithFileOutput())

	if err != nil {
		return nil, convertError(err)
	}

	return output, nil
}

func convertError(err error) error {
	var apierr *replicate.APIError

	if !errors.As(err, &apierr) {
		return err
	}

	switch {
	case apierr.Status == http.StatusUnauthorized, apierr.Status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", provider.ErrUnauthorized, apierr.Detail)

	case apierr.Status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", provider.ErrRateLimited, apierr.Detail)

	case apierr.Status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", provider.ErrUnavailable, apierr.Detail)
	}

	return err
}
