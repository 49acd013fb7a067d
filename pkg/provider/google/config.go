package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elimu-ai/elimu/pkg/provider"

	"google.golang.org/genai"
)

type Config struct {
	token string
	model string

	client *http.Client
}

type Option func(*Config)

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

func (c *Config) newClient(ctx context.Context) (*genai.Client, error) {
	if c.token == "" {
		return nil, fmt.Errorf("%w: missing gemini api key", provider.ErrUnauthorized)
	}

	config := &genai.ClientConfig{
		APIKey:  c.token,
		Backend: genai.BackendGeminiAPI,

		HTTPClient: c.client,
	}

	return genai.NewClient(ctx, config)
}

func convertError(err error) error {
	var apierr genai.APIError

	if !errors.As(err, &apierr) {
		return err
	}

	switch {
	case apierr.Code == http.StatusUnauthorized, apierr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", provider.ErrUnauthorized, apierr.Message)

	case apierr.Code == http.StatusBadRequest && apierr.Status == "INVALID_ARGUMENT" && isKeyMessage(apierr.Message):
		return fmt.Errorf("%w: %s", provider.ErrUnauthorized, apierr.Message)

	case apierr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", provider.ErrRateLimited, apierr.Message)

	case apierr.Code == http.StatusRequestTimeout, apierr.Code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", provider.ErrUnavailable, apierr.Message)
	}

	return err
}

func isKeyMessage(message string) bool {
	return strings.Contains(strings.ToLower(message), "api key")
}
