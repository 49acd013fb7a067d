package openai

import (
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3/option"
)

const DefaultURL = "https://api.openai.com/v1/"

type Config struct {
	url   string
	model string

	token  string
	client *http.Client

	retries *int
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

// WithMaxRetries overrides the retries the SDK performs on transient errors.
func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		c.retries = &retries
	}
}

func newConfig(url, model string, options ...Option) *Config {
	if url == "" {
		url = DefaultURL
	}

	c := &Config{
		url:   strings.TrimRight(url, "/") + "/",
		model: model,

		client: http.DefaultClient,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *Config) requestOptions() []option.RequestOption {
	options := []option.RequestOption{
		option.WithBaseURL(c.url),
		option.WithHTTPClient(c.client),
	}

	if c.token != "" {
		options = append(options, option.WithAPIKey(c.token))
	}

	if c.retries != nil {
		options = append(options, option.WithMaxRetries(*c.retries))
	}

	return options
}
