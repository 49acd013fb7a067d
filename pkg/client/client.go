package client

import (
	"net/http"
)

// Client talks to the elimu HTTP API.
type Client struct {
	Documents DocumentService
	Samples   SampleService

	Speech SpeechService

	Notes   NoteService
	Streak  StreakService
	History HistoryService
}

func New(url string, opts ...RequestOption) *Client {
	opts = append(opts, WithURL(url))

	return &Client{
		Documents: NewDocumentService(opts...),
		Samples:   NewSampleService(opts...),

		Speech: NewSpeechService(opts...),

		Notes:   NewNoteService(opts...),
		Streak:  NewStreakService(opts...),
		History: NewHistoryService(opts...),
	}
}

type RequestConfig struct {
	URL   string
	Token string

	Client *http.Client
}

type RequestOption func(*RequestConfig)

func WithURL(url string) RequestOption {
	return func(c *RequestConfig) {
		c.URL = url
	}
}

func WithToken(token string) RequestOption {
	return func(c *RequestConfig) {
		c.Token = token
	}
}

func WithClient(client *http.Client) RequestOption {
	return func(c *RequestConfig) {
		c.Client = client
	}
}

func newRequestConfig(opts ...RequestOption) *RequestConfig {
	c := &RequestConfig{
		Client: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func Ptr[T any](v T) *T {
	return &v
}
