package provider

import (
	"errors"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnavailable  = errors.New("service unavailable")
)

// File is an inline document or image attached to a request.
type File struct {
	Name string

	Content     []byte
	ContentType string
}

// Schema constrains a completion to JSON matching a JSON schema document.
type Schema struct {
	Name        string
	Description string

	Schema map[string]any
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}
