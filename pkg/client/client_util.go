package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elimu-ai/elimu/server/api"
)

// Error is returned for non-successful API responses.
type Error struct {
	StatusCode int

	Kind    string
	Message string
}

func (e *Error) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, e.Message)
	}

	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func (c *RequestConfig) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	url := strings.TrimRight(c.URL, "/") + "/v1" + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)

	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	return req, nil
}

func (c *RequestConfig) doJSON(ctx context.Context, method, path string, input, output any) error {
	var body io.Reader
	var contentType string

	if input != nil {
		var data bytes.Buffer

		if err := json.NewEncoder(&data).Encode(input); err != nil {
			return err
		}

		body = &data
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)

	if err != nil {
		return err
	}

	return c.do(req, output)
}

func (c *RequestConfig) do(req *http.Request, output any) error {
	resp, err := c.Client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}

	if output == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(output)
}

func readError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	result := &Error{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
	}

	var body api.ErrorResponse

	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		result.Kind = body.Kind
		result.Message = body.Error
	} else if text := strings.TrimSpace(string(data)); text != "" {
		result.Message = text
	}

	return result
}
