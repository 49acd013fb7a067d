package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/elimu-ai/elimu/pkg/processing"
)

type Result = processing.Result
type ProcessConfig = processing.Config

type DocumentService struct {
	Options []RequestOption
}

func NewDocumentService(opts ...RequestOption) DocumentService {
	return DocumentService{
		Options: opts,
	}
}

type ProcessRequest struct {
	// URI of a remote document, used when Reader is nil.
	URI string

	Name   string
	Reader io.Reader

	Config *ProcessConfig
}

func (r *DocumentService) Process(ctx context.Context, input ProcessRequest, opts ...RequestOption) (*Result, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var config string

	if input.Config != nil {
		data, err := json.Marshal(input.Config)

		if err != nil {
			return nil, err
		}

		config = string(data)
	}

	var body io.Reader
	var contentType string

	if input.Reader != nil {
		var data bytes.Buffer
		w := multipart.NewWriter(&data)

		name := input.Name

		if name == "" {
			name = "document"
		}

		file, err := w.CreateFormFile("file", name)

		if err != nil {
			return nil, err
		}

		if _, err := io.Copy(file, input.Reader); err != nil {
			return nil, err
		}

		if config != "" {
			if err := w.WriteField("config", config); err != nil {
				return nil, err
			}
		}

		if err := w.Close(); err != nil {
			return nil, err
		}

		body = &data
		contentType = w.FormDataContentType()
	} else {
		values := url.Values{}
		values.Set("uri", input.URI)

		if config != "" {
			values.Set("config", config)
		}

		body = strings.NewReader(values.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := c.newRequest(ctx, "POST", "/process", body, contentType)

	if err != nil {
		return nil, err
	}

	var result Result

	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

type HistoryService struct {
	Options []RequestOption
}

func NewHistoryService(opts ...RequestOption) HistoryService {
	return HistoryService{
		Options: opts,
	}
}

func (r *HistoryService) List(ctx context.Context, opts ...RequestOption) ([]HistoryEntry, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var result []HistoryEntry

	if err := c.doJSON(ctx, "GET", "/history", nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}
