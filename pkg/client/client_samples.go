package client

import (
	"context"
	"net/url"

	"github.com/elimu-ai/elimu/pkg/library"
	"github.com/elimu-ai/elimu/server/api"
)

type SampleSummary = api.SampleSummary
type StudyResult = library.StudyResult

type SampleService struct {
	Options []RequestOption
}

func NewSampleService(opts ...RequestOption) SampleService {
	return SampleService{
		Options: opts,
	}
}

// List returns the bundled samples, filtered by subject when non-empty.
func (r *SampleService) List(ctx context.Context, subject string, opts ...RequestOption) ([]SampleSummary, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	path := "/samples"

	if subject != "" {
		path += "?subject=" + url.QueryEscape(subject)
	}

	var result []SampleSummary

	if err := c.doJSON(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SampleService) Get(ctx context.Context, id string, opts ...RequestOption) (*StudyResult, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var result StudyResult

	if err := c.doJSON(ctx, "GET", "/samples/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
