package client

import (
	"context"
	"net/url"

	"github.com/elimu-ai/elimu/pkg/store"
	"github.com/elimu-ai/elimu/server/api"
)

type Note = store.Note
type HistoryEntry = store.HistoryEntry

type NoteService struct {
	Options []RequestOption
}

func NewNoteService(opts ...RequestOption) NoteService {
	return NoteService{
		Options: opts,
	}
}

func (r *NoteService) List(ctx context.Context, documentID string, opts ...RequestOption) ([]Note, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	path := "/notes"

	if documentID != "" {
		path += "?document=" + url.QueryEscape(documentID)
	}

	var result []Note

	if err := c.doJSON(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *NoteService) New(ctx context.Context, documentID, content string, opts ...RequestOption) (*Note, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	input := api.NoteRequest{
		DocumentID: documentID,
		Content:    content,
	}

	var result Note

	if err := c.doJSON(ctx, "POST", "/notes", input, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *NoteService) Update(ctx context.Context, id, content string, opts ...RequestOption) (*Note, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	input := api.NoteRequest{
		Content: content,
	}

	var result Note

	if err := c.doJSON(ctx, "PUT", "/notes/"+url.PathEscape(id), input, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *NoteService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	c := newRequestConfig(append(r.Options, opts...)...)

	return c.doJSON(ctx, "DELETE", "/notes/"+url.PathEscape(id), nil, nil)
}
