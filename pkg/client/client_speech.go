package client

import (
	"context"

	"github.com/elimu-ai/elimu/pkg/processing"
	"github.com/elimu-ai/elimu/server/api"
)

type Voice = processing.Voice
type AudioResult = processing.AudioResult

type SpeechRequest = api.SpeechRequest
type SpeechState = api.SpeechState

type SpeechService struct {
	Options []RequestOption
}

func NewSpeechService(opts ...RequestOption) SpeechService {
	return SpeechService{
		Options: opts,
	}
}

func (r *SpeechService) Voices(ctx context.Context, opts ...RequestOption) ([]Voice, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var result []Voice

	if err := c.doJSON(ctx, "GET", "/voices", nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SpeechService) State(ctx context.Context, opts ...RequestOption) (*SpeechState, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var result SpeechState

	if err := c.doJSON(ctx, "GET", "/speech", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *SpeechService) Speak(ctx context.Context, input SpeechRequest, opts ...RequestOption) (*AudioResult, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var result AudioResult

	if err := c.doJSON(ctx, "POST", "/speech", input, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *SpeechService) Stop(ctx context.Context, opts ...RequestOption) (*SpeechState, error) {
	return r.control(ctx, "stop", opts...)
}

func (r *SpeechService) Pause(ctx context.Context, opts ...RequestOption) (*SpeechState, error) {
	return r.control(ctx, "pause", opts...)
}

func (r *SpeechService) Resume(ctx context.Context, opts ...RequestOption) (*SpeechState, error) {
	return r.control(ctx, "resume", opts...)
}

func (r *SpeechService) control(ctx context.Context, action string, opts ...RequestOption) (*SpeechState, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var result SpeechState

	if err := c.doJSON(ctx, "POST", "/speech/"+action, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
