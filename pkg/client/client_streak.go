package client

import (
	"context"

	"github.com/elimu-ai/elimu/server/api"
)

type Streak = api.StreakResponse

type StreakService struct {
	Options []RequestOption
}

func NewStreakService(opts ...RequestOption) StreakService {
	return StreakService{
		Options: opts,
	}
}

func (r *StreakService) Get(ctx context.Context, opts ...RequestOption) (*Streak, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var result Streak

	if err := c.doJSON(ctx, "GET", "/streak", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Record counts a study session for today.
func (r *StreakService) Record(ctx context.Context, opts ...RequestOption) (*Streak, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var result Streak

	if err := c.doJSON(ctx, "POST", "/streak", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
