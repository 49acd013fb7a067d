package limiter

import (
	"context"

	"golang.org/x/time/rate"
)

type Limiter interface {
	limiterSetup()
}

func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}

	return l.Wait(ctx)
}
